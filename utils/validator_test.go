package utils

import "testing"

type registerForm struct {
	Username        string `validate:"required,username"`
	Email           string `validate:"required,email"`
	Password        string `validate:"required,pwdmin"`
	ConfirmPassword string `validate:"required,eqfield=Password"`
}

func TestValidateStruct_Valid(t *testing.T) {
	f := registerForm{
		Username:        "alice_01",
		Email:           "alice@example.com",
		Password:        "secret1",
		ConfirmPassword: "secret1",
	}
	if err := ValidateStruct(&f); err != nil {
		t.Fatalf("expected valid form, got %v", err)
	}
}

func TestValidateStruct_Required(t *testing.T) {
	f := registerForm{Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret1"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatal("missing username should fail")
	}
}

func TestValidateStruct_EmailShape(t *testing.T) {
	f := registerForm{Username: "alice", Email: "not-an-email", Password: "secret1", ConfirmPassword: "secret1"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatal("malformed email should fail")
	}
}

func TestValidateStruct_PasswordMin(t *testing.T) {
	f := registerForm{Username: "alice", Email: "a@b.co", Password: "ab", ConfirmPassword: "ab"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatal("short password should fail")
	}
}

func TestValidateStruct_EqField(t *testing.T) {
	f := registerForm{Username: "alice", Email: "a@b.co", Password: "secret1", ConfirmPassword: "different"}
	if err := ValidateStruct(&f); err == nil {
		t.Fatal("mismatched confirmation should fail")
	}
}

func TestValidateStruct_URLAndCategory(t *testing.T) {
	type appForm struct {
		LinkApp  string `validate:"required,url"`
		Category string `validate:"required,category"`
	}
	ok := appForm{LinkApp: "https://example.com/app", Category: "game"}
	if err := ValidateStruct(&ok); err != nil {
		t.Fatalf("expected valid app form, got %v", err)
	}
	bad := appForm{LinkApp: "ftp://example.com", Category: "game"}
	if err := ValidateStruct(&bad); err == nil {
		t.Fatal("non-http url should fail")
	}
	badCat := appForm{LinkApp: "https://example.com", Category: "puzzle"}
	if err := ValidateStruct(&badCat); err == nil {
		t.Fatal("unknown category should fail")
	}
}
