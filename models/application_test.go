package models

import "testing"

func strPtr(s string) *string { return &s }

func TestLogo_CustomWinsOverDefault(t *testing.T) {
	app := Application{
		DefaultLogo: strPtr("static/images/social.png"),
		CustomLogo:  strPtr("logos/custom_1.png"),
	}
	if got := app.Logo(); got != "logos/custom_1.png" {
		t.Fatalf("expected custom logo, got %s", got)
	}
	if !app.HasCustomLogo() {
		t.Fatal("HasCustomLogo should be true")
	}
}

func TestLogo_DefaultWhenNoCustom(t *testing.T) {
	app := Application{DefaultLogo: strPtr("static/images/social.png")}
	if got := app.Logo(); got != "static/images/social.png" {
		t.Fatalf("expected default logo, got %s", got)
	}
	if app.HasCustomLogo() {
		t.Fatal("HasCustomLogo should be false")
	}
}

func TestLogo_GenericFallback(t *testing.T) {
	app := Application{}
	if got := app.Logo(); got != GenericLogo {
		t.Fatalf("expected generic fallback, got %s", got)
	}
}

func TestLogo_EmptyStringsDoNotWin(t *testing.T) {
	// a set-but-empty column must fall through to the next branch
	app := Application{DefaultLogo: strPtr(""), CustomLogo: strPtr("")}
	if got := app.Logo(); got != GenericLogo {
		t.Fatalf("expected generic fallback for empty columns, got %s", got)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range []string{CategorySocial, CategoryGame, CategoryProductivity} {
		if !ValidCategory(c) {
			t.Fatalf("%s should be valid", c)
		}
	}
	for _, c := range []string{"", "Social", "games", "misc"} {
		if ValidCategory(c) {
			t.Fatalf("%q should be invalid", c)
		}
	}
}

func TestValidTaskStatus(t *testing.T) {
	for _, s := range []string{TaskPending, TaskApproved, TaskRejected} {
		if !ValidTaskStatus(s) {
			t.Fatalf("%s should be valid", s)
		}
	}
	if ValidTaskStatus("pending") {
		t.Fatal("statuses are case sensitive")
	}
}
