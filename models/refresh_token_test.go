package models

import (
	"strings"
	"testing"
	"time"
)

func TestNewRefreshToken(t *testing.T) {
	rt, err := NewRefreshToken(7, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if !strings.HasPrefix(rt.ID, "rt_") {
		t.Fatalf("token id should carry the rt_ prefix, got %s", rt.ID)
	}
	if len(rt.ID) != 51 {
		t.Fatalf("token id should be 51 chars, got %d", len(rt.ID))
	}
	if rt.UserID != 7 {
		t.Fatalf("unexpected user id %d", rt.UserID)
	}
	if rt.Revoked {
		t.Fatal("new token must not be revoked")
	}
	until := time.Until(rt.ExpiresAt)
	if until < 59*time.Minute || until > time.Hour {
		t.Fatalf("expiry should be about an hour out, got %v", until)
	}

	other, err := NewRefreshToken(7, time.Hour)
	if err != nil {
		t.Fatalf("NewRefreshToken: %v", err)
	}
	if other.ID == rt.ID {
		t.Fatal("token ids must be unique")
	}
}
