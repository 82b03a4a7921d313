package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestService() *Service {
	return NewService(strings.Repeat("k", 32), 10*time.Minute)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	svc := newTestService()

	token, err := svc.CreateAccessToken(42)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	userID, err := svc.DecodeAccessToken(token)
	if err != nil {
		t.Fatalf("decode token: %v", err)
	}
	if userID != 42 {
		t.Fatalf("decoded user ID = %d, want 42", userID)
	}
}

func TestDecodeAccessTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()

	for _, bad := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := svc.DecodeAccessToken(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestDecodeAccessTokenRejectsWrongSecret(t *testing.T) {
	token, err := newTestService().CreateAccessToken(7)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	other := NewService(strings.Repeat("x", 32), 10*time.Minute)
	if _, err := other.DecodeAccessToken(token); err == nil {
		t.Fatal("expected error for token signed with another secret")
	}
}

func TestDecodeAccessTokenRejectsExpired(t *testing.T) {
	svc := newTestService()
	issued := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	svc.now = func() time.Time { return issued }
	token, err := svc.CreateAccessToken(7)
	if err != nil {
		t.Fatalf("create token: %v", err)
	}

	svc.now = func() time.Time { return issued.Add(time.Hour) }
	if _, err := svc.DecodeAccessToken(token); err == nil {
		t.Fatal("expected error for expired token")
	}
}

func TestPasswordHashing(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the password")
	}
	if !CheckPassword(hash, "s3cret") {
		t.Fatal("expected password to match its hash")
	}
	if CheckPassword(hash, "wrong") {
		t.Fatal("expected mismatch for wrong password")
	}
}
