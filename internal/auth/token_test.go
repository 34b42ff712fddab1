package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)
	userID := uuid.New()

	token, err := issuer.Issue(userID, time.Now())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	got, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("Verify failed: %v", err)
	}
	if got != userID {
		t.Errorf("Verify() = %s, want %s", got, userID)
	}
}

func TestTokenVerify_WrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 24*time.Hour)
	other := NewTokenIssuer("other-secret", 24*time.Hour)

	token, err := issuer.Issue(uuid.New(), time.Now())
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := other.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenVerify_Expired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	// Issued two hours in the past, so it expired one hour ago.
	token, err := issuer.Issue(uuid.New(), time.Now().Add(-2*time.Hour))
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	if _, err := issuer.Verify(token); err != ErrInvalidToken {
		t.Errorf("Verify() error = %v, want ErrInvalidToken", err)
	}
}

func TestTokenVerify_Garbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)

	for _, tok := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := issuer.Verify(tok); err != ErrInvalidToken {
			t.Errorf("Verify(%q) error = %v, want ErrInvalidToken", tok, err)
		}
	}
}
