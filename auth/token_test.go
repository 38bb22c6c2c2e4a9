package auth

import (
	"errors"
	"testing"
	"time"
)

func TestTokenRoundTrip(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	token, err := tm.Sign("user-123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	userID, err := tm.Verify(token)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("Verify() = %q, want %q", userID, "user-123")
	}
}

func TestVerify_Rejects(t *testing.T) {
	tm := NewTokenManager("test-secret", time.Hour)

	signedElsewhere, err := NewTokenManager("other-secret", time.Hour).Sign("user-123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	expired, err := NewTokenManager("test-secret", -time.Minute).Sign("user-123")
	if err != nil {
		t.Fatalf("Sign() error = %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"empty", ""},
		{"wrong secret", signedElsewhere},
		{"expired", expired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tm.Verify(tt.token); !errors.Is(err, ErrInvalidToken) {
				t.Errorf("Verify() error = %v, want %v", err, ErrInvalidToken)
			}
		})
	}
}
