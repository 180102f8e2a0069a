package auth

import (
	"errors"
	"strings"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

// Low cost keeps the hashing tests fast.
const testBcryptCost = bcrypt.MinCost

func TestHashPassword_RoundTrip(t *testing.T) {
	digest, err := HashPassword("123", testBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	if digest == "" {
		t.Fatal("HashPassword() returned empty digest")
	}
	if digest == "123" {
		t.Fatal("digest equals plaintext")
	}

	if err := CheckPassword("123", digest); err != nil {
		t.Errorf("CheckPassword(correct) error = %v", err)
	}
	if err := CheckPassword("124", digest); !errors.Is(err, ErrInvalidPassword) {
		t.Errorf("CheckPassword(wrong) error = %v, want ErrInvalidPassword", err)
	}
}

func TestHashPassword_Salted(t *testing.T) {
	first, err := HashPassword("same-password", testBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	second, err := HashPassword("same-password", testBcryptCost)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}

	// Salting means two digests of the same plaintext differ
	if first == second {
		t.Error("two hashes of the same password are identical")
	}

	// But both must verify
	if err := CheckPassword("same-password", first); err != nil {
		t.Errorf("CheckPassword(first) error = %v", err)
	}
	if err := CheckPassword("same-password", second); err != nil {
		t.Errorf("CheckPassword(second) error = %v", err)
	}
}

func TestHashPassword_Validation(t *testing.T) {
	tests := []struct {
		name     string
		password string
		wantErr  error
	}{
		{name: "empty password", password: "", wantErr: ErrPasswordRequired},
		{name: "too long", password: strings.Repeat("a", 73), wantErr: ErrPasswordTooLong},
		{name: "short password allowed", password: "123", wantErr: nil},
		{name: "72 bytes allowed", password: strings.Repeat("a", 72), wantErr: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HashPassword(tt.password, testBcryptCost)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("HashPassword() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCheckPassword_MalformedDigest(t *testing.T) {
	for _, digest := range []string{"", "not-a-bcrypt-digest", "$2a$garbage"} {
		if err := CheckPassword("anything", digest); !errors.Is(err, ErrInvalidPassword) {
			t.Errorf("CheckPassword(%q) error = %v, want ErrInvalidPassword", digest, err)
		}
	}
}

func TestGenerateSessionSecret(t *testing.T) {
	secret, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}
	if len(secret) != 64 {
		t.Errorf("secret length = %d, want 64 (32 bytes hex)", len(secret))
	}

	other, err := GenerateSessionSecret()
	if err != nil {
		t.Fatalf("GenerateSessionSecret() error = %v", err)
	}
	if secret == other {
		t.Error("two generated secrets are identical")
	}
}
