package auth

import (
	"strings"
	"testing"
)

func TestHashPassword_Format(t *testing.T) {
	t.Parallel()

	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Verify PHC format: $argon2id$v=19$m=65536,t=3,p=4$<salt>$<hash>
	if !strings.HasPrefix(hash, "$argon2id$v=") {
		t.Errorf("Hash should be in PHC format, got: %s", hash)
	}

	parts := strings.Split(hash, "$")
	if len(parts) != 6 {
		t.Errorf("Hash should have 6 parts, got: %d", len(parts))
	}

	if parts[1] != "argon2id" {
		t.Errorf("Expected argon2id algorithm, got: %s", parts[1])
	}
	if parts[2] != "v=19" {
		t.Errorf("Expected v=19, got: %s", parts[2])
	}
	if parts[3] != "m=65536,t=3,p=4" {
		t.Errorf("Expected m=65536,t=3,p=4, got: %s", parts[3])
	}
}

func TestHashPassword_Uniqueness(t *testing.T) {
	t.Parallel()

	password := "the_same_password_12345"

	hash1, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	hash2, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Same password should produce different hashes (different salts)
	if hash1 == hash2 {
		t.Error("Same password should produce different hashes due to random salt")
	}

	match1, _ := VerifyPassword(password, hash1)
	match2, _ := VerifyPassword(password, hash2)

	if !match1 || !match2 {
		t.Error("Both hashes should verify correctly")
	}
}

func TestVerifyPassword_Correct(t *testing.T) {
	t.Parallel()

	password := "correct horse battery staple"

	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	match, err := VerifyPassword(password, hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !match {
		t.Error("Correct password should match")
	}
}

func TestVerifyPassword_Incorrect(t *testing.T) {
	t.Parallel()

	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}

	// Wrong password should not verify (but no error)
	match, err := VerifyPassword("incorrect pony battery staple", hash)
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if match {
		t.Error("Wrong password should not match")
	}
}

func TestVerifyPassword_InvalidHash(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		hash string
	}{
		{"empty", ""},
		{"not PHC", "plainhash"},
		{"missing parts", "$argon2id$v=19"},
		{"wrong algorithm", "$bcrypt$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := VerifyPassword("password", tt.hash)
			if err == nil {
				t.Errorf("expected error for hash %q", tt.hash)
			}
		})
	}
}

func TestQuickHash_Deterministic(t *testing.T) {
	t.Parallel()

	a := QuickHash("some-token")
	b := QuickHash("some-token")
	c := QuickHash("other-token")

	if a != b {
		t.Error("QuickHash should be deterministic")
	}
	if a == c {
		t.Error("Different inputs should produce different hashes")
	}
	if len(a) != 32 {
		t.Errorf("expected 32 hex chars, got %d", len(a))
	}
}
