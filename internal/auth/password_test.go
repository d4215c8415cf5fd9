package auth

import (
	"strings"
	"testing"
)

func TestPasswordHashAndVerify(t *testing.T) {
	password := "flashcards-Own3r!"
	hash, err := HashPassword(password)
	if err != nil {
		t.Fatalf("unexpected error hashing password: %v", err)
	}
	if hash == "" || hash == password {
		t.Fatalf("expected bcrypt hash, got %q", hash)
	}
	if !strings.HasPrefix(hash, "$2") {
		t.Errorf("expected bcrypt format hash, got %q", hash)
	}

	if err := VerifyPassword(hash, password); err != nil {
		t.Fatalf("expected password to verify, got error: %v", err)
	}
	if err := VerifyPassword(hash, "flashcards-Own3r?"); err == nil {
		t.Fatal("expected verification to fail for wrong password")
	}
}

func TestHashPasswordRejectsBlank(t *testing.T) {
	for _, password := range []string{"", "   ", "\t"} {
		if _, err := HashPassword(password); err == nil {
			t.Errorf("HashPassword(%q) 应拒绝空白密码", password)
		}
	}
}

func TestVerifyPasswordRejectsEmptyHash(t *testing.T) {
	if err := VerifyPassword("", "anything"); err == nil {
		t.Fatal("空哈希不应验证通过")
	}
}
