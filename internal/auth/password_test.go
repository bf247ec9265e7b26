package auth

import "testing"

func TestHashAndCheck(t *testing.T) {
	hash, err := HashPassword("s3cret")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "s3cret" || !IsHashed(hash) {
		t.Fatalf("unexpected hash %q", hash)
	}
	if !CheckPasswordHash("s3cret", hash) {
		t.Fatal("expected password to match")
	}
	if CheckPasswordHash("wrong", hash) {
		t.Fatal("expected wrong password to fail")
	}
}

func TestHashesAreSalted(t *testing.T) {
	a, _ := HashPassword("same")
	b, _ := HashPassword("same")
	if a == b {
		t.Fatal("two hashes of the same password must differ")
	}
}

func TestCheckLegacyPlaintext(t *testing.T) {
	if !CheckPasswordHash("admin123", "admin123") {
		t.Fatal("legacy plaintext should match exactly")
	}
	if CheckPasswordHash("admin12", "admin123") {
		t.Fatal("legacy plaintext must not match a prefix")
	}
}
