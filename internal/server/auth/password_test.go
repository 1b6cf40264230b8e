package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("Sup3r@secret")
	if err != nil {
		t.Fatalf("HashPassword error: %v", err)
	}
	if hash == "Sup3r@secret" {
		t.Fatalf("hash equals plaintext")
	}
	if !VerifyPassword("Sup3r@secret", hash) {
		t.Fatalf("correct password rejected")
	}
	if VerifyPassword("wrong@Passw0rd", hash) {
		t.Fatalf("wrong password accepted")
	}
}

func TestVerifyPassword_BadHash(t *testing.T) {
	if VerifyPassword("anything", "not-a-bcrypt-hash") {
		t.Fatalf("malformed hash accepted")
	}
}
