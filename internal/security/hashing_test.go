package security

import (
	"errors"
	"testing"
)

func TestHasher_HashAndMatches(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("Secret123!")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" || hash == "Secret123!" {
		t.Fatalf("Hash returned %q", hash)
	}
	if !h.Matches(hash, "Secret123!") {
		t.Fatal("Matches should accept the hashed password")
	}
}

func TestHasher_MatchesWrongPassword(t *testing.T) {
	h := NewHasher(4)
	hash, _ := h.Hash("Secret123!")
	if h.Matches(hash, "secret123!") {
		t.Fatal("Matches with wrong password should fail")
	}
}

func TestHasher_MatchesMalformedHash(t *testing.T) {
	h := NewHasher(4)
	if h.Matches("", "Secret123!") {
		t.Error("empty hash should never match")
	}
	if h.Matches("not-a-bcrypt-hash", "Secret123!") {
		t.Error("malformed hash should never match")
	}
}

func TestHasher_EmptyPassword(t *testing.T) {
	h := NewHasher(4)
	if _, err := h.Hash(""); !errors.Is(err, ErrEmptyPassword) {
		t.Errorf("Hash(\"\") err = %v, want ErrEmptyPassword", err)
	}
}

func TestHasher_Cost(t *testing.T) {
	if h := NewHasher(12); h.Cost != 12 {
		t.Errorf("Cost want 12, got %d", h.Cost)
	}
	if h := NewHasher(0); h.Cost != 10 {
		t.Errorf("zero cost should select bcrypt.DefaultCost, got %d", h.Cost)
	}
	if h := NewHasher(2); h.Cost != 4 {
		t.Errorf("cost below MinCost should clamp to 4, got %d", h.Cost)
	}
	if h := NewHasher(40); h.Cost != 31 {
		t.Errorf("cost above MaxCost should clamp to 31, got %d", h.Cost)
	}
}
