package main

import (
	"context"
	"strings"
	"testing"
	"time"

	"clearn/backend/internal/security"
	"clearn/backend/internal/signup"
	"clearn/backend/internal/signup/domain"
	"clearn/backend/internal/signup/repository"
)

func newSeedStore() (*signup.CredentialStore, *security.Hasher) {
	hasher := security.NewHasher(4)
	return signup.NewCredentialStore(repository.NewMemory(), hasher), hasher
}

func TestSeed_UsersAreUniqueAndIdempotent(t *testing.T) {
	ctx := context.Background()
	store, hasher := newSeedStore()
	now := time.Now().UTC()

	n, err := seed(ctx, store, hasher, seedUsers, now)
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if n != len(seedUsers) {
		t.Errorf("created = %d, want %d", n, len(seedUsers))
	}
	for _, su := range seedUsers {
		u, err := store.GetUser(ctx, su.profile.Email)
		if err != nil || u == nil {
			t.Fatalf("GetUser(%s) = %v, %v", su.profile.Email, u, err)
		}
		if !hasher.Matches(u.PasswordHash, su.password) {
			t.Errorf("%s: stored hash does not match its own password", su.profile.Email)
		}
	}

	n, err = seed(ctx, store, hasher, seedUsers, now)
	if err != nil {
		t.Fatalf("second seed: %v", err)
	}
	if n != 0 {
		t.Errorf("second run created %d users, want 0", n)
	}
}

func TestSeed_RejectsSharedPassword(t *testing.T) {
	store, hasher := newSeedStore()
	users := []seedUser{
		{profile: domain.Profile{FullName: "Ada Lovelace", Email: "ada@example.com", PhoneNumber: "+441234567"}, password: "Same1!pass"},
		{profile: domain.Profile{FullName: "Grace Hopper", Email: "grace@example.com", PhoneNumber: "+15550102000"}, password: "Same1!pass"},
	}

	n, err := seed(context.Background(), store, hasher, users, time.Now().UTC())
	if err == nil {
		t.Fatal("seed should fail when two users share a password")
	}
	if !strings.Contains(err.Error(), signup.ReasonPassword.Message()) {
		t.Errorf("err = %v, want password conflict", err)
	}
	if n != 1 {
		t.Errorf("created = %d, want 1 before the conflict", n)
	}
}
