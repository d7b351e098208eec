// seed inserts development sample data for local testing. Run via go run ./cmd/seed.
// Idempotent: users whose email already exists are skipped.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"clearn/backend/internal/config"
	"clearn/backend/internal/db"
	"clearn/backend/internal/security"
	"clearn/backend/internal/signup"
	"clearn/backend/internal/signup/domain"
	"clearn/backend/internal/signup/repository"
)

// seedUser is a confirmed account that can log in straight away. Passwords differ because the
// store rejects a password already used by another account.
type seedUser struct {
	profile  domain.Profile
	password string
}

var seedUsers = []seedUser{
	{
		profile: domain.Profile{
			FullName:     "Dev User",
			Email:        "dev@example.com",
			PresentSkill: "Software Engineer",
			School:       "University of Buea",
			Country:      "Cameroon",
			PhoneNumber:  "+237 650 000 001",
		},
		password: "DevPass1!",
	},
	{
		profile: domain.Profile{
			FullName:     "Member User",
			Email:        "member@example.com",
			PresentSkill: "Data Analyst",
			School:       "National University of Singapore",
			Country:      "Singapore",
			PhoneNumber:  "+65 8000 0002",
		},
		password: "MemberPass2#",
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	hasher := security.NewHasher(cfg.BcryptCost)
	store := signup.NewCredentialStore(repository.NewPostgresRepository(conn), hasher)

	seeded, err := seed(ctx, store, hasher, seedUsers, time.Now().UTC())
	if err != nil {
		log.Fatal(err)
	}
	for _, su := range seedUsers {
		log.Printf("%s / %s", su.profile.Email, su.password)
	}
	log.Printf("Seed complete: %d new user(s).", seeded)
}

// seed confirms each user through the same duplicate checks as a real signup. Users whose email
// already exists are skipped. Returns how many were created.
func seed(ctx context.Context, store *signup.CredentialStore, hasher signup.PasswordHasher, users []seedUser, now time.Time) (int, error) {
	created := 0
	for _, su := range users {
		existing, err := store.GetUser(ctx, su.profile.Email)
		if err != nil {
			return created, fmt.Errorf("seed check %s: %w", su.profile.Email, err)
		}
		if existing != nil {
			continue
		}

		hash, err := hasher.Hash(su.password)
		if err != nil {
			return created, fmt.Errorf("hash password: %w", err)
		}
		// The code is never delivered; the pending record is promoted immediately.
		p := domain.NewPendingSignup(su.profile, hash, "SEED00", now)
		reason, err := store.InsertPendingUnique(ctx, p, su.password)
		if err != nil {
			return created, fmt.Errorf("create pending %s: %w", p.Email, err)
		}
		if reason != signup.ReasonNone {
			return created, fmt.Errorf("create pending %s: %s", p.Email, reason.Message())
		}
		if _, err := store.Promote(ctx, p.Email, now); err != nil {
			return created, fmt.Errorf("confirm %s: %w", p.Email, err)
		}
		created++
	}
	return created, nil
}
