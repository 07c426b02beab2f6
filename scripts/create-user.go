// Command create-user seeds an account directly in the database.
// Intended for local development and first-run bootstrap; production
// accounts go through /auth/register.
//
// Usage:
//
//	go run scripts/create-user.go -email dev@focusdeck.local -password devpassword
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/focusdeck/focusdeck/internal/auth"
	"github.com/focusdeck/focusdeck/internal/model"
	"github.com/focusdeck/focusdeck/internal/repository"
)

type output struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		email       = flag.String("email", "dev@focusdeck.local", "Account email")
		name        = flag.String("name", "Dev User", "Account name")
		password    = flag.String("password", "", "Account password (required)")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}
	if *password == "" {
		fmt.Fprintln(os.Stderr, "-password is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "migrate:", err)
		os.Exit(1)
	}

	hash, err := auth.HashPassword(*password)
	if err != nil {
		fmt.Fprintln(os.Stderr, "hash password:", err)
		os.Exit(1)
	}

	user := &model.User{
		ID:           ulid.Make().String(),
		Name:         *name,
		Email:        *email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			fmt.Fprintf(os.Stderr, "email %s is already registered\n", *email)
			os.Exit(1)
		}
		fmt.Fprintln(os.Stderr, "create user:", err)
		os.Exit(1)
	}

	out := output{
		UserID: user.ID,
		Email:  user.Email,
		Name:   user.Name,
	}

	switch *format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Printf("created user %s (%s)\n", out.Email, out.UserID)
		fmt.Println("log in via POST /auth/token with form fields username and password")
	}
}
