package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"net/mail"
	"os"

	"diet-tracker/internal/auth"
	"diet-tracker/internal/storage"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if err == flag.ErrHelp {
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	fs.SetOutput(stderr)

	name := fs.String("name", "", "Full name")
	email := fs.String("email", "", "Email address")
	dbPath := fs.String("db", "meals.db", "Path to database file")

	if err := fs.Parse(args); err != nil {
		return err
	}

	if *name == "" || *email == "" {
		fmt.Fprintln(stdout, "Usage: register -name <name> -email <email> [-db <db_path>]")
		fs.PrintDefaults()
		return fmt.Errorf("missing required flags: name, email")
	}

	if _, err := mail.ParseAddress(*email); err != nil {
		return fmt.Errorf("invalid email %q: %w", *email, err)
	}

	// Allow overriding db path via env var if not explicitly set via flag (flag default is used)
	if path := os.Getenv("DB_PATH"); path != "" && *dbPath == "meals.db" {
		*dbPath = path
	}

	db, err := storage.NewDB(*dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	token, err := auth.GenerateSessionToken()
	if err != nil {
		return fmt.Errorf("failed to generate session token: %w", err)
	}

	user, err := db.RegisterUser(*name, *email, token)
	if errors.Is(err, storage.ErrDuplicateEmail) {
		return fmt.Errorf("user with email %s already exists", *email)
	}
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	fmt.Fprintf(stdout, "User %s created successfully with ID %d\n", user.Name, user.ID)
	fmt.Fprintf(stdout, "Session token: %s\n", token)
	return nil
}
