package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Registers an artisan account so they can log in to the API.
func main() {
	var (
		nameFlag   string
		emailFlag  string
		regionFlag string
	)
	flag.StringVar(&nameFlag, "name", "", "artisan display name")
	flag.StringVar(&emailFlag, "email", "", "artisan login email")
	flag.StringVar(&regionFlag, "region", "IN", "ISO country code of the artisan's region")
	flag.Parse()

	name := strings.TrimSpace(nameFlag)
	email := strings.ToLower(strings.TrimSpace(emailFlag))
	region := strings.ToUpper(strings.TrimSpace(regionFlag))
	if name == "" || email == "" {
		fmt.Fprintln(os.Stderr, "-name and -email are required")
		os.Exit(1)
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create pool: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	id := uuid.NewString()
	_, err = pool.Exec(ctx, `
INSERT INTO artists (id, name, email, region, created_at)
VALUES ($1, $2, $3, $4, NOW())
ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, region = EXCLUDED.region;
`, id, name, email, region)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to register artisan: %v\n", err)
		os.Exit(1)
	}

	var storedID string
	if err := pool.QueryRow(ctx, `SELECT id FROM artists WHERE email = $1;`, email).Scan(&storedID); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read back artisan: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("artisan registered: %s\n", storedID)
}
