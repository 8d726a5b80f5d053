package main

import (
	"database/sql"
	"fmt"
	"os"
	"strings"
	"time"

	_ "github.com/lib/pq"
)

var statements = []string{
	`CREATE TABLE IF NOT EXISTS artists (
		id         UUID PRIMARY KEY,
		name       TEXT NOT NULL,
		email      TEXT NOT NULL UNIQUE,
		region     TEXT NOT NULL DEFAULT 'IN',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS products (
		id          UUID PRIMARY KEY,
		artist_id   UUID NOT NULL REFERENCES artists(id),
		artist_name TEXT NOT NULL,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		price       DOUBLE PRECISION NOT NULL,
		notes       TEXT NOT NULL,
		images      JSONB NOT NULL DEFAULT '[]'::jsonb,
		is_active   BOOLEAN NOT NULL DEFAULT TRUE,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE INDEX IF NOT EXISTS idx_products_artist_active
		ON products (artist_id) WHERE is_active;`,
	`CREATE TABLE IF NOT EXISTS insight_snapshots (
		artist_id     UUID PRIMARY KEY REFERENCES artists(id),
		product_count INTEGER NOT NULL,
		insights      JSONB NOT NULL,
		computed_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
	`CREATE TABLE IF NOT EXISTS integration_credentials (
		provider   TEXT PRIMARY KEY,
		token      TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);`,
}

func main() {
	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "DATABASE_URL is required")
		os.Exit(1)
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()
	db.SetConnMaxLifetime(time.Minute)

	if err := db.Ping(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to reach database: %v\n", err)
		os.Exit(1)
	}

	for i, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			fmt.Fprintf(os.Stderr, "migration statement %d failed: %v\n", i+1, err)
			os.Exit(1)
		}
	}
	fmt.Println("migrations applied")
}
