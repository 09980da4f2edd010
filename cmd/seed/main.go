package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/quantdeck/quantdeck/config"
	"github.com/quantdeck/quantdeck/pkg/helpers"
)

// Seeds a local database with an owner account and one approved demo
// strategy. The bootstrap marker is claimed so a later registration
// cannot become a second owner.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "owner@quantdeck.local"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var ownerID string
	err = db.QueryRow(`
		INSERT INTO users (email, password_hash, display_name, role)
		VALUES ($1, $2, 'owner', 'owner')
		ON CONFLICT (email) DO UPDATE SET role='owner'
		RETURNING id
	`, email, hash).Scan(&ownerID)
	if err != nil {
		log.Fatalf("failed to seed owner: %v", err)
	}
	fmt.Printf("seeded owner: id=%s email=%s password=%s\n", ownerID, email, password)

	if _, err := db.Exec(`INSERT INTO bootstrap (id) VALUES (1) ON CONFLICT (id) DO NOTHING`); err != nil {
		log.Fatalf("failed to claim bootstrap marker: %v", err)
	}

	var strategyID string
	err = db.QueryRow(`
		INSERT INTO strategies (user_id, name, strategy_code, run_state, approval_state, owner_name, owner_email)
		VALUES ($1, 'demo momentum', 'if close > sma(close, 20): buy() else: sell()', 'stopped', 'approved', 'owner', $2)
		RETURNING id
	`, ownerID, email).Scan(&strategyID)
	if err != nil {
		log.Fatalf("failed to seed strategy: %v", err)
	}
	fmt.Printf("seeded approved demo strategy: id=%s\n", strategyID)
}
