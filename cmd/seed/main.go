package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/adhd-helper/config"
	"github.com/oksasatya/adhd-helper/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@adhd-helper.local"
	password := "password123"
	name := "Demo User"
	hash, err := helpers.NewPasswordHasher(cfg.BcryptCost).Hash(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, hashed_password, name, timezone)
		VALUES ($1, $2, $3, 'Asia/Seoul')
		ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name, updated_at = now()
		RETURNING id
	`, email, hash, name).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s name=%s password=%s\n", id, email, name, password)

	// a few sample rows so the dashboards are not empty
	if _, err := db.Exec(`
		INSERT INTO todo_items (user_id, title, priority)
		SELECT $1, t.title, t.priority
		FROM (VALUES ('Take medication', 5), ('Reply to emails', 3), ('Tidy desk', 1)) AS t(title, priority)
		WHERE NOT EXISTS (SELECT 1 FROM todo_items WHERE user_id = $1)
	`, id); err != nil {
		log.Fatalf("failed to seed todos: %v", err)
	}
	fmt.Println("sample todos ensured")
}
