// Command admin runs deployment-time maintenance: schema migration and
// bootstrap user creation without the OTP flow.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"classtrack/internal/auth"
	"classtrack/internal/config"
	"classtrack/internal/store"
)

func usage() {
	fmt.Fprintf(os.Stderr, `usage: admin COMMAND [args]

Commands:
  migrate                 create the database schema
  adduser EMAIL PASSWORD  create a verified user
`)
	os.Exit(2)
}

func main() {
	if len(os.Args) < 2 {
		usage()
	}

	cfg := config.Load()
	db, err := store.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("open store: %v", err)
	}
	defer func() { _ = db.Close() }()

	ctx := context.Background()

	switch os.Args[1] {
	case "migrate":
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		log.Println("schema up to date")

	case "adduser":
		if len(os.Args) != 4 {
			usage()
		}
		email, password := os.Args[2], os.Args[3]
		if err := db.Migrate(ctx); err != nil {
			log.Fatalf("migrate: %v", err)
		}
		hash, err := auth.HashPassword(password)
		if err != nil {
			log.Fatalf("hash password: %v", err)
		}
		repo := auth.NewRepository(db.Client)
		if existing, err := repo.GetUserByEmail(ctx, email); err != nil {
			log.Fatalf("lookup user: %v", err)
		} else if existing != nil {
			log.Fatalf("user %s already exists", email)
		}
		if err := repo.CreateUser(ctx, email, hash, true); err != nil {
			log.Fatalf("create user: %v", err)
		}
		log.Printf("user %s created", email)

	default:
		usage()
	}
}
