// Command createadmin provisions a back-office account.  There is no
// self-registration endpoint; operators run this against the same
// environment the server uses.
//
//	createadmin -email ops@example.com -password s3cret -role ADMIN
package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/morekat/boat-charter/internal/config"
	"github.com/morekat/boat-charter/internal/database"
	"github.com/morekat/boat-charter/internal/model"
	"github.com/morekat/boat-charter/internal/repository"
)

func main() {
	email := flag.String("email", "", "login email for the new account")
	password := flag.String("password", "", "initial password")
	role := flag.String("role", model.RoleAdmin, "ADMIN or OWNER")
	flag.Parse()

	if *email == "" || *password == "" {
		log.Fatal("both -email and -password are required")
	}
	if *role != model.RoleAdmin && *role != model.RoleOwner {
		log.Fatalf("role must be %s or %s", model.RoleAdmin, model.RoleOwner)
	}

	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepo(db)
	id, err := users.CreateAdmin(ctx, *email, *password, *role, cfg.BcryptCost)
	if err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			log.Fatalf("an account with email %s already exists", *email)
		}
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("created %s account id=%d email=%s", *role, id, *email)
}
