package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	zxcvbn "github.com/nbutton23/zxcvbn-go"

	"github.com/quillpost/newsletter-service/internal/core/domain"
	"github.com/quillpost/newsletter-service/internal/infra/config"
	"github.com/quillpost/newsletter-service/internal/infra/database"
	"github.com/quillpost/newsletter-service/internal/infra/logger"
	"github.com/quillpost/newsletter-service/internal/infra/security"
	postgresrepo "github.com/quillpost/newsletter-service/internal/repository/postgres"
)

const minPasswordScore = 3

func main() {
	username := flag.String("username", "", "operator login name")
	password := flag.String("password", "", "operator password")
	flag.Parse()

	if *username == "" || *password == "" {
		flag.Usage()
		os.Exit(2)
	}

	if score := zxcvbn.PasswordStrength(*password, []string{*username}); score.Score < minPasswordScore {
		log.Fatalf("password too weak: score %d of 4, need at least %d", score.Score, minPasswordScore)
	}

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logInstance, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer func() {
		_ = logInstance.Sync()
	}()

	if err := security.ConfigureArgon2(security.DefaultArgon2Config()); err != nil {
		log.Fatalf("failed to configure argon2: %v", err)
	}

	hash, err := security.HashPassword(*password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	ctx := context.Background()

	pool, err := database.NewPostgresPool(ctx, cfg.Postgres, logInstance)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()

	operator := domain.Operator{
		UserID:       uuid.NewString(),
		Username:     *username,
		PasswordHash: hash,
	}

	repos := postgresrepo.NewRepositories(pool)
	if err := repos.Operators.Create(ctx, operator); err != nil {
		log.Fatalf("failed to create operator: %v", err)
	}

	fmt.Println(operator.UserID)
}
