// seedadmin creates the first ADMIN account so a fresh deployment can log in.
package main

import (
	"context"
	"flag"
	"time"

	"phoneshop/internal/config"
	"phoneshop/internal/infra"
	"phoneshop/internal/model"
	"phoneshop/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	username := flag.String("username", "admin", "admin username")
	password := flag.String("password", "", "admin password (required)")
	fullName := flag.String("name", "Administrator", "display name")
	flag.Parse()

	if *password == "" {
		log.Fatal().Msg("-password is required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load failed")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.Env)
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)
	if _, err := users.FindByUsername(ctx, *username); err == nil {
		log.Fatal().Str("username", *username).Msg("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("hash failed")
	}

	admin := model.User{
		Username:     *username,
		FullName:     *fullName,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
		Active:       true,
	}
	if err := users.Create(ctx, &admin); err != nil {
		log.Fatal().Err(err).Msg("create failed")
	}
	log.Info().Str("username", *username).Msg("admin created")
}
