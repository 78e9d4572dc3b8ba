package main

import (
	"context"
	"log"
	"time"

	"hotelfront/internal/config"
	"hotelfront/internal/database"
	"hotelfront/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect failed: %v", err)
	}

	n, err := repository.NewUserRepository(db).ClearExpiredLockouts(context.Background(), time.Now())
	if err != nil {
		log.Fatalf("clear expired lockouts failed: %v", err)
	}

	log.Printf("auth cleanup completed: expired_lockouts=%d", n)
}
