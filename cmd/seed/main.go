package main

import (
	"context"
	"errors"
	"log"
	"os"

	"hotelfront/internal/config"
	"hotelfront/internal/database"
	"hotelfront/internal/domain"
	"hotelfront/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

const defaultStaffPassword = "changeme123"

var staff = []domain.User{
	{Username: "board", Name: "Board", Role: domain.RoleBoard},
	{Username: "manager", Name: "Manager", Role: domain.RoleManagement},
	{Username: "reception", Name: "Reception", Role: domain.RoleReception},
	{Username: "housekeeping", Name: "Housekeeping", Role: domain.RoleHousekeeping},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	ctx := context.Background()

	db, err := database.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	rooms := repository.NewRoomRepository(db)
	n, err := rooms.Count(ctx)
	if err != nil {
		log.Fatal(err)
	}
	if n > 0 {
		log.Printf("Rooms already seeded (%d), skipping", n)
	} else {
		log.Println("Creating rooms...")
		for _, r := range inventory() {
			r := r
			if err := rooms.Create(ctx, &r); err != nil {
				log.Fatalf("create room %d: %v", r.Number, err)
			}
		}
	}

	password := os.Getenv("SEED_STAFF_PASSWORD")
	if password == "" {
		if cfg.IsProdLike() {
			log.Fatal("SEED_STAFF_PASSWORD must be set in prod/release")
		}
		password = defaultStaffPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	log.Println("Creating staff users...")
	users := repository.NewUserRepository(db)
	for _, u := range staff {
		u := u
		if _, err := users.GetByUsername(ctx, u.Username); err == nil {
			log.Printf("  %s exists, skipping", u.Username)
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal(err)
		}
		u.PasswordHash = string(hash)
		if err := users.Create(ctx, &u); err != nil {
			log.Fatalf("create user %s: %v", u.Username, err)
		}
		log.Printf("  %s (%s)", u.Username, u.Role)
	}

	log.Println("Seed completed")
}

// inventory is the fixed room stock: singles 101-120 and doubles 201-210.
func inventory() []domain.Room {
	out := make([]domain.Room, 0, 30)
	for n := 101; n <= 120; n++ {
		out = append(out, domain.Room{Number: n, Type: domain.RoomSingle, Status: domain.RoomAvailable})
	}
	for n := 201; n <= 210; n++ {
		out = append(out, domain.Room{Number: n, Type: domain.RoomDouble, Status: domain.RoomAvailable})
	}
	return out
}
