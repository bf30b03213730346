// Command seed creates the admin account and a small demo catalog.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"ms-events/internal/auth"
	"ms-events/internal/config"
	"ms-events/internal/database"
	"ms-events/internal/logger"
	"ms-events/internal/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.NewWithWriter(os.Stdout)
	ctx := context.Background()

	bunDB, err := database.Connect(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}
	defer bunDB.Close()

	if err := seedAdmin(ctx, bunDB, log); err != nil {
		log.Fatal("SEED", err.Error())
	}
	if err := seedCatalog(ctx, bunDB, log); err != nil {
		log.Fatal("SEED", err.Error())
	}
	log.Info("SEED", "Done")
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func seedAdmin(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	email := getEnv("ADMIN_EMAIL", "admin@example.com")
	exists, err := db.NewSelect().Model((*models.User)(nil)).Where("email = ?", email).Exists(ctx)
	if err != nil {
		return err
	}
	if exists {
		log.Info("SEED", fmt.Sprintf("Admin %s already exists", email))
		return nil
	}

	hash, err := auth.HashPassword(getEnv("ADMIN_PASSWORD", "Admin123"))
	if err != nil {
		return err
	}
	admin := &models.User{
		ID:             uuid.NewString(),
		FullName:       "Administrator",
		Username:       getEnv("ADMIN_USERNAME", "admin"),
		Email:          email,
		Password:       hash,
		Role:           models.RoleAdmin,
		ProfilePicture: models.DefaultProfilePicture,
		IsActive:       true,
	}
	if _, err := db.NewInsert().Model(admin).Exec(ctx); err != nil {
		return fmt.Errorf("insert admin: %w", err)
	}
	log.Info("SEED", fmt.Sprintf("Created admin %s", email))
	return nil
}

func seedCatalog(ctx context.Context, db *bun.DB, log *logger.Logger) error {
	count, err := db.NewSelect().Model((*models.Category)(nil)).Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		log.Info("SEED", "Catalog already seeded")
		return nil
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		music := &models.Category{ID: uuid.NewString(), Name: "Music", Description: "Concerts and festivals", Icon: "music.png"}
		if _, err := tx.NewInsert().Model(music).Exec(ctx); err != nil {
			return err
		}

		start := time.Now().UTC().AddDate(0, 1, 0).Truncate(time.Hour)
		event := &models.Event{
			ID:          uuid.NewString(),
			Name:        "Summer Fest",
			Slug:        models.Slugify("Summer Fest"),
			StartDate:   start,
			EndDate:     start.Add(72 * time.Hour),
			Description: "Annual summer music festival.",
			Banner:      "summer-fest.jpg",
			CategoryID:  music.ID,
			CreatedBy:   "seed",
			IsFeatured:  true,
			IsPublish:   true,
			Location:    models.Location{Region: 3273, Coordinates: []float64{-6.9175, 107.6191}, Address: "Bandung"},
		}
		if _, err := tx.NewInsert().Model(event).Exec(ctx); err != nil {
			return err
		}

		ticketList := []models.Ticket{
			{ID: uuid.NewString(), Name: "Regular", Description: "General admission", Price: decimal.NewFromInt(150000), Quantity: 500, EventID: event.ID},
			{ID: uuid.NewString(), Name: "VIP", Description: "Front stage access", Price: decimal.NewFromInt(750000), Quantity: 50, EventID: event.ID},
		}
		if _, err := tx.NewInsert().Model(&ticketList).Exec(ctx); err != nil {
			return err
		}
		log.Info("SEED", fmt.Sprintf("Seeded event %s with %d tickets", event.Slug, len(ticketList)))
		return nil
	})
}
