package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/confreview/backend/internal/config"
	"github.com/confreview/backend/internal/database"
	"github.com/confreview/backend/internal/logger"
	"github.com/confreview/backend/internal/models"
	"github.com/confreview/backend/internal/repository"
	"github.com/confreview/backend/internal/roles"
	"github.com/confreview/backend/internal/services"
)

// UserData represents the structure of users in the JSON file. Role may be
// a legacy name such as admin or publisher.
type UserData struct {
	Name          string   `json:"name"`
	Email         string   `json:"email"`
	Password      string   `json:"password"`
	Role          string   `json:"role"`
	Roles         []string `json:"roles"`
	ContactNumber string   `json:"contactNumber"`
}

type EventData struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	Date           string `json:"date"`
	ReviewDeadline string `json:"reviewDeadline"`
}

// SeedData represents the structure of the JSON file
type SeedData struct {
	Users  []UserData  `json:"users"`
	Events []EventData `json:"events"`
}

func main() {
	cfg, _ := config.Load()
	logger.Initialize(cfg.Log)

	path := "data/seed.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := loadSeed(path)
	if err != nil {
		logger.Fatal("Failed to read seed file", map[string]interface{}{"error": err.Error(), "path": path})
	}

	store, closeStore, err := database.Open(cfg.Database, true)
	if err != nil {
		logger.Fatal("Failed to open store", map[string]interface{}{"error": err.Error()})
	}
	defer closeStore()

	ctx := context.Background()
	coordinatorID := seedUsers(ctx, store, cfg.JWT, data.Users)
	seedEvents(ctx, store, coordinatorID, data.Events)

	logger.Info("Database seeding completed successfully", nil)
}

func loadSeed(path string) (*SeedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data SeedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &data, nil
}

// seedUsers registers every user through the auth service so roles are
// normalized and passwords hashed. It returns the id of the first
// coordinator, used as the creator of seeded events.
func seedUsers(ctx context.Context, store *repository.Store, jwtCfg config.JWTConfig, users []UserData) uint {
	auth := services.NewAuthService(store, services.NewTokenManager(jwtCfg))
	var coordinatorID uint

	for _, u := range users {
		user, err := auth.Register(ctx, services.RegisterInput{
			Name:          u.Name,
			Email:         u.Email,
			Password:      u.Password,
			Role:          u.Role,
			Roles:         u.Roles,
			ContactNumber: u.ContactNumber,
		})
		switch {
		case errors.Is(err, services.ErrConflict):
			logger.Warn("User already exists", map[string]interface{}{"email": u.Email})
			user, err = store.Users.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(u.Email)))
			if err != nil {
				continue
			}
		case err != nil:
			logger.Error("Failed to create user", map[string]interface{}{"email": u.Email, "error": err.Error()})
			continue
		default:
			logger.Info("Created user", map[string]interface{}{"email": user.Email, "roles": []string(user.Roles)})
		}

		if coordinatorID == 0 && roles.Has(user.Roles, roles.Coordinator) {
			coordinatorID = user.ID
		}
	}
	return coordinatorID
}

func seedEvents(ctx context.Context, store *repository.Store, createdBy uint, events []EventData) {
	if len(events) == 0 {
		return
	}
	if createdBy == 0 {
		logger.Warn("No coordinator seeded, skipping events", nil)
		return
	}

	existing, err := store.Events.List(ctx)
	if err != nil {
		logger.Error("Failed to list events", map[string]interface{}{"error": err.Error()})
		return
	}
	titles := make(map[string]bool, len(existing))
	for _, e := range existing {
		titles[e.Title] = true
	}

	for _, e := range events {
		if titles[e.Title] {
			logger.Warn("Event already exists", map[string]interface{}{"title": e.Title})
			continue
		}
		date, err := time.Parse("2006-01-02", e.Date)
		if err != nil {
			logger.Error("Invalid event date", map[string]interface{}{"title": e.Title, "date": e.Date})
			continue
		}
		event := &models.Event{
			Title:       e.Title,
			Description: e.Description,
			Date:        date,
			CreatedBy:   createdBy,
		}
		if e.ReviewDeadline != "" {
			if d, err := time.Parse("2006-01-02", e.ReviewDeadline); err == nil {
				event.ReviewDeadline = &d
			}
		}
		if err := store.Events.Create(ctx, event); err != nil {
			logger.Error("Failed to create event", map[string]interface{}{"title": e.Title, "error": err.Error()})
			continue
		}
		logger.Info("Created event", map[string]interface{}{"title": event.Title, "id": event.ID})
	}
}
