package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"ticketly/internal/events"
	"ticketly/internal/shared/config"
	"ticketly/internal/shared/database"
	"ticketly/internal/users"

	"github.com/google/uuid"
)

type Seeder struct {
	db *database.DB
}

func main() {
	fmt.Println("🌱 Starting Ticketly Database Seeder...")

	cfg := config.Load()

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	seeder := &Seeder{db: db}

	fmt.Println("\n🧹 Cleaning database...")
	if err := seeder.CleanDatabase(); err != nil {
		log.Fatalf("Failed to clean database: %v", err)
	}
	fmt.Println("✅ Database cleaned successfully")

	fmt.Println("\n🌱 Seeding database...")
	if err := seeder.SeedAll(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}
	fmt.Println("✅ Database seeded successfully")

	fmt.Println("\n🎉 Seeding completed! Database is ready for testing.")
}

// CleanDatabase truncates all tables in the correct order (respecting foreign key constraints)
func (s *Seeder) CleanDatabase() error {
	tables := []string{
		"cancellations",
		"payment_events",
		"booking_attendees",
		"bookings",
		"events",
		"users",
	}

	for _, table := range tables {
		if err := s.db.GetPostgreSQL().Exec(fmt.Sprintf("TRUNCATE TABLE %s CASCADE", table)).Error; err != nil {
			return fmt.Errorf("failed to truncate %s: %w", table, err)
		}
	}
	return nil
}

// SeedAll seeds users and a spread of demo events
func (s *Seeder) SeedAll() error {
	admin, user, err := s.seedUsers()
	if err != nil {
		return err
	}
	return s.seedEvents(admin, user)
}

func (s *Seeder) seedUsers() (*users.User, *users.User, error) {
	admin := &users.User{
		ID:        uuid.New(),
		FirstName: "Ada",
		LastName:  "Admin",
		Email:     "admin@ticketly.dev",
		Role:      users.RoleAdmin,
	}
	user := &users.User{
		ID:        uuid.New(),
		FirstName: "Uma",
		LastName:  "User",
		Email:     "user@ticketly.dev",
		Role:      users.RoleUser,
	}

	if err := s.db.GetPostgreSQL().Create(&[]*users.User{admin, user}).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to seed users: %w", err)
	}

	fmt.Printf("   👤 Seeded users: %s, %s\n", admin.Email, user.Email)
	return admin, user, nil
}

func (s *Seeder) seedEvents(admin, user *users.User) error {
	ctx := context.Background()
	repo := events.NewRepository(s.db.GetPostgreSQL())

	demoEvents := []*events.Event{
		{
			ID:       uuid.New(),
			Name:     "Go Conference 2026",
			Venue:    "Harbor Convention Center",
			DateTime: time.Now().AddDate(0, 1, 0),
			Capacity: 500,
			Price:    199.00,
			Status:   events.StatusPublished,
		},
		{
			ID:       uuid.New(),
			Name:     "Midnight Jazz Session",
			Venue:    "Blue Note Hall",
			DateTime: time.Now().AddDate(0, 0, 14),
			Capacity: 80,
			Price:    45.50,
			Status:   events.StatusPublished,
		},
		{
			// Free event: bookings confirm without a payment leg.
			ID:       uuid.New(),
			Name:     "Open Source Meetup",
			Venue:    "City Library Auditorium",
			DateTime: time.Now().AddDate(0, 0, 7),
			Capacity: 120,
			Price:    0,
			Status:   events.StatusPublished,
		},
		{
			// Small capacity, useful for exercising sold-out behavior.
			ID:       uuid.New(),
			Name:     "Chef's Table Tasting",
			Venue:    "Maison Verte",
			DateTime: time.Now().AddDate(0, 0, 21),
			Capacity: 10,
			Price:    500.00,
			Status:   events.StatusPublished,
		},
		{
			// Draft event: not bookable until published.
			ID:       uuid.New(),
			Name:     "Winter Gala (TBA)",
			Venue:    "Grand Ballroom",
			DateTime: time.Now().AddDate(0, 3, 0),
			Capacity: 300,
			Price:    150.00,
			Status:   events.StatusDraft,
		},
	}

	for _, event := range demoEvents {
		event.CreatedBy = admin.ID
		if err := repo.CreateEvent(ctx, event); err != nil {
			return fmt.Errorf("failed to seed event %q: %w", event.Name, err)
		}
		fmt.Printf("   🎫 Seeded event: %s (%d seats, $%.2f, %s)\n",
			event.Name, event.Capacity, event.Price, event.Status)
	}

	return nil
}
