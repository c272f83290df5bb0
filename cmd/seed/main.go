package main

import (
	"context"
	"log"
	"time"

	"leadcrm/internal/config"
	"leadcrm/internal/database"
	"leadcrm/internal/domain/auth"
	"leadcrm/internal/domain/lead"
	jwtsvc "leadcrm/internal/pkg/jwt"
	"leadcrm/internal/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	store := repository.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatal("migrate failed:", err)
	}

	authService := auth.NewService(db, jwtsvc.New(cfg.JWTSecret, cfg.TokenTTL))
	if err := authService.Migrate(); err != nil {
		log.Fatal("migrate users failed:", err)
	}

	ctx := context.Background()

	password := cfg.AdminPassword
	if password == "" {
		password = "changeme"
		log.Println("ADMIN_PASSWORD is empty, seeding with the default password")
	}
	admin, err := authService.EnsureUser(ctx, cfg.AdminEmail, "Admin", password)
	if err != nil {
		log.Fatal("seed admin failed:", err)
	}
	log.Println("admin user ready:", admin.Email)

	repo := lead.NewRepository(store)
	if err := repo.Load(ctx); err != nil {
		log.Fatal("load leads failed:", err)
	}
	if len(repo.List()) > 0 {
		log.Println("leads already present, skipping demo data")
		return
	}

	for _, d := range demoLeads() {
		if _, err := repo.Create(ctx, d); err != nil {
			log.Fatal("seed lead failed:", err)
		}
	}
	log.Printf("seeded %d demo leads", len(demoLeads()))
}

func demoLeads() []lead.Draft {
	return []lead.Draft{
		{
			CompanyName:   "Tech Solutions Inc",
			Email:         "contact@techsolutions.com",
			ContactNumber: "+1-555-0123",
			LeadSource:    "Website",
			AssignedTo:    "John Doe",
			Requirements:  "Need comprehensive CRM solution for 50+ employees",
			Address:       "123 Business Park, Tech City",
			Deadline:      datePtr(2026, time.October, 15),
			Potential:     intPtr(85),
			Status:        lead.StatusNegotiation,
			LastFollowUp:  datePtr(2026, time.August, 20),
			NextFollowUp:  datePtr(2026, time.September, 3),
		},
		{
			CompanyName:   "Green Energy Corp",
			Email:         "info@greenenergy.com",
			ContactNumber: "+1-555-0456",
			LeadSource:    "LinkedIn",
			AssignedTo:    "Jane Smith",
			Requirements:  "Solar panel installation management system",
			Address:       "456 Green Ave, Eco City",
			Deadline:      datePtr(2026, time.November, 1),
			Potential:     intPtr(60),
			Status:        lead.StatusContacted,
			LastFollowUp:  datePtr(2026, time.August, 25),
			NextFollowUp:  datePtr(2026, time.September, 5),
		},
		{
			CompanyName:   "StartupHub",
			Email:         "hello@startuphub.com",
			ContactNumber: "+1-555-0789",
			LeadSource:    "Referral",
			AssignedTo:    "Mike Johnson",
			Requirements:  "Simple lead tracking for startup accelerator",
			Address:       "789 Innovation St, StartupVille",
			Deadline:      datePtr(2026, time.September, 30),
			Potential:     intPtr(40),
			Status:        lead.StatusNew,
			NextFollowUp:  datePtr(2026, time.September, 8),
		},
		{
			CompanyName:   "Retail Masters",
			Email:         "orders@retailmasters.com",
			ContactNumber: "+1-555-0321",
			LeadSource:    "Cold Call",
			AssignedTo:    "Sarah Wilson",
			Requirements:  "Inventory and customer management system",
			Address:       "321 Commerce Blvd, Retail District",
			Deadline:      datePtr(2026, time.October, 20),
			Potential:     intPtr(70),
			Status:        lead.StatusContacted,
			LastFollowUp:  datePtr(2026, time.August, 28),
			NextFollowUp:  datePtr(2026, time.September, 12),
		},
		{
			CompanyName:   "FinanceFirst",
			Email:         "contact@financefirst.com",
			ContactNumber: "+1-555-0654",
			LeadSource:    "Trade Show",
			AssignedTo:    "David Brown",
			Requirements:  "Financial services CRM with compliance features",
			Address:       "654 Finance Row, Banking Quarter",
			Deadline:      datePtr(2026, time.December, 15),
			Potential:     intPtr(95),
			Status:        lead.StatusWon,
			LastFollowUp:  datePtr(2026, time.August, 30),
			NextFollowUp:  datePtr(2026, time.September, 15),
		},
	}
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func intPtr(v int) *int { return &v }
