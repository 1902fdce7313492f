package db

import (
	"log"
	"os"
	"toolrank/internal/models"
	"toolrank/internal/utils"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=toolrank port=5432 sslmode=disable"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedCategories()
}

// Migrate runs AutoMigrate for every model. Shared with test setups.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Tag{},
		&models.Tool{},
		&models.Vote{},
		&models.VoteAuditLog{},
		&models.Review{},
		&models.ClaimRequest{},
		&models.Article{},
		&models.NewsletterSubscriber{},
	)
}

func seedCategories() {
	var count int64
	DB.Model(&models.Category{}).Count(&count)
	if count > 0 {
		log.Println("Categories already seeded, skipping")
		return
	}

	categories := []models.Category{
		{Name: "Developer Tools", Description: "IDEs, CLIs, libraries and everything in between"},
		{Name: "Design", Description: "Graphics, prototyping and UI tooling"},
		{Name: "Productivity", Description: "Notes, tasks and automation"},
		{Name: "Marketing", Description: "Analytics, SEO and outreach"},
	}

	for _, category := range categories {
		category.Slug = utils.Slugify(category.Name)
		if err := DB.Create(&category).Error; err != nil {
			log.Printf("Failed to create category %s: %v", category.Name, err)
		}
	}
	log.Println("Initial categories created successfully")
}
