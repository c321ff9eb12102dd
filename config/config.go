package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/sstent/foodplanner-sub000/models"
)

// InitDB loads .env, opens the database selected by DB_DRIVER and
// migrates the schema. The handle is returned rather than stored in a
// package variable; every service takes it as a constructor argument.
func InitDB() (*gorm.DB, error) {
	// Missing .env is fine in containers where env vars come from the
	// runtime.
	_ = godotenv.Load()

	var dialector gorm.Dialector
	switch os.Getenv("DB_DRIVER") {
	case "postgres":
		dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
			os.Getenv("DB_HOST"),
			os.Getenv("DB_USER"),
			os.Getenv("DB_PASSWORD"),
			os.Getenv("DB_NAME"),
			os.Getenv("DB_PORT"),
		)
		dialector = postgres.Open(dsn)
	default:
		path := os.Getenv("DB_PATH")
		if path == "" {
			path = "foodplanner.db"
		}
		dialector = sqlite.Open(path)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}
	return db, nil
}

// Migrate applies the schema. Shared with tests, which run it against a
// throwaway sqlite file.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.Food{},
		&models.Meal{},
		&models.MealFood{},
		&models.Template{},
		&models.TemplateMeal{},
		&models.WeeklyMenu{},
		&models.WeeklyMenuDay{},
		&models.Plan{},
		&models.TrackedDay{},
		&models.TrackedMeal{},
		&models.TrackedMealFood{},
	)
}
