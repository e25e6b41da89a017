package db

import (
	"os"

	"github.com/jomonde/the-ammo-guys-lite/models"
	"github.com/jomonde/the-ammo-guys-lite/utils"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		utils.LogInfo("no .env file found, relying on the process environment")
	}

	dsn := os.Getenv("DB_URL")
	if dsn == "" {
		utils.LogError(nil, "DB_URL is not set")
		panic("database URL not configured")
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: utils.GetGormLogger(),
	})
	if err != nil {
		utils.LogError(err, "Error connecting to the database")
		panic("could not connect to the database")
	}

	err = DB.AutoMigrate(
		&models.Profile{},
		&models.Subscription{},
		&models.StockpileEntry{},
		&models.Lead{},
	)
	if err != nil {
		utils.LogError(err, "Error migrating database")
		panic("could not migrate database")
	}

	utils.LogSuccess("Database connection successful")
}
