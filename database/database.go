package database

import (
	"fmt"
	"log"

	"fintrack/config"
	"fintrack/models"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init opens the MySQL connection pool, migrates the schema and seeds the
// default categories on first startup.
func Init(cfg *config.Config) error {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?charset=%s&parseTime=True&loc=Local",
		cfg.Database.Username,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
	)

	logMode := logger.Warn
	if cfg.Server.Mode == "debug" {
		logMode = logger.Info
	}

	var err error
	DB, err = gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := DB.DB()
	if err != nil {
		return err
	}

	sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)

	if err := DB.AutoMigrate(
		&models.User{},
		&models.Category{},
		&models.Transaction{},
	); err != nil {
		return err
	}

	if err := seedDefaultCategories(); err != nil {
		return err
	}

	log.Println("database initialized")
	return nil
}

// seedDefaultCategories inserts the system categories once, only while the
// categories table is still empty.
func seedDefaultCategories() error {
	var count int64
	if err := DB.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	cats := models.DefaultCategories()
	if err := DB.Create(&cats).Error; err != nil {
		return fmt.Errorf("failed to seed default categories: %w", err)
	}
	log.Printf("seeded %d default categories", len(cats))
	return nil
}

// GetDB returns the shared connection pool
func GetDB() *gorm.DB {
	return DB
}
