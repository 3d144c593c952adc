package database

import (
	"fmt"
	"log"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// InitDB connects to MySQL. With migrate set it also migrates the schema
// and seeds the worksheet catalog.
func InitDB(cfg *config.DatabaseConfig, migrate bool, logLevel logger.LogLevel) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	if !migrate {
		return db, nil
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	if err := SeedWorksheets(db); err != nil {
		return nil, err
	}

	return db, nil
}

// Migrate creates or updates every table the service owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Worksheet{},
		&model.Submission{},
		&model.FollowupAssessment{},
	)
}

// SeedWorksheets inserts the default worksheet catalog, leaving existing rows untouched.
func SeedWorksheets(db *gorm.DB) error {
	var count int64
	if err := db.Model(&model.Worksheet{}).Count(&count).Error; err != nil {
		return err
	}
	defaults := model.DefaultWorksheets()
	if count >= int64(len(defaults)) {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(&defaults).Error
}
