// Manually retries diagnoses that failed to generate.
//
// The server already does this every 15 minutes in the background. Use this
// script after an upstream model outage or when running without the server.
//
// Usage: go run scripts/regenerate_diagnoses.go -limit 100

package main

import (
	"context"
	"flag"
	"log"
	"workbook_coach_backend/internal/config"
	"workbook_coach_backend/internal/repository"
	"workbook_coach_backend/internal/service"
	"workbook_coach_backend/pkg/database"
	"workbook_coach_backend/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	limit := flag.Int("limit", 100, "maximum number of submissions to retry")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	db, err := database.InitDB(&cfg.Database, false, gormlogger.Warn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	ai := service.NewAIService(cfg.AI)
	worksheets := service.NewWorksheetService(repository.NewWorksheetRepository(db), nil)
	submissions := service.NewSubmissionService(
		repository.NewSubmissionRepository(db),
		repository.NewUserRepository(db),
		worksheets,
		service.NewDiagnosisGenerator(ai, ai.DefaultOptions),
		service.NewDiagnosisArchive(service.NewStorageService(cfg)),
		nil,
	)

	log.Println("Retrying missing diagnoses...")
	done, err := submissions.RegenerateMissing(context.Background(), *limit)
	if err != nil {
		log.Fatalf("Retry failed: %v", err)
	}
	log.Printf("Done, %d diagnoses generated", done)
}
