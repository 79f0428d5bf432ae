package database

import (
	"fmt"

	"gorm.io/gorm"
)

// RunMigrations executes the hand-written migrations AutoMigrate cannot express
func RunMigrations(db *gorm.DB) error {
	if err := createIndexes(db); err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}

	return nil
}

// createIndexes creates database indexes
func createIndexes(db *gorm.DB) error {
	// History is read newest first, with id as tie-break
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_queries_history
		ON case_queries(query_timestamp DESC, id DESC)
	`).Error; err != nil {
		return err
	}

	// Recent successful searches
	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_case_queries_success
		ON case_queries(success, query_timestamp)
	`).Error; err != nil {
		return err
	}

	if err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_pdf_downloads_time
		ON pdf_downloads(case_query_id, download_timestamp)
	`).Error; err != nil {
		return err
	}

	return nil
}
