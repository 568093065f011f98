package config

import (
	"context"
	"fmt"

	movies "filmbase/src/modules/movies/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ConnectDatabase opens PostgreSQL and runs the migrations.
func ConnectDatabase(s DatabaseSettings, debug bool) (*gorm.DB, error) {
	logMode := logger.Warn
	if debug {
		logMode = logger.Info
	}

	database, err := gorm.Open(postgres.Open(s.DSN()), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Infof("action: db_connect | result: success | host: %s", s.Host)

	if err := runMigrations(database); err != nil {
		CloseDatabase(database)
		return nil, err
	}
	return database, nil
}

// CloseDatabase releases the pool behind db.
func CloseDatabase(db *gorm.DB) {
	if db == nil {
		return
	}
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if err := sqlDB.Close(); err != nil {
		log.Warningf("action: db_close | result: fail | error: %v", err)
	}
}

func CheckConnection(ctx context.Context, db *gorm.DB) bool {
	if db == nil {
		return false
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Warningf("Failed to get generic database object: %v", err)
		return false
	}

	if err := sqlDB.PingContext(ctx); err != nil {
		log.Warningf("Database ping failed: %v", err)
		return false
	}

	var result int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		log.Warningf("Test query failed: %v", err)
		return false
	}
	return result == 1
}

func runMigrations(db *gorm.DB) error {
	migrations := []func(*gorm.DB) error{
		movies.MigrateMovies,
	}

	for _, migrate := range migrations {
		if err := migrate(db); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Info("All migrations completed successfully!")
	return nil
}
