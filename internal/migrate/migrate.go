// Package migrate owns the relational schema. Runtime queries go through
// pgx in internal/repository; gorm is only used here to create and evolve
// the tables and to seed reference data.
package migrate

import (
	"context"
	"fmt"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// cabinClassSeed is inserted by Run when absent.
var cabinClassSeed = []gCabinClass{
	{ID: 1, Name: "Economy", PricePercent: 0},
	{ID: 2, Name: "Premium Economy", PricePercent: 25},
	{ID: 3, Name: "Business", PricePercent: 50},
	{ID: 4, Name: "First", PricePercent: 100},
}

func Open(dsn string) (*gorm.DB, error) {
	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("gorm.Open: %w", err)
	}
	return gdb, nil
}

// Run creates missing tables, columns and constraints, then seeds the
// cabin classes. Existing cabin class rows are left untouched.
func Run(ctx context.Context, gdb *gorm.DB) error {
	gdb = gdb.WithContext(ctx)
	err := gdb.AutoMigrate(
		&gCountry{}, // referenced tables first
		&gCity{},
		&gAirport{},
		&gCabinClass{},
		&gFlight{},
		&gBooking{},
		&gPassenger{},
	)
	if err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	seed := make([]gCabinClass, len(cabinClassSeed))
	copy(seed, cabinClassSeed)
	if err := gdb.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return fmt.Errorf("seed cabin classes: %w", err)
	}
	return nil
}
