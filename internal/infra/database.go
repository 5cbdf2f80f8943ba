package infra

import (
	"fmt"

	"cartapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and runs
// AutoMigrate for the catalog schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}
	return db, nil
}

// RunMigrations creates or updates all catalog tables. Also used by the
// integration tests to prepare a fresh container database.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.UnidadMedida{},
		&model.ConversionUnidad{},
		&model.Ingrediente{},
		&model.Stock{},
		&model.GrupoToppings{},
		&model.Producto{},
		&model.ProductoIngrediente{},
		&model.ProductoGrupoToppings{},
		&model.PromocionComponente{},
		&model.PromocionSlot{},
		&model.PromocionSlotOpcion{},
		&model.PromocionSlotAsignacion{},
	)
}
