package infra

import (
	"fmt"

	"tiendapos/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs AutoMigrate to
// create / update all tables, then applies the idempotent SQL patches that GORM
// cannot express (partial unique indexes).
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
		return nil, err
	}

	return db, nil
}

// RunMigrations applies AutoMigrate plus schema patches. Integration tests
// call it directly against a testcontainers database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Sucursal{},
		&model.Usuario{},
		&model.Producto{},
		&model.StockSucursal{},
		&model.MovimientoStock{},
		&model.Venta{},
		&model.VentaItem{},
		&model.Traspaso{},
		&model.Apartado{},
		&model.ApartadoItem{},
		&model.ApartadoAbono{},
		&model.CorteCaja{},
		&model.Gasto{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot express.
// Each statement is guarded by an existence check so re-running on an
// already-patched schema is a no-op.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		// One open register session per user: partial unique index over the
		// rows still missing closed_at. Concurrent double-open collapses into
		// a constraint violation instead of two open sessions.
		{"partial unique index cortes_caja open session", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'uni_cortes_caja_usuario_abierto') THEN
    CREATE UNIQUE INDEX uni_cortes_caja_usuario_abierto
        ON cortes_caja (usuario_id)
        WHERE closed_at IS NULL;
  END IF;
END $$`},
		// Ledger query path: movements are always read per product+branch,
		// newest first.
		{"movimientos_stock composite index", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_movimientos_producto_sucursal') THEN
    CREATE INDEX idx_movimientos_producto_sucursal
        ON movimientos_stock (producto_id, sucursal_id, created_at DESC);
  END IF;
END $$`},
	}

	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("schema patch %q: %w", p.descr, err)
		}
	}
	return nil
}
