package infra

import (
	"fmt"

	"github.com/Karthikx21/Alagarcater-sub000/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx and migrates the
// schema. TranslateError is on so unique violations surface as
// gorm.ErrDuplicatedKey and FK violations as gorm.ErrForeignKeyViolated.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
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

// RunMigrations creates or updates all tables, then applies the constraints
// AutoMigrate cannot express. Safe to run on every start.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.Customer{},
		&model.MenuItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentRecord{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	if err := applySchemaPatches(db); err != nil {
		return fmt.Errorf("schema patches: %w", err)
	}
	return nil
}

// applySchemaPatches runs idempotent DDL statements that GORM AutoMigrate cannot
// fully handle on its own (CHECK constraints, partial unique indexes). Each
// statement is guarded by an existence check.
func applySchemaPatches(db *gorm.DB) error {
	patches := []struct{ descr, sql string }{
		{"payments.amount > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_payments_amount_positive') THEN
    ALTER TABLE payments ADD CONSTRAINT chk_payments_amount_positive CHECK (amount > 0);
  END IF;
END $$`},
		{"orders money columns non-negative", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_orders_amounts_non_negative') THEN
    ALTER TABLE orders ADD CONSTRAINT chk_orders_amounts_non_negative
      CHECK (total >= 0 AND amount_paid >= 0 AND amount_due >= 0);
  END IF;
END $$`},
		{"menu_items.price > 0", `
DO $$ BEGIN
  IF NOT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = 'chk_menu_items_price_positive') THEN
    ALTER TABLE menu_items ADD CONSTRAINT chk_menu_items_price_positive CHECK (price > 0);
  END IF;
END $$`},
		// One payment per (order, idempotency key); rows without a key are unconstrained.
		{"unique idempotency key per order",
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_order_idempotency
			   ON payments (order_id, idempotency_key)
			   WHERE idempotency_key IS NOT NULL`},
		// Overdue sweep candidates.
		{"partial index for overdue sweep",
			`CREATE INDEX IF NOT EXISTS idx_orders_reclassify
			   ON orders (event_date)
			   WHERE payment_status IN ('pending', 'partial')`},
	}
	for _, p := range patches {
		if err := db.Exec(p.sql).Error; err != nil {
			return fmt.Errorf("patch %q: %w", p.descr, err)
		}
	}
	return nil
}
