package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"gorm.io/gorm"

	billingdomain "github.com/smallbiznis/bizbook/internal/billing/domain"
	businessdomain "github.com/smallbiznis/bizbook/internal/business/domain"
	cashbookdomain "github.com/smallbiznis/bizbook/internal/cashbook/domain"
	expensedomain "github.com/smallbiznis/bizbook/internal/expense/domain"
	partydomain "github.com/smallbiznis/bizbook/internal/party/domain"
	productdomain "github.com/smallbiznis/bizbook/internal/product/domain"
	seqdomain "github.com/smallbiznis/bizbook/internal/sequence/domain"
	transactiondomain "github.com/smallbiznis/bizbook/internal/transaction/domain"
)

// RunMigrations applies the embedded SQL migrations against postgres. The
// schema is created automatically on startup so a fresh install is usable
// out of the box.
func RunMigrations(db *sql.DB) error {
	if db == nil {
		return errors.New("migration database handle is required")
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	upErr := migrator.Up()
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", upErr)
	}
	// Do not call migrator.Close here because it would close the shared *sql.DB.

	return nil
}

// AutoMigrate builds the schema through gorm for the dialects the SQL
// migrations do not target, which keeps sqlite and mysql development
// setups working without a migration toolchain.
func AutoMigrate(conn *gorm.DB) error {
	if conn == nil {
		return errors.New("migration database handle is required")
	}

	return conn.AutoMigrate(
		&businessdomain.Business{},
		&partydomain.Party{},
		&productdomain.Product{},
		&seqdomain.BillCounter{},
		&billingdomain.Bill{},
		&billingdomain.BillItem{},
		&transactiondomain.Entry{},
		&cashbookdomain.CashEntry{},
		&expensedomain.Expense{},
		&expensedomain.Budget{},
	)
}
