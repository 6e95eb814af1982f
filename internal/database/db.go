package database

import (
	"backend/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM and migrates
// the protected collections plus workflow tables.
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.RefreshToken{},
		&model.Buying{},
		&model.Selling{},
		&model.Revenue{},
		&model.Expense{},
		&model.Customer{},
		&model.CustomerBuying{},
		&model.CustomerSelling{},
		&model.CustomerExpense{},
		&model.ApprovalRequest{},
		&model.AuditLog{},
	)
	if err != nil {
		return nil, err
	}

	return db, nil
}
