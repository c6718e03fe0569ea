// Package testutil provides shared fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/timmy/jobtrack/internal/domain"
	"github.com/timmy/jobtrack/internal/repository"
)

// NewTestDB opens a private in-memory SQLite database migrated with the
// production model list. It is closed when the test ends.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), repository.GormConfig(gormlogger.Silent))
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// One connection keeps the in-memory database alive and serializes writers.
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repository.Migrate(db))
	return db
}

// SeedCustomer inserts a customer for a business.
func SeedCustomer(t *testing.T, db *gorm.DB, businessID int64, name string) *domain.Customer {
	t.Helper()
	c := &domain.Customer{BusinessID: businessID, Name: name, Email: name + "@example.com", Phone: "555-0100"}
	require.NoError(t, db.Create(c).Error)
	return c
}

// SeedEmployee inserts an employee for a business.
func SeedEmployee(t *testing.T, db *gorm.DB, businessID int64, name string) *domain.Employee {
	t.Helper()
	e := &domain.Employee{BusinessID: businessID, Name: name, Role: "technician"}
	require.NoError(t, db.Create(e).Error)
	return e
}

// SeedEstimate inserts an estimate for a business and customer.
func SeedEstimate(t *testing.T, db *gorm.DB, businessID, customerID int64, title string, amount float64) *domain.Estimate {
	t.Helper()
	e := &domain.Estimate{BusinessID: businessID, CustomerID: customerID, Title: title, TotalAmount: &amount, Status: "accepted"}
	require.NoError(t, db.Create(e).Error)
	return e
}

// CreateInput builds a valid creation payload.
func CreateInput(customerID int64, title string, scheduled time.Time) *domain.JobCreateInput {
	return &domain.JobCreateInput{
		CustomerID:    &customerID,
		Title:         title,
		ScheduledDate: &domain.DateTime{Time: scheduled},
	}
}
