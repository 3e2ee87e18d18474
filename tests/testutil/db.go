package testutil

import (
	"testing"

	"github.com/andemamma/collection-api/internal/database"
	"github.com/andemamma/collection-api/internal/domain"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SetupTestDB creates an in-memory sqlite database with the full schema.
// Each call returns a fresh, isolated database.
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err, "failed to open test database")

	require.NoError(t, database.AutoMigrate(db), "failed to migrate test schema")

	return db
}

// CreateTestSupplier inserts an active supplier
func CreateTestSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()

	supplier := &domain.Supplier{
		Name:          name,
		ContactPerson: "Test Contact",
		Phone:         "0911000000",
		Location:      "Addis Ababa",
		IsActive:      true,
	}
	require.NoError(t, db.Create(supplier).Error)
	return supplier
}

// CreateInactiveSupplier inserts a supplier flagged inactive
func CreateInactiveSupplier(t *testing.T, db *gorm.DB, name string) *domain.Supplier {
	t.Helper()

	supplier := &domain.Supplier{Name: name, IsActive: false}
	require.NoError(t, db.Create(supplier).Error)
	// AutoMigrate default is true, force the flag back down
	require.NoError(t, db.Model(supplier).Update("is_active", false).Error)
	supplier.IsActive = false
	return supplier
}

// CreateTestUser inserts an active registry user with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, role domain.UserRole, firstName, lastName string) *domain.User {
	t.Helper()

	user := &domain.User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     firstName + "." + lastName + "@example.com",
		Role:      role,
		IsActive:  true,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}
