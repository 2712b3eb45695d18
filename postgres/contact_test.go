package postgres_test

import (
	"contactbook/contact"
	"contactbook/postgres"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestContactRepository_SaveContacts(t *testing.T) {
	// Arrange - Setup shared database container and connection
	dbName, dbUser, dbPass := "contact_save_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("successfully saves contacts with positions", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		contacts := []contact.Contact{
			{ID: "c-1", Name: "Alice Smith", Phone: "1111111111", Email: "alice@example.com"},
			{ID: "c-2", Name: "Bob Johnson", Phone: "2222222222"},
		}

		// Act
		err := repo.SaveContacts(context.Background(), contacts)

		// Assert
		require.NoError(t, err)
		assertContactAt(t, db, 0, contacts[0])
		assertContactAt(t, db, 1, contacts[1])
	})

	t.Run("replaces previous content", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		require.NoError(t, repo.SaveContacts(context.Background(), []contact.Contact{
			{ID: "c-1", Name: "Alice Smith", Phone: "1111111111"},
			{ID: "c-2", Name: "Bob Johnson", Phone: "2222222222"},
		}))
		remaining := contact.Contact{ID: "c-2", Name: "Bob Johnson", Phone: "2222222222"}

		// Act
		err := repo.SaveContacts(context.Background(), []contact.Contact{remaining})

		// Assert
		require.NoError(t, err)
		assertContactCount(t, db, 1)
		assertContactAt(t, db, 0, remaining)
	})

	t.Run("saving an empty list clears the table", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		require.NoError(t, repo.SaveContacts(context.Background(), []contact.Contact{
			{ID: "c-1", Name: "Alice Smith", Phone: "1111111111"},
		}))

		// Act
		err := repo.SaveContacts(context.Background(), nil)

		// Assert
		require.NoError(t, err)
		assertContactCount(t, db, 0)
	})
}

func TestContactRepository_LoadContacts(t *testing.T) {
	// Arrange - Setup shared database container and connection
	dbName, dbUser, dbPass := "contact_load_test", "testuser", "testpass"
	db := CreateConnection(t, dbName, dbUser, dbPass)
	MigrateTestDatabase(t, db, "../migrations")

	t.Run("returns contacts ordered by position", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		expectedContacts := []contact.Contact{
			{ID: "z", Name: "Charlie Brown", Phone: "3333333333"},
			{ID: "a", Name: "Alice Smith", Phone: "1111111111", Email: "alice@example.com"},
			{ID: "m", Name: "Bob Johnson", Phone: "2222222222"},
		}
		require.NoError(t, repo.SaveContacts(context.Background(), expectedContacts))

		// Act
		contacts, err := repo.LoadContacts(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Equal(t, expectedContacts, contacts)
	})

	t.Run("returns empty list when no contacts exist", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)

		// Act
		contacts, err := repo.LoadContacts(context.Background())

		// Assert
		require.NoError(t, err)
		assert.Empty(t, contacts)
	})

	t.Run("fails with closed database connection", func(t *testing.T) {
		// Arrange
		cleanupContactDatabase(t, db)
		repo := postgres.NewContactRepository(db)
		mustCloseDBConnection(db)

		// Act
		_, err := repo.LoadContacts(context.Background())

		// Assert
		assert.Error(t, err)
	})
}

func mustCloseDBConnection(db *gorm.DB) {
	sqlDB, _ := db.DB()
	sqlDB.Close()
}

func assertContactCount(t testing.TB, db *gorm.DB, expected int64) {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(&postgres.ContactModel{}).Count(&count).Error)
	assert.Equal(t, expected, count)
}

// assertContactAt verifies that the contact is stored at the given position
func assertContactAt(t testing.TB, db *gorm.DB, position int, expected contact.Contact) {
	t.Helper()
	var model postgres.ContactModel
	result := db.Where("position = ?", position).First(&model)
	require.NoError(t, result.Error, "contact should exist in database")
	assert.Equal(t, expected.ID, model.ID)
	assert.Equal(t, expected.Name, model.Name)
	assert.Equal(t, expected.Phone, model.Phone)
	assert.Equal(t, expected.Email, model.Email)
}

// cleanupContactDatabase truncates all tables to ensure test isolation
func cleanupContactDatabase(t testing.TB, db *gorm.DB) {
	t.Helper()
	err := db.Exec("TRUNCATE TABLE contacts").Error
	require.NoError(t, err)
}
