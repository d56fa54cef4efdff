package repository

import (
	"testing"

	"go-pharmacy-pos/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// dryRunDB builds SQL without a live database connection.
func dryRunDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  "host=localhost user=test dbname=test",
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		DryRun:               true,
		DisableAutomaticPing: true,
	})
	require.NoError(t, err)
	return db
}

func TestLockForUpdateEmitsRowLock(t *testing.T) {
	db := dryRunDB(t)

	var purchase model.Purchase
	stmt := LockForUpdate(db).First(&purchase, "id = ?", uuid.New()).Statement

	assert.Contains(t, stmt.SQL.String(), "FOR UPDATE")
}

func TestPlainReadTakesNoLock(t *testing.T) {
	db := dryRunDB(t)

	var purchase model.Purchase
	stmt := db.First(&purchase, "id = ?", uuid.New()).Statement

	assert.NotContains(t, stmt.SQL.String(), "FOR UPDATE")
}
