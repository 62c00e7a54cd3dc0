package database_test

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/comanda/internal/database"
)

func TestUUIDArray(t *testing.T) {
	a, b := uuid.New(), uuid.New()

	assert.Equal(t, "{"+a.String()+","+b.String()+"}", database.UUIDArray([]uuid.UUID{a, b}))
	assert.Equal(t, "{}", database.UUIDArray(nil))
}

func TestMigrations_Idempotent(t *testing.T) {
	for _, stmt := range database.Migrations() {
		assert.Contains(t, stmt, "IF NOT EXISTS")
	}
}

func TestMigrations_CoverCollections(t *testing.T) {
	all := strings.Join(database.Migrations(), "\n")

	for _, table := range []string{"tickets", "finalizations", "commissions", "revenue_ledger", "clients", "inventory"} {
		assert.Contains(t, all, "CREATE TABLE IF NOT EXISTS "+table)
	}
}
