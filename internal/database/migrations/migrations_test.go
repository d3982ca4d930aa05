package migrations_test

import (
	"testing"

	"snipvault/internal/database"
	"snipvault/internal/database/migrations"
)

func TestMigrations(t *testing.T) {
	t.Run("fresh database migrates up", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("OpenConnection() error = %v", err)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("MigrateUp() error = %v", err)
		}

		if err := migrations.CheckStatus(db); err != nil {
			t.Errorf("CheckStatus() after migrate error = %v", err)
		}

		// Tables exist and are queryable.
		for _, table := range []string{"snippets", "chunks", "chunk_data"} {
			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
				t.Errorf("querying %s: %v", table, err)
			}
		}
	})

	t.Run("migrate up is idempotent", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("OpenConnection() error = %v", err)
		}
		defer db.Close()

		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("first MigrateUp() error = %v", err)
		}
		if err := migrations.MigrateUp(db); err != nil {
			t.Fatalf("second MigrateUp() error = %v", err)
		}
	})

	t.Run("status check fails before migration", func(t *testing.T) {
		db, err := database.OpenConnection(":memory:")
		if err != nil {
			t.Fatalf("OpenConnection() error = %v", err)
		}
		defer db.Close()

		if err := migrations.CheckStatus(db); err == nil {
			t.Error("CheckStatus() on empty database expected error")
		}
	})
}
