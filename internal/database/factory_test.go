package database

import (
	"testing"

	"fv-go/internal/config"
)

func TestNewDatabaseFromConfig(t *testing.T) {
	t.Run("memory database is migrated and usable", func(t *testing.T) {
		db, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "memory"})
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() error = %v", err)
		}
		defer db.Close()

		if err := db.CheckMigrations(); err != nil {
			t.Errorf("CheckMigrations() error = %v", err)
		}
	})

	t.Run("sqlite requires data_dir", func(t *testing.T) {
		_, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "sqlite"})
		if err == nil {
			t.Fatal("NewDatabaseFromConfig() error = nil, want data_dir error")
		}
	})

	t.Run("sqlite creates the data dir", func(t *testing.T) {
		dir := t.TempDir() + "/nested/db"
		db, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "sqlite", DataDir: dir})
		if err != nil {
			t.Fatalf("NewDatabaseFromConfig() error = %v", err)
		}
		defer db.Close()

		if db.Path() == "" {
			t.Error("Path() is empty, want file path under data dir")
		}
	})

	t.Run("unknown type errors", func(t *testing.T) {
		_, err := NewDatabaseFromConfig(config.DatabaseConfig{Type: "postgres"})
		if err == nil {
			t.Fatal("NewDatabaseFromConfig() error = nil, want unknown type error")
		}
	})
}
