package config

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestLoad(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", "")
		t.Setenv("PORT", "")
		t.Setenv("BCRYPT_COST", "")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StoreDriver != DriverSQLite {
			t.Errorf("expected default driver sqlite, got %s", cfg.StoreDriver)
		}
		if cfg.Port != "8080" {
			t.Errorf("expected default port 8080, got %s", cfg.Port)
		}
		if cfg.BcryptCost != bcrypt.DefaultCost {
			t.Errorf("expected default bcrypt cost, got %d", cfg.BcryptCost)
		}
	})

	t.Run("overrides", func(t *testing.T) {
		t.Setenv("STORE_DRIVER", DriverMongo)
		t.Setenv("MONGO_DATABASE", "ledger")
		t.Setenv("RECONCILE_CONCURRENCY", "8")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.StoreDriver != DriverMongo {
			t.Errorf("expected mongo driver, got %s", cfg.StoreDriver)
		}
		if cfg.MongoDatabase != "ledger" {
			t.Errorf("expected database ledger, got %s", cfg.MongoDatabase)
		}
		if cfg.ReconcileConcurrency != 8 {
			t.Errorf("expected concurrency 8, got %d", cfg.ReconcileConcurrency)
		}
	})

	t.Run("invalid_numbers_fall_back", func(t *testing.T) {
		t.Setenv("BCRYPT_COST", "not-a-number")
		t.Setenv("RECONCILE_CONCURRENCY", "0")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.BcryptCost != bcrypt.DefaultCost {
			t.Errorf("expected fallback bcrypt cost, got %d", cfg.BcryptCost)
		}
		if cfg.ReconcileConcurrency != 1 {
			t.Errorf("expected concurrency clamped to 1, got %d", cfg.ReconcileConcurrency)
		}
	})

	t.Run("postgres_url", func(t *testing.T) {
		cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
		want := "postgres://u:p@h:5432/d?sslmode=disable"
		if got := cfg.PostgresURL(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	})
}
