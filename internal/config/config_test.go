package config

import (
	"os"
	"testing"
	"time"
)

func baseEnv() map[string]string {
	return map[string]string{
		"SERVER_PORT": "8080",
		"SERVER_HOST": "0.0.0.0",

		"APP_ENV":   "test",
		"LOG_LEVEL": "debug",
	}
}

func TestLoad_Success(t *testing.T) {
	envVars := baseEnv()
	envVars["SERVER_READ_TIMEOUT"] = "10s"
	envVars["SERVER_WRITE_TIMEOUT"] = "10s"
	envVars["SERVER_IDLE_TIMEOUT"] = "120s"
	envVars["SERVER_SHUTDOWN_TIMEOUT"] = "30s"

	envVars["STORE_DRIVER"] = "postgres"
	envVars["DB_HOST"] = "localhost"
	envVars["DB_PORT"] = "5432"
	envVars["DB_USER"] = "testuser"
	envVars["DB_PASSWORD"] = "testpass"
	envVars["DB_NAME"] = "testdb"
	envVars["DB_SSLMODE"] = "disable"
	envVars["DB_MAX_CONNS"] = "25"
	envVars["DB_MIN_CONNS"] = "5"

	envVars["ADMIN_RESET_TOKEN"] = "sekrit"

	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
	}
	if cfg.Server.Host != "0.0.0.0" {
		t.Errorf("Server.Host = %s, want 0.0.0.0", cfg.Server.Host)
	}
	if cfg.Server.ReadTimeout != 10*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 10s", cfg.Server.ReadTimeout)
	}

	if cfg.Store.Driver != DriverPostgres {
		t.Errorf("Store.Driver = %s, want postgres", cfg.Store.Driver)
	}

	if cfg.Database.Host != "localhost" {
		t.Errorf("Database.Host = %s, want localhost", cfg.Database.Host)
	}
	if cfg.Database.Port != "5432" {
		t.Errorf("Database.Port = %s, want 5432", cfg.Database.Port)
	}
	if cfg.Database.User != "testuser" {
		t.Errorf("Database.User = %s, want testuser", cfg.Database.User)
	}
	if cfg.Database.MaxConns != 25 {
		t.Errorf("Database.MaxConns = %d, want 25", cfg.Database.MaxConns)
	}

	if cfg.Admin.ResetToken != "sekrit" {
		t.Errorf("Admin.ResetToken = %s, want sekrit", cfg.Admin.ResetToken)
	}

	if cfg.App.Environment != "test" {
		t.Errorf("App.Environment = %s, want test", cfg.App.Environment)
	}
	if cfg.App.LogLevel != "debug" {
		t.Errorf("App.LogLevel = %s, want debug", cfg.App.LogLevel)
	}
}

func TestLoad_Defaults(t *testing.T) {
	os.Clearenv()
	for key, value := range baseEnv() {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Store.Driver != DriverMemory {
		t.Errorf("Store.Driver = %s, want memory default", cfg.Store.Driver)
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("Server.ReadTimeout = %v, want 5s default", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v, want 10s default", cfg.Server.ShutdownTimeout)
	}
	if cfg.Redis.KeyPrefix != "counts:" {
		t.Errorf("Redis.KeyPrefix = %s, want counts: default", cfg.Redis.KeyPrefix)
	}
	if cfg.Sheets.SheetName != "counts" {
		t.Errorf("Sheets.SheetName = %s, want counts default", cfg.Sheets.SheetName)
	}
	if cfg.Admin.ResetToken != "" {
		t.Errorf("Admin.ResetToken = %s, want empty default", cfg.Admin.ResetToken)
	}
}

func TestLoad_MissingRequiredVariable(t *testing.T) {
	tests := []struct {
		name       string
		skipEnvVar string
	}{
		{"missing SERVER_PORT", "SERVER_PORT"},
		{"missing SERVER_HOST", "SERVER_HOST"},
		{"missing APP_ENV", "APP_ENV"},
		{"missing LOG_LEVEL", "LOG_LEVEL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			envVars := baseEnv()
			delete(envVars, tt.skipEnvVar)

			for key, value := range envVars {
				_ = os.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Errorf("Load() should fail when %s is missing", tt.skipEnvVar)
			}
		})
	}
}

func TestLoad_BackendValidatedOnlyForSelectedDriver(t *testing.T) {
	t.Run("memory driver needs no backend vars", func(t *testing.T) {
		os.Clearenv()
		envVars := baseEnv()
		envVars["STORE_DRIVER"] = "memory"
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		if _, err := Load(); err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
	})

	t.Run("postgres driver requires DB vars", func(t *testing.T) {
		os.Clearenv()
		envVars := baseEnv()
		envVars["STORE_DRIVER"] = "postgres"
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		if _, err := Load(); err == nil {
			t.Error("Load() should fail without DB_HOST for the postgres driver")
		}
	})

	t.Run("redis driver requires REDIS_ADDR", func(t *testing.T) {
		os.Clearenv()
		envVars := baseEnv()
		envVars["STORE_DRIVER"] = "redis"
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		if _, err := Load(); err == nil {
			t.Error("Load() should fail without REDIS_ADDR for the redis driver")
		}
	})

	t.Run("sheets driver requires spreadsheet id", func(t *testing.T) {
		os.Clearenv()
		envVars := baseEnv()
		envVars["STORE_DRIVER"] = "sheets"
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		if _, err := Load(); err == nil {
			t.Error("Load() should fail without SHEETS_SPREADSHEET_ID for the sheets driver")
		}
	})

	t.Run("sheets driver succeeds with spreadsheet id", func(t *testing.T) {
		os.Clearenv()
		envVars := baseEnv()
		envVars["STORE_DRIVER"] = "sheets"
		envVars["SHEETS_SPREADSHEET_ID"] = "1aBcD"
		for key, value := range envVars {
			t.Setenv(key, value)
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() failed: %v", err)
		}
		if cfg.Sheets.SpreadsheetID != "1aBcD" {
			t.Errorf("Sheets.SpreadsheetID = %s, want 1aBcD", cfg.Sheets.SpreadsheetID)
		}
	})
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name   string
		envVar string
		value  string
	}{
		{"invalid duration", "SERVER_READ_TIMEOUT", "invalid"},
		{"invalid int", "DB_MAX_CONNS", "not-a-number"},
		{"invalid store driver", "STORE_DRIVER", "dynamo"},
		{"invalid environment", "APP_ENV", "prod"},
		{"invalid log level", "LOG_LEVEL", "verbose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Clearenv()

			envVars := baseEnv()
			envVars["STORE_DRIVER"] = "postgres"
			envVars["DB_HOST"] = "localhost"
			envVars["DB_USER"] = "testuser"
			envVars["DB_PASSWORD"] = "testpass"
			envVars["DB_NAME"] = "testdb"

			envVars[tt.envVar] = tt.value

			for key, value := range envVars {
				t.Setenv(key, value)
			}

			_, err := Load()
			if err == nil {
				t.Errorf("Load() should fail when %s has invalid value %s", tt.envVar, tt.value)
			}
		})
	}
}

func TestDatabaseConfig_ConnectionString(t *testing.T) {
	db := DatabaseConfig{
		Host:     "testhost",
		Port:     "5432",
		User:     "testuser",
		Password: "testpass",
		Name:     "testdb",
		SSLMode:  "disable",
	}

	expected := "host=testhost port=5432 user=testuser password=testpass dbname=testdb sslmode=disable"
	got := db.ConnectionString()

	if got != expected {
		t.Errorf("ConnectionString() = %s, want %s", got, expected)
	}
}

func TestDatabaseConfig_Validate(t *testing.T) {
	valid := DatabaseConfig{
		Host: "localhost", Port: "5432", User: "u", Password: "p",
		Name: "db", SSLMode: "disable", MaxConns: 10, MinConns: 2,
	}

	t.Run("valid config passes", func(t *testing.T) {
		if err := valid.Validate(); err != nil {
			t.Errorf("Validate() = %v, want nil", err)
		}
	})

	t.Run("min conns above max conns fails", func(t *testing.T) {
		c := valid
		c.MinConns = 20
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})

	t.Run("bad ssl mode fails", func(t *testing.T) {
		c := valid
		c.SSLMode = "sometimes"
		if err := c.Validate(); err == nil {
			t.Error("Validate() = nil, want error")
		}
	})
}
