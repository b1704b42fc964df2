package backend

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"financas/internal/config"
	"financas/internal/core"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestBackendTypeIsValid(t *testing.T) {
	for _, bt := range GetBackendTypes() {
		if !bt.IsValid() {
			t.Errorf("%s should be valid", bt)
		}
	}
	if BackendType("sheets").IsValid() {
		t.Error("sheets is no longer a store backend")
	}
	if got := GetBackendTypeStrings(); len(got) != 3 || got[0] != "memory" {
		t.Errorf("GetBackendTypeStrings() = %v", got)
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("nil config should fail")
	}
	if _, err := FromAppConfig(&config.Config{DataBackend: "mongo"}); err == nil {
		t.Fatal("unknown backend should fail")
	}

	cfg, err := FromAppConfig(&config.Config{
		DataBackend:              "postgres",
		DatabaseURL:              "postgres://u:p@localhost/financas",
		GoogleSpreadsheetID:      "sheet-id",
		GoogleSheetName:          "Transacoes",
		GoogleServiceAccountJSON: "{}",
	})
	if err != nil {
		t.Fatalf("FromAppConfig() error = %v", err)
	}
	if cfg.Type != PostgresBackend || cfg.DatabaseURL == "" || !cfg.MirrorEnabled() {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"memory", Config{Type: MemoryBackend}, false},
		{"sqlite without path", Config{Type: SQLiteBackend}, true},
		{"postgres without url", Config{Type: PostgresBackend}, true},
		{"mirror without credentials", Config{Type: MemoryBackend, GoogleSpreadsheetID: "x", GoogleSheetName: "T"}, true},
		{"mirror without sheet", Config{Type: MemoryBackend, GoogleSpreadsheetID: "x", GoogleServiceAccountJSON: "{}"}, true},
		{"mirror ok", Config{Type: MemoryBackend, GoogleSpreadsheetID: "x", GoogleSheetName: "T", GoogleServiceAccountFile: "sa.json"}, false},
		{"invalid", Config{Type: "csv"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCreateMemoryBackend(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Cleanup()
	if err := res.Store.Ping(context.Background()); err != nil {
		t.Errorf("Ping() error = %v", err)
	}
}

func TestCreateSQLiteBackend(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "nested", "financas.db")
	res, err := NewFactory(nil).CreateBackend(ctx, Config{Type: SQLiteBackend, SQLiteDBPath: path})
	if err != nil {
		t.Fatalf("CreateBackend() error = %v", err)
	}
	defer res.Cleanup()

	user := uuid.New()
	acc, err := core.NewAccount(user, "Carteira", core.Cash, decimal.NewFromInt(50), "")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := res.Store.CreateAccount(ctx, acc); err != nil {
		t.Fatalf("CreateAccount() error = %v", err)
	}
	accounts, err := res.Store.ListAccounts(ctx, user)
	if err != nil || len(accounts) != 1 {
		t.Fatalf("ListAccounts() = %v, %v", accounts, err)
	}
}

func TestCreateMirrorDisabled(t *testing.T) {
	_, err := NewFactory(nil).CreateMirror(context.Background(), Config{Type: MemoryBackend})
	if !errors.Is(err, ErrMirrorDisabled) {
		t.Fatalf("CreateMirror() error = %v, want ErrMirrorDisabled", err)
	}
}
