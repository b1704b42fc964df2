package backend

import (
	"context"
	"errors"
	"fmt"

	applog "financas/internal/log"
	"financas/internal/sheets"
	gsheet "financas/internal/sheets/google"
	"financas/internal/storage"
	"financas/internal/store/memory"
)

// ErrMirrorDisabled is returned by CreateMirror when no spreadsheet is configured.
var ErrMirrorDisabled = errors.New("sheets mirror is not configured")

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *applog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *applog.Logger) Factory {
	if logger == nil {
		logger = applog.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(applog.ComponentBackend),
	}
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.Type {
	case SQLiteBackend:
		return f.createSQLBackend(ctx, storage.DialectSQLite, config.SQLiteDBPath)
	case PostgresBackend:
		return f.createSQLBackend(ctx, storage.DialectPostgres, config.DatabaseURL)
	case MemoryBackend:
		return f.createMemoryBackend()
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
}

func (f *DefaultFactory) createSQLBackend(ctx context.Context, dialect storage.Dialect, dsn string) (*BackendResult, error) {
	repo, err := storage.Open(ctx, dialect, dsn, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s repository: %w", dialect, err)
	}

	f.logger.Info("Initialized SQL backend", applog.FieldBackend, string(dialect))

	return &BackendResult{
		Store:   repo,
		Cleanup: repo.Close,
	}, nil
}

func (f *DefaultFactory) createMemoryBackend() (*BackendResult, error) {
	st := memory.New()
	f.logger.Warn("Initialized memory backend, data is lost on restart", applog.FieldBackend, string(MemoryBackend))
	return &BackendResult{
		Store:   st,
		Cleanup: st.Close,
	}, nil
}

// CreateMirror connects the Google Sheets mirror.
func (f *DefaultFactory) CreateMirror(ctx context.Context, config Config) (sheets.Mirror, error) {
	if !config.MirrorEnabled() {
		return nil, ErrMirrorDisabled
	}
	cli, err := gsheet.New(ctx, gsheet.Options{
		SpreadsheetID:   config.GoogleSpreadsheetID,
		SheetName:       config.GoogleSheetName,
		CredentialsJSON: config.GoogleServiceAccountJSON,
		CredentialsFile: config.GoogleServiceAccountFile,
	}, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
	}

	f.logger.Info("Initialized Google Sheets mirror", "spreadsheet_id", config.GoogleSpreadsheetID)
	return cli, nil
}
