package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"fv-go/internal/auth"
	"fv-go/internal/blob"
	"fv-go/internal/config"
	"fv-go/internal/database"
	"fv-go/internal/encryption"
	"fv-go/internal/fv"
	"fv-go/internal/server"
)

// FVApp wires the whole service together from config: database, blob
// store, encryption, identity boundary, storage core, and the HTTP
// server. The caller must call Close when done.
type FVApp struct {
	cfg     *config.Config
	db      *database.SQLiteDatabase
	blobs   fv.BlobStore
	authSvc *auth.Service
	service *fv.Service
	srv     *http.Server
	logger  fv.Logger
	logFile *os.File
}

// NewFVApp creates a fully wired FVApp from the given config.
func NewFVApp(cfg *config.Config) (*FVApp, error) {
	if cfg.Auth.JWTSecret == "" {
		return nil, fmt.Errorf("auth.jwt_secret must be set")
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	// File-backed databases are migrated explicitly via `fv migrate`;
	// refuse to serve against a stale schema.
	if cfg.Database.Type == "sqlite" {
		if err := db.CheckMigrations(); err != nil {
			db.Close()
			return nil, fmt.Errorf("database schema out of date: %w", err)
		}
	}

	var enc fv.Encryptor
	if cfg.Blob.Encrypted {
		enc, err = encryption.NewEncryptorFromConfig(cfg.Encryption)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("creating encryptor: %w", err)
		}
	}

	blobs, err := blob.NewStoreFromConfig(cfg.Blob, enc)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating blob store: %w", err)
	}
	if err := blobs.ValidateSetup(); err != nil {
		db.Close()
		return nil, fmt.Errorf("validating blob store: %w", err)
	}

	runID := time.Now().UTC().Format("20060102T150405Z")
	slogger, logFile, err := newLogger(cfg.LogDir, runID)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	logger := &slogAdapter{l: slogger}

	tokenTTL := time.Duration(cfg.Auth.TokenTTLHours) * time.Hour
	if tokenTTL <= 0 {
		tokenTTL = 24 * time.Hour
	}
	authSvc := auth.NewService(db, []byte(cfg.Auth.JWTSecret), tokenTTL, fv.RealClock{})

	service := fv.NewService(db, blobs, logger, fv.RealClock{}, fv.UUIDGenerator{})

	maxUpload := cfg.Server.MaxUploadBytes
	if maxUpload <= 0 {
		maxUpload = 16 << 20
	}
	handler := server.New(service, authSvc, logger, maxUpload, cfg.Server.CORSOrigin)

	return &FVApp{
		cfg:     cfg,
		db:      db,
		blobs:   blobs,
		authSvc: authSvc,
		service: service,
		srv: &http.Server{
			Addr:    cfg.Server.Addr,
			Handler: handler,
		},
		logger:  logger,
		logFile: logFile,
	}, nil
}

// Run starts the HTTP server and blocks until Shutdown is called or the
// listener fails.
func (a *FVApp) Run() error {
	a.logger.Info("server starting", "addr", a.cfg.Server.Addr, "blob_store", a.cfg.Blob.Type)
	err := a.srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown stops accepting new requests and drains in-flight ones.
func (a *FVApp) Shutdown(ctx context.Context) error {
	return a.srv.Shutdown(ctx)
}

// Auth returns the identity service, for CLI admin commands.
func (a *FVApp) Auth() *auth.Service {
	return a.authSvc
}

// Close releases the database and the log file.
func (a *FVApp) Close() error {
	var firstErr error

	if err := a.db.Close(); err != nil {
		firstErr = fmt.Errorf("closing database: %w", err)
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}
