// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"webtg/internal/account"
	"webtg/internal/ai"
	"webtg/internal/aiclient"
	"webtg/internal/config"
	"webtg/internal/database"
	"webtg/internal/engine"
	"webtg/internal/handlers"
	"webtg/internal/metrics"
	"webtg/internal/preview"
	"webtg/internal/router"
	"webtg/internal/site"
	"webtg/internal/statestore"
	"webtg/internal/storage"
	"webtg/internal/verify"
	"webtg/internal/workspace"
	"webtg/web"
)

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the generator web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if servePort != "" {
			cfg.Port = servePort
		}
		return serve(cfg)
	},
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "listen port (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cfg *config.Config) error {
	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"state", cfg.StateBackend,
		"otp", cfg.OTPMode,
	)

	store, closeStore, err := openStateStore(cfg)
	if err != nil {
		return err
	}
	defer closeStore()

	eng, err := engine.New()
	if err != nil {
		return fmt.Errorf("load document templates: %w", err)
	}

	m := metrics.New()
	pc := preview.NewController()
	session := workspace.NewSession(
		site.NewAssembler(eng),
		store,
		pc,
		aiclient.New(nil, cfg.EnhanceTimeout),
		workspace.Options{
			Origin:       cfg.Origin(),
			APIBase:      cfg.APIBase,
			FallbackPort: cfg.FallbackPort,
			Metrics:      m,
		},
	)
	if _, err := session.Load(context.Background()); err != nil {
		return fmt.Errorf("restore workspace: %w", err)
	}

	// AI providers for the assist endpoint. Providers without keys are
	// skipped; a per-request key can still enable OpenAI.
	aiRegistry := ai.NewRegistry(cfg.AIProvider, map[string]ai.ProviderConfig{
		"openai": {APIKey: cfg.OpenAIAPIKey, Model: cfg.OpenAIModel, BaseURL: cfg.OpenAIBaseURL},
		"claude": {APIKey: cfg.ClaudeAPIKey, Model: cfg.ClaudeModel, BaseURL: cfg.ClaudeBaseURL},
	})
	slog.Info("ai providers", "active", aiRegistry.ActiveName(), "available", aiRegistry.Available())

	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		return fmt.Errorf("storage client: %w", err)
	}
	if storageClient == nil {
		slog.Info("publishing disabled (S3 not configured)")
	}

	static, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		return fmt.Errorf("static assets: %w", err)
	}

	rt := router.New(router.Deps{
		Backend:        handlers.NewBackend(newVerifier(cfg), ai.NewAssistant(aiRegistry), m),
		Workspace:      handlers.NewWorkspace(session, store, storageClient, m),
		Preview:        handlers.NewPreview(pc, cfg.Origin()),
		Account:        handlers.NewAccount(account.NewFlow(store, account.NewHTTPGateway(cfg.AssistBase(), nil))),
		Metrics:        m,
		Static:         static,
		AllowedOrigins: cfg.CORSOrigins,
	})
	defer rt.Stop()

	// WriteTimeout must cover an enhancement that probes every assist
	// candidate in turn.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      rt,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr(), "origin", cfg.Origin())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("server failed to start: %w", err)
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server stopped gracefully")
	return nil
}

// openStateStore connects the configured state backend. The returned
// func releases it.
func openStateStore(cfg *config.Config) (statestore.Store, func(), error) {
	switch cfg.StateBackend {
	case config.StateMemory:
		slog.Warn("state is kept in memory and lost on restart")
		return statestore.NewMemoryStore(), func() {}, nil

	case config.StateSQLite, config.StatePostgres:
		dialect, dsn := database.DialectSQLite, cfg.SQLitePath
		if cfg.StateBackend == config.StatePostgres {
			dialect, dsn = database.DialectPostgres, cfg.PostgresDSN
		}
		db, err := database.Connect(dialect, dsn)
		if err != nil {
			return nil, nil, fmt.Errorf("connect state database: %w", err)
		}
		if err := database.Migrate(db, dialect); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("migrate state database: %w", err)
		}
		return statestore.NewSQLStore(db, dialect), func() { db.Close() }, nil

	case config.StateValkey:
		client, err := statestore.ConnectValkey(cfg.ValkeyAddr, cfg.ValkeyPassword, cfg.ValkeyDB)
		if err != nil {
			return nil, nil, fmt.Errorf("connect valkey: %w", err)
		}
		return statestore.NewValkeyStore(client), func() { client.Close() }, nil
	}
	return nil, nil, fmt.Errorf("unknown state backend %q", cfg.StateBackend)
}

// newVerifier picks the phone verification provider.
func newVerifier(cfg *config.Config) verify.Verifier {
	if cfg.OTPMode == config.OTPLocal {
		slog.Warn("local OTP mode: codes are written to the log")
		return verify.NewLocal()
	}
	tw := verify.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		ServiceSID: cfg.TwilioVerifySID,
	}
	if !tw.Configured() {
		slog.Warn("twilio credentials missing; OTP requests will fail")
	}
	return verify.NewTwilio(tw)
}
