package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jonathan/career-assistant/internal/conversation"
	"github.com/jonathan/career-assistant/internal/db"
	"github.com/jonathan/career-assistant/internal/server"
	"github.com/spf13/cobra"
)

var (
	servePort int
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the chat session, résumé and career data endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}
	jwtCfg, err := cfg.JWT()
	if err != nil {
		return fmt.Errorf("invalid JWT configuration: %w", err)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	a, err := newApp(ctx, cfg)
	if err != nil {
		return err
	}

	var (
		managerOpts []conversation.Option
		database    *db.DB
	)
	if cfg.DatabaseURL != "" {
		database, err = db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			a.Close()
			return err
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			a.Close()
			return err
		}
		managerOpts = append(managerOpts, conversation.WithStore(db.NewSessionStore(database)))
		log.Printf("[serve] Persisting sessions to PostgreSQL")
	} else {
		log.Printf("[serve] DATABASE_URL not set, sessions are kept in memory")
	}

	srv, err := server.New(server.Config{Port: cfg.Port, JWT: jwtCfg}, server.Deps{
		Manager:   conversation.NewManager(a.assistant, managerOpts...),
		Assistant: a.assistant,
		Gateway:   a.gateway,
		Cleanup: func() {
			if database != nil {
				database.Close()
			}
			a.Close()
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}
