package main

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"foldertoword/internal/config"
	"foldertoword/internal/database"
	"foldertoword/internal/repository"
	"foldertoword/internal/repository/memory"
	"foldertoword/internal/repository/postgres"
	"foldertoword/internal/service"
	"foldertoword/internal/storage"
)

func newReapCmd(cfg *config.AppConfig, log zerolog.Logger) *cobra.Command {
	var ttl time.Duration

	cmd := &cobra.Command{
		Use:   "reap",
		Short: "Delete stored documents older than the TTL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if ttl <= 0 {
				return fmt.Errorf("ttl must be positive, got %s", ttl)
			}

			store, err := storage.New(ctx, cfg.Storage)
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}

			var docs repository.DocumentRepository = memory.NewDocumentMemory()
			if cfg.Database.Enabled() {
				db, err := database.NewPostgres(ctx, cfg.Database)
				if err != nil {
					return fmt.Errorf("failed to connect to database: %w", err)
				}
				defer db.Close()
				docs = postgres.NewDocumentPostgres(db)
			}

			svc := service.NewDocumentService(store, docs, memory.NewSessionMemory(0))
			reaper := service.NewReaper(svc, config.ReaperConfig{TTL: ttl}, log)
			n, err := reaper.RunOnce(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "removed %d document(s)\n", n)
			return nil
		},
	}
	cmd.Flags().DurationVar(&ttl, "ttl", cfg.Reaper.TTL, "remove documents older than this")
	return cmd
}
