package main

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/config"
	bookingRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/booking"
	procedureRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/procedure"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/schedulecache"
	staffRepo "github.com/m04kA/SMC-SurgeryScheduler/internal/infra/storage/staff"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/snapshot"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/cache"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/logger"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/simpletxmanager"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Load staff, procedures and bookings from a snapshot file into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			input, _ := cmd.Flags().GetString("input")

			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}

			log, err := logger.New(cfg.Logs.File, cfg.Logs.Level)
			if err != nil {
				return err
			}
			defer log.Close()

			snap, err := snapshot.Load(input)
			if err != nil {
				return err
			}

			db, err := sql.Open("postgres", cfg.Database.DSN())
			if err != nil {
				return fmt.Errorf("open database: %w", err)
			}
			defer db.Close()

			if err := db.PingContext(cmd.Context()); err != nil {
				return fmt.Errorf("ping database: %w", err)
			}

			var redisClient schedulecache.RedisClient
			if cfg.Redis.Enabled {
				client, err := cache.NewRedis(cfg.Redis.Cache())
				if err != nil {
					log.Warn("Import: schedule cache unavailable, skipping invalidation: %v", err)
				} else {
					defer client.Close()
					redisClient = client
				}
			}

			importer := snapshot.NewImporter(
				staffRepo.NewRepository(db),
				procedureRepo.NewRepository(db),
				bookingRepo.NewRepository(db),
				schedulecache.NewRepository(redisClient, cfg.Redis.TTL()),
				simpletxmanager.NewTransactionManager(db),
				log,
			)

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			result, err := importer.Import(ctx, snap)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "imported staff=%d procedures=%d bookings=%d\n",
				result.Staff, result.Procedures, result.Bookings)
			return nil
		},
	}

	cmd.Flags().String("input", "", "Snapshot JSON file")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}
