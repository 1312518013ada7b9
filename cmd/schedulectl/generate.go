package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-SurgeryScheduler/internal/config"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/scheduler"
	"github.com/m04kA/SMC-SurgeryScheduler/internal/snapshot"
	"github.com/m04kA/SMC-SurgeryScheduler/pkg/logger"
)

type generateOptions struct {
	Year    int
	Month   int
	Weekday string
	Pretty  bool
}

func generateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Build a monthly schedule from a snapshot file without a database",
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath, _ := cmd.Flags().GetString("config")
			input, _ := cmd.Flags().GetString("input")
			year, _ := cmd.Flags().GetInt("year")
			month, _ := cmd.Flags().GetInt("month")
			weekday, _ := cmd.Flags().GetString("weekday")
			pretty, _ := cmd.Flags().GetBool("pretty")

			cfg, err := loadConfigOrDefault(configPath)
			if err != nil {
				return err
			}

			snap, err := snapshot.Load(input)
			if err != nil {
				return err
			}

			return runGenerate(cmd.OutOrStdout(), cfg, snap, generateOptions{
				Year:    year,
				Month:   month,
				Weekday: weekday,
				Pretty:  pretty,
			})
		},
	}

	cmd.Flags().String("input", "", "Snapshot JSON file")
	cmd.Flags().Int("year", time.Now().Year(), "Year")
	cmd.Flags().Int("month", int(time.Now().Month()), "Month (1-12)")
	cmd.Flags().String("weekday", "Monday", "Day of week (Monday .. Sunday)")
	cmd.Flags().Bool("pretty", false, "Indent JSON output")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

// loadConfigOrDefault офлайн генерации файл конфигурации не обязателен
func loadConfigOrDefault(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if errors.Is(err, os.ErrNotExist) {
		cfg = config.Default()
		cfg.Scheduler.Catalog = scheduler.DefaultCatalog()
		return cfg, nil
	}
	return nil, err
}

func runGenerate(out io.Writer, cfg *config.Config, snap *snapshot.Snapshot, opts generateOptions) error {
	engine := scheduler.NewEngine(logger.NewNop(), nil)

	in := snap.Input(
		opts.Year,
		time.Month(opts.Month),
		opts.Weekday,
		cfg.Scheduler.Constraints,
		cfg.Scheduler.Optimization,
		cfg.Scheduler.Catalog,
	)

	schedule, err := engine.Generate(in)
	if err != nil {
		return fmt.Errorf("generate schedule: %w", err)
	}
	schedule.GeneratedAt = time.Now().UTC()

	encoder := json.NewEncoder(out)
	if opts.Pretty {
		encoder.SetIndent("", "  ")
	}
	return encoder.Encode(schedule)
}
