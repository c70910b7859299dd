package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	_ "github.com/joho/godotenv/autoload"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/rescuenet/rescuenet-api/internal/app"
	"github.com/rescuenet/rescuenet-api/internal/config"
	"github.com/rescuenet/rescuenet-api/internal/seed"
	"github.com/rescuenet/rescuenet-api/pkg/logger"
	"github.com/rescuenet/rescuenet-api/pkg/security"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load demo accounts, programs and reports",
	Long: `Seed the configured database with the demo data set:

  admin@rescuenet.com and citizen@rescuenet.com (password: ` + seed.DefaultPassword + `)
  five Bantuan programs
  four incident reports around Lubok Antu

Running it again only fills tables that are still empty.`,
	SilenceUsage: true,
	RunE:         runSeed,
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", os.Getenv("RESCUENET_CONFIG"), "path to config.yaml")
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if strings.EqualFold(cfg.Database.Driver, "memory") {
		return errors.New("seeding the memory driver has no lasting effect; configure postgres")
	}

	l := logger.Setup(&logger.Config{
		Level:  logger.ParseLevel(cfg.Log.Level),
		Format: cfg.Log.Format,
	}).Zerolog()

	ctx := cmd.Context()
	store, err := app.OpenStore(ctx, cfg.Database, l)
	if err != nil {
		return err
	}
	defer store.Close()

	sum, err := seed.New(store, security.NewBcryptHasher(0), l).Run(ctx)
	if err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %d users, %d programs, %d reports\n", sum.Users, sum.Programs, sum.Reports)
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Error().Err(err).Msg("seed failed")
		os.Exit(1)
	}
}
