package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lighttimer/internal/api"
	"lighttimer/internal/clock"
	"lighttimer/internal/config"
	"lighttimer/internal/configui"
	"lighttimer/internal/daylight"
	"lighttimer/internal/rooms"
	"lighttimer/internal/scheduler"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	// Initialize logger
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	// Load environment variables
	if err := godotenv.Load(); err != nil {
		logger.Debug("No .env file found, using environment variables")
	}

	var cfgPath string

	rootCmd := &cobra.Command{
		Use:          "lighttimer",
		Short:        "Simulate occupancy by randomly toggling room lights at night",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", config.DefaultPath, "settings file path")

	rootCmd.AddCommand(runCmd(logger, &cfgPath))
	rootCmd.AddCommand(configureCmd(logger, &cfgPath))
	rootCmd.AddCommand(sunCmd(logger, &cfgPath))

	if err := rootCmd.Execute(); err != nil {
		logger.Error("Command failed", zap.Error(err))
		os.Exit(1)
	}
}

func runCmd(logger *zap.Logger, cfgPath *string) *cobra.Command {
	var (
		interval    int
		useDaylight bool
		source      string
		listen      string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scheduler loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load(*cfgPath, logger)

			loc, err := settings.Location()
			if err != nil {
				return err
			}

			house, err := rooms.NewHouse(settings.ActiveRooms)
			if err != nil {
				return err
			}

			var provider daylight.Provider
			if useDaylight {
				provider, err = newProvider(source, settings, loc)
				if err != nil {
					return err
				}
			}

			var sink scheduler.Sink
			if listen != "" {
				hub := api.NewHub(logger)
				server := api.NewServer(house, hub, logger, listen)
				if err := server.Start(); err != nil {
					return err
				}
				defer server.Stop()
				sink = hub
			}

			rng := rand.New(rand.NewSource(time.Now().UnixNano()))
			loop, err := scheduler.New(house, clock.NewRealClock(), rng, provider, sink, logger, scheduler.Options{
				IntervalMinutes: interval,
				UseDaylight:     useDaylight,
				Location:        loc,
			})
			if err != nil {
				return err
			}

			// Cancel the loop on SIGINT/SIGTERM for a clean exit.
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
			go func() {
				sig := <-sigChan
				logger.Info("Received signal, shutting down", zap.String("signal", sig.String()))
				cancel()
			}()

			logger.Info("Starting light timer",
				zap.Strings("rooms", settings.ActiveRooms),
				zap.String("timezone", settings.Timezone))

			return loop.Run(ctx)
		},
	}

	cmd.Flags().IntVar(&interval, "interval", 15, "wait granularity in minutes (15 or 30)")
	cmd.Flags().BoolVar(&useDaylight, "daylight", false, "derive the active window from sunset/sunrise")
	cmd.Flags().StringVar(&source, "daylight-source", "open-meteo", "daylight provider: open-meteo or solar")
	cmd.Flags().StringVar(&listen, "listen", "", "status API listen address, e.g. :8081 (empty disables)")

	return cmd
}

func configureCmd(logger *zap.Logger, cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "configure",
		Short: "Edit rooms, location, and timezone interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load(*cfgPath, logger)
			editor := configui.New(*cfgPath, settings, cmd.InOrStdin(), cmd.OutOrStdout())
			return editor.Run()
		},
	}
}

func sunCmd(logger *zap.Logger, cfgPath *string) *cobra.Command {
	var source string

	cmd := &cobra.Command{
		Use:   "sun",
		Short: "Print today's sunrise and sunset for the configured location",
		RunE: func(cmd *cobra.Command, args []string) error {
			settings := config.Load(*cfgPath, logger)

			loc, err := settings.Location()
			if err != nil {
				return err
			}

			provider, err := newProvider(source, settings, loc)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()

			st, err := provider.SunTimes(ctx, time.Now().In(loc))
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Sunrise: %s\n", st.Sunrise.Format("15:04"))
			fmt.Fprintf(cmd.OutOrStdout(), "Sunset:  %s\n", st.Sunset.Format("15:04"))
			return nil
		},
	}

	cmd.Flags().StringVar(&source, "daylight-source", "open-meteo", "daylight provider: open-meteo or solar")

	return cmd
}

func newProvider(source string, settings config.Settings, loc *time.Location) (daylight.Provider, error) {
	switch source {
	case "open-meteo":
		return daylight.NewOpenMeteo(settings.Latitude, settings.Longitude, loc), nil
	case "solar":
		return daylight.NewSolar(settings.Latitude, settings.Longitude, loc), nil
	default:
		return nil, fmt.Errorf("unknown daylight source %q (use open-meteo or solar)", source)
	}
}
