package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"piccomarr/internal/buildinfo"
	"piccomarr/internal/client"
	"piccomarr/internal/config"
	"piccomarr/internal/domain"
	"piccomarr/internal/files"
	"piccomarr/internal/logger"
	"piccomarr/internal/sanitize"
	"piccomarr/internal/source"

	"github.com/spf13/cobra"
)

var monitorCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Monitor configured series for new units",
	Run: func(cmd *cobra.Command, _ []string) {
		ctx := cmd.Context()

		// read config
		cfg := config.New(configPath, buildinfo.Version)

		// init new logger
		log := logger.New(cfg.Config)

		if err := cfg.UpdateConfig(); err != nil {
			log.Error().Err(err).Msgf("error updating config")
		}

		// init dynamic config
		cfg.DynamicReload(log)

		if err := files.IsValidLocation(cfg.Config.DownloadLocation); err != nil {
			log.Fatal().Err(err).Msgf("invalid download location")
		}

		c, err := client.New(client.Config{
			Retries: uint(cfg.Config.RequestRetries),
			Delay:   time.Duration(cfg.Config.RequestDelay) * time.Millisecond,
		})
		if err != nil {
			log.Fatal().Err(err).Msgf("error creating client")
		}

		log.Info().Msg("starting to monitor configured series")

		ticker := time.NewTicker(time.Duration(cfg.Config.CheckInterval)*time.Minute - 40*time.Second)
		defer ticker.Stop()

		quit := make(chan bool, 1)
		done := make(chan bool, 1)

		go func() {
			defer func() { done <- true }()

			for {
				select {
				case <-quit:
					return
				case <-ticker.C:
					// the platform throttles aggressively, so series are
					// checked one after another instead of fanning out
					for serieName, monitored := range cfg.Config.MonitoredSeries {
						checkSerie(ctx, log, c, cfg.Config, serieName, monitored)
					}
				}
			}
		}()

		// set up a channel to catch signals for graceful shutdown
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGHUP, syscall.SIGINT, syscall.SIGQUIT, syscall.SIGTERM)

		fmt.Printf("received signal: %s, stopping monitoring.\n", <-sigCh)
		quit <- true
		<-done
	},
}

func checkSerie(ctx context.Context, log logger.Logger, c *client.Client, cfg *domain.Config, serieName string, monitored *domain.MonitoredSerie) {
	id, err := domain.ParseSerieID(monitored.Serie)
	if err != nil {
		log.Error().Err(err).Msgf("invalid serie id for %s", serieName)
		return
	}

	unitType, err := domain.ParseUnitType(monitored.Media)
	if err != nil {
		log.Error().Err(err).Msgf("invalid media type for %s", serieName)
		return
	}

	serie, err := source.ResolveSerie(ctx, c, id, unitType)
	if err != nil {
		log.Error().Err(err).Msgf("error getting serie %s", id)
		return
	}

	sLog := log.With().Str("serie", serie.Title()).Logger()

	serieDir := filepath.Join(cfg.DownloadLocation, sanitize.Filename(serie.Title()))
	if err := os.MkdirAll(serieDir, os.ModePerm); err != nil {
		sLog.Error().Err(err).Msgf("error creating %q", serieDir)
		return
	}

	for _, unit := range serie.Units() {
		if !unit.Available() {
			sLog.Debug().Msgf("%s %03d is not available, skipping", unitType, unit.Number())
			continue
		}

		if unit.PresentAt(serieDir, cfg.Format) {
			sLog.Debug().Msgf("%s %03d has already been downloaded, skipping", unitType, unit.Number())
			continue
		}

		sLog.Info().Msgf("downloading %q", unit.Title())
		if err := downloadUnit(ctx, c, unit, serieDir, cfg.Format, nil); err != nil {
			sLog.Error().Err(err).Msgf("error downloading %q", unit.Title())
			return
		}
		sLog.Info().Msgf("finished downloading %q", unit.Title())
	}
}
