// Command cytoset classifies flow cytometry particles into sets and
// estimates the imaged sample volume of each set.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/cytoset/internal/adapters/driven/config/file"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/definition"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/definition/xmlset"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/gating"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/metrics"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/particles/jsonfile"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/cytoset/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/cytoset/internal/adapters/driving/cli"
	"github.com/custodia-labs/cytoset/internal/core/ports/driven"
	"github.com/custodia-labs/cytoset/internal/core/services"
	"github.com/custodia-labs/cytoset/internal/logger"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

// configDirEnv overrides the config directory (default ~/.cytoset).
const configDirEnv = "CYTOSET_HOME"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := 0
	if err := run(ctx); err != nil {
		code = 1
	}
	stop()
	os.Exit(code)
}

// openConfigStore opens the TOML config. When the config directory cannot be
// created the run continues on defaults held in memory.
func openConfigStore() driven.ConfigStore {
	store, err := file.NewConfigStore(os.Getenv(configDirEnv))
	if err == nil {
		return store
	}
	logger.Warn("Config unavailable, settings will not be saved: %v", err)
	return memory.NewConfigStoreAt(filepath.Join(os.TempDir(), "cytoset", file.ConfigFile), nil)
}

func run(ctx context.Context) error {
	settingsService := services.NewSettingsService(openConfigStore())
	settings, err := settingsService.Get()
	if err != nil {
		logger.Error("failed to read settings: %v", err)
		return err
	}

	recorder := metrics.NewRecorder()

	analysis := services.NewAnalysisService(
		jsonfile.NewProvider(),
		definition.NewSource(),
		xmlset.NewSerializer(),
		services.NewClassifier(gating.New()),
		services.NewVolumeEstimator(recorder),
	)
	analysis.SetMetrics(recorder)

	svc := cli.Services{
		Analysis: analysis,
		Settings: settingsService,
		Metrics:  recorder,
	}

	if settings.Storage.Enabled {
		store, err := sqlite.NewStore(settings.Storage.DataDir)
		if err != nil {
			logger.Error("failed to open run history: %v", err)
			return err
		}
		defer func() {
			if err := store.Close(); err != nil {
				logger.Warn("close run history: %v", err)
			}
		}()
		analysis.SetRunStore(store.RunStore())
		svc.Runs = services.NewRunHistoryService(store.RunStore())
	}

	cli.SetVersion(version)
	cli.SetServices(svc)

	if err := cli.Execute(ctx); err != nil {
		return fmt.Errorf("cytoset: %w", err)
	}
	return nil
}
