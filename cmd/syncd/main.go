package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"

	"github.com/pocketcrm/go-sync/internal/adapter"
	"github.com/pocketcrm/go-sync/internal/auth"
	"github.com/pocketcrm/go-sync/internal/config"
	"github.com/pocketcrm/go-sync/internal/events"
	"github.com/pocketcrm/go-sync/internal/lifecycle"
	"github.com/pocketcrm/go-sync/internal/logger"
	"github.com/pocketcrm/go-sync/internal/netprobe"
	"github.com/pocketcrm/go-sync/internal/server"
	"github.com/pocketcrm/go-sync/internal/service"
	"github.com/pocketcrm/go-sync/internal/store"
	"github.com/pocketcrm/go-sync/internal/workers"
	"github.com/pocketcrm/go-sync/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	printBuildInfo()

	log := logger.NewLogger("syncd")

	cfg, err := config.GetAgentConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.Log.File != "" {
		log = logger.NewRotatingLogger("syncd", cfg.Log.File, cfg.Log.MaxSizeMB, cfg.Log.MaxBackups)
	}

	log.Debug().Any("config", cfg).Msg("received configs")

	build := models.AppBuildInfo{Version: buildVersion, Date: buildDate, Commit: buildCommit}
	if build.Version == "N/A" && cfg.App.Version != "" {
		// sideloaded builds without ldflags fall back to the configured version
		build.Version = cfg.App.Version
	}

	var tokens auth.TokenSource
	if cfg.App.TokenFile != "" {
		tokens = auth.NewFileTokenSource(cfg.App.TokenFile)
	} else {
		tokens = auth.NewStaticTokenSource(cfg.App.Token)
	}

	clock := clockwork.NewRealClock()

	serverAdapter, err := adapter.NewHTTPServerAdapter(cfg.Adapter, tokens, clock, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server adapter")
	}

	storages, err := store.NewStorages(cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}

	bus := events.NewBus(cfg.Sync.EventBuffer, log)
	observer := lifecycle.NewObserver(clock, log)

	// The manual probe is the connectivity switch everything watches. The
	// host application flips it through the control API; the HTTP probe
	// feeds ping results into it for hosts that never signal.
	probe := netprobe.NewManualProbe(true)
	httpProbe := netprobe.NewHTTPProbe(serverAdapter, clock, cfg.Adapter.PingInterval, log)

	services := service.NewServices(
		cfg.Sync,
		storages,
		serverAdapter,
		probe,
		observer,
		bus,
		auth.NewLogNotifier(log),
		clock,
		log,
	)

	handler := server.NewHandler(services, storages.Records, observer, probe, tokens, build, log)
	controlAPI := server.NewServer(handler.Init(), cfg.Server, log)

	group := workers.NewGroup(log)
	group.Add("event-log", workers.NewEventLog(bus, log))
	group.Add("net-probe", httpProbe)
	group.Add("net-bridge", workers.NewNetBridge(httpProbe, probe))
	group.Add("scheduler", services.Scheduler)
	group.Add("control-api", controlAPI)

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
		syscall.SIGQUIT,
	)
	defer stop()

	err = group.Run(ctx)
	bus.Close()
	if err != nil {
		log.Fatal().Err(err).Msg("agent stopped with error")
	}

	log.Info().Msg("agent stopped")
}

func printBuildInfo() {
	if buildVersion == "" {
		buildVersion = "N/A"
	}
	if buildDate == "" {
		buildDate = "N/A"
	}
	if buildCommit == "" {
		buildCommit = "N/A"
	}

	fmt.Printf("Build version: %s\n", buildVersion)
	fmt.Printf("Build date: %s\n", buildDate)
	fmt.Printf("Build commit: %s\n", buildCommit)
}
