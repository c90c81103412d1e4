package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"photogrip/internal/config"
	"photogrip/internal/eventbus"
	"photogrip/internal/flickr"
	"photogrip/internal/kvstore"
	"photogrip/internal/logger"
	"photogrip/internal/ui"
	"photogrip/internal/ui/coordinator"
)

var version = "dev"

func main() {
	var (
		configPath string
		query      string
		logLevel   string
	)

	rootCmd := &cobra.Command{
		Use:   "photogrip",
		Short: "Search and scroll Flickr photos in the terminal",
		Long: `photogrip shows the recent Flickr feed and searches it as you type.

Environment variables:
  FLICKR_API_KEY          API key (overrides the config file)
  PHOTOGRIP_LOG_LEVEL     log level
  PHOTOGRIP_API_BASE_URL  REST endpoint`,
		Version:      version,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(configPath, logLevel, query)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default is the user config dir)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.Flags().StringVarP(&query, "query", "q", "", "start with a search instead of the recent feed")

	rootCmd.AddCommand(searchCmd(&configPath, &logLevel))
	rootCmd.AddCommand(suggestionsCmd(&configPath))
	rootCmd.AddCommand(configCmd(&configPath))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app holds everything built from the config
type app struct {
	cfg    *config.Config
	log    *logger.Logger
	client *flickr.Client
	store  kvstore.Store
}

func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.WithError(err).Warn("closing suggestion store")
		}
	}
	_ = a.log.Close()
}

func loadConfig(path string) (*config.Config, error) {
	svc := config.NewConfigService()
	if path != "" {
		svc = config.NewConfigServiceAt(path)
	}
	cfg, err := svc.Load()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// newApp loads the config and builds the logger, API client and store.
// A store that cannot be opened leaves suggestions running in memory.
func newApp(configPath, logLevel string) (*app, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logCfg := logger.DefaultConfig()
	logCfg.Level = cfg.Log.Level
	logCfg.Format = cfg.Log.Format
	logCfg.File = cfg.Log.File
	log := logger.New(logCfg)

	a := &app{
		cfg: cfg,
		log: log,
		client: flickr.NewClient(flickr.Config{
			BaseURL:           cfg.API.BaseURL,
			APIKey:            cfg.API.APIKey,
			Timeout:           cfg.API.Timeout.Duration,
			RequestsPerSecond: cfg.API.RequestsPerSecond,
			Logger:            log,
		}),
	}

	bolt, err := kvstore.OpenBolt(cfg.Storage.Path)
	if err != nil {
		log.WithError(err).Warn("suggestion store unavailable")
	} else {
		a.store = bolt
	}
	return a, nil
}

func runTUI(configPath, logLevel, query string) error {
	a, err := newApp(configPath, logLevel)
	if err != nil {
		return err
	}
	defer a.Close()

	a.log.WithField("version", version).Info("starting photogrip")

	bus := eventbus.New(a.log)
	defer bus.Close()

	coord := coordinator.NewCoordinator(a.client, a.store, bus, a.log, coordinator.Options{
		Debounce:           a.cfg.Search.Debounce.Duration,
		SuggestionMinChars: a.cfg.Search.SuggestionMinChars,
		PerPage:            a.cfg.Search.PerPage,
		FetchTimeout:       a.cfg.Search.FetchTimeout.Duration,
	})
	defer coord.Close()

	uiModel := ui.NewModel(coord, a.cfg, ui.WithInitialQuery(query), ui.WithLogger(a.log))
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	done := make(chan struct{})
	unsubscribe := coord.Subscribe(func(e eventbus.DomainEvent) {
		select {
		case eventChan <- e:
		case <-done:
		default:
			// the spinner tick resyncs state, so a dropped event is recovered
			a.log.Debug("event channel full, dropping event")
		}
	})
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-done:
				return
			}
		}
	}()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			p.Quit()
		case <-done:
		}
	}()

	_, runErr := p.Run()

	// Cleanup
	close(done)
	unsubscribe()
	coord.Close()

	if runErr != nil {
		a.log.WithError(runErr).Error("program exited with error")
		return runErr
	}
	a.log.Info("photogrip exited normally")
	return nil
}
