package main

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	zone "github.com/lrstanley/bubblezone"
	flag "github.com/spf13/pflag"

	"cmdpal/internal/config"
	"cmdpal/internal/domain"
	"cmdpal/internal/eventbus"
	"cmdpal/internal/opener"
	"cmdpal/internal/palette"
	"cmdpal/internal/transport"
	"cmdpal/internal/ui"
)

//go:embed commands.json
var defaultCommands []byte

func main() {
	// Parse command line arguments
	var (
		configPath      string
		endpoint        string
		commandsFile    string
		logPath         string
		noElementSearch bool
		writeConfig     bool
	)
	flag.StringVarP(&configPath, "config", "c", "", "Path to the config file")
	flag.StringVarP(&endpoint, "endpoint", "e", "", "Trigger endpoint URL")
	flag.StringVarP(&commandsFile, "commands", "f", "", "JSON file with the root command set")
	flag.StringVar(&logPath, "log", "", "Log file path")
	flag.BoolVar(&noElementSearch, "no-element-search", false, "Disable live element search")
	flag.BoolVar(&writeConfig, "write-config", false, "Write the effective config and exit")
	flag.Parse()

	// Load configuration
	configSvc := config.NewConfigService()
	if configPath != "" {
		configSvc = config.NewConfigServiceAt(configPath)
	}
	cfg, err := configSvc.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if endpoint != "" {
		cfg.Endpoint = endpoint
	}
	if commandsFile != "" {
		cfg.CommandsFile = commandsFile
	}
	if logPath != "" {
		cfg.LogFile = logPath
	}
	if noElementSearch {
		cfg.Search.ElementSearch = false
	}

	if writeConfig {
		if err := configSvc.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Config written to %s\n", configSvc.Path())
		return
	}

	// Set up logging
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not open log file: %v\n", err)
	} else {
		defer logFile.Close()
		log.SetOutput(logFile)
	}

	root, err := loadCommands(cfg.CommandsFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading commands: %v\n", err)
		os.Exit(1)
	}
	log.Printf("Loaded %d root commands", len(root))

	// Create event bus
	bus := eventbus.New()
	defer bus.Close()

	unsubscribe := opener.New(cfg.Opener.Command, cfg.Opener.CopyFallback, cfg.Endpoint).Subscribe(bus)
	defer unsubscribe()

	client := transport.NewClient(cfg.Endpoint,
		transport.WithTimeout(cfg.HTTP.Timeout.Std()),
		transport.WithHeaders(cfg.HTTP.Headers),
	)

	opts := palette.DefaultOptions()
	opts.Width = cfg.UI.Width
	opts.HTMLWidth = cfg.UI.HTMLWidth
	opts.MaxVisible = cfg.UI.MaxVisible
	opts.ElementSearch = cfg.Search.ElementSearch
	opts.ElementCommand = cfg.Search.ElementCommand
	opts.ElementService = cfg.Search.ElementService
	pal := palette.New(root, opts)

	zone.NewGlobal()

	uiModel := ui.NewModel(bus, cfg, pal, client)
	p := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseCellMotion())
	uiModel.SetProgram(p)

	// Forward notifications raised outside the UI (opener failures) to the program
	bus.Subscribe(eventbus.EventNotification, func(e eventbus.DomainEvent) {
		go p.Send(ui.EventMsg{Event: e})
	})
	bus.Subscribe(eventbus.EventCommandFailed, func(e eventbus.DomainEvent) {
		if event, ok := e.(eventbus.CommandFailedEvent); ok {
			log.Printf("Command %s (request %d) failed: %v", event.Command, event.RequestID, event.Err)
		}
	})

	log.Printf("Starting UI against %s", cfg.Endpoint)
	if _, err := p.Run(); err != nil {
		log.Printf("Error running program: %v", err)
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
	log.Printf("UI exited normally")
}

// loadCommands reads the root command set, falling back to the built-in set
func loadCommands(path string) (domain.CommandSet, error) {
	data := defaultCommands
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read commands file: %w", err)
		}
	}

	var set domain.CommandSet
	if err := json.Unmarshal(data, &set); err != nil {
		return nil, fmt.Errorf("failed to parse commands: %w", err)
	}
	return set, nil
}
