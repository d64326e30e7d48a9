// Command wmlrt plays a transcoded WML deck on the console.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"nickandperla.net/wmlrt/internal/config"
	"nickandperla.net/wmlrt/internal/logs"
	"nickandperla.net/wmlrt/pkg/wmlrt"
)

func main() {
	var (
		configPath = flag.String("config", config.DefaultPath(), "TOML configuration file")
		deckPath   = flag.String("deck", "", "HTML deck to play (overrides config)")
		locator    = flag.String("locator", "", "Initial location, e.g. #card2")
		dbPath     = flag.String("db", "", "SQLite database for variables (overrides config)")
		session    = flag.String("session", "", "Resume this variable session (requires a SQLite store)")
		logLevel   = flag.String("log-level", "", "Log level: debug, info, warn or error (overrides config)")
		timeUnit   = flag.Duration("time-unit", 0, "Duration of one timer unit (overrides config)")
	)
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	// Flags win over the file.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "deck":
			cfg.Deck = *deckPath
		case "db":
			cfg.Store = config.Store{Kind: config.StoreSQLite, Path: *dbPath}
		case "log-level":
			cfg.LogLevel = *logLevel
		case "time-unit":
			cfg.TimeUnit = config.Duration{Duration: *timeUnit}
		}
	})
	if *session != "" {
		if cfg.Store.Kind != config.StoreSQLite {
			fmt.Fprintln(os.Stderr, "Error: -session requires a SQLite store (-db)")
			os.Exit(1)
		}
		cfg.Store.Session = *session
	}
	if flag.NArg() > 0 && cfg.Deck == "" {
		cfg.Deck = flag.Arg(0)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.Deck == "" {
		fmt.Fprintln(os.Stderr, "Usage: wmlrt [flags] DECK.html")
		flag.PrintDefaults()
		os.Exit(2)
	}

	logger := logs.New(os.Stderr, logs.ParseLevel(cfg.LogLevel))

	p := newPlayer(os.Stdout)
	opts := []wmlrt.Option{
		wmlrt.WithHost(p),
		wmlrt.WithSurface(p),
		wmlrt.WithLogger(logger),
		wmlrt.WithTimeUnit(cfg.TimeUnit.Duration),
		wmlrt.WithDiagnostics(p.diagnostic),
		storeOption(cfg.Store),
	}

	runtime, err := wmlrt.NewFromFile(cfg.Deck, opts...)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading deck: %v\n", err)
		os.Exit(1)
	}
	defer runtime.Close()
	p.attach(runtime)

	if s := runtime.Session(); s != "" {
		logger.Info("variable session", "session", s)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	runtime.Post(func() {
		if err := p.start(*locator); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			p.quit()
		}
	})
	restore := startConsole(p, os.Stdin)
	defer restore()

	if err := runtime.Run(ctx); err != nil && ctx.Err() == nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func storeOption(s config.Store) wmlrt.Option {
	switch {
	case s.Kind != config.StoreSQLite:
		return wmlrt.WithMemoryStore()
	case s.Session != "":
		return wmlrt.WithSQLiteSession(s.Path, s.Session)
	default:
		return wmlrt.WithSQLiteStore(s.Path)
	}
}
