// Copyright 2025 The PadaServe Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

/*
Package main implements the Kannada spell checking server and CLI [DBG]
application.

PadaServe expands root words through their inflection paradigms into a
lexicon of surface forms, in WX transliteration, and checks words against
it. Unknown words get ranked suggestions by edit distance and frequency.
It can operate as a MessagePack IPC server for text editors, as a JSON
HTTP API, or as a CLI application for testing paradigm sources.

# Usage

Start the IPC server with default settings:

	padaserve

Use a custom paradigm source and enable debug mode:

	padaserve -data /path/to/paradigms -d

Run in CLI mode for interactive testing:

	padaserve -c -limit 5

Serve the HTTP API instead of stdin/stdout:

	padaserve -http -addr 127.0.0.1:8732

# Paradigm source

The data directory holds paradigms.yaml with roots and their rules, one
directory per category (Noun/, Verb/, Pronouns/ ...) of tab separated
paradigm tables, and words/ with plain per-category word lists. The
expanded lexicon is cached as msgpack and rebuilt when the source or the
build options change.

# Configuration

Runtime configuration lives in a TOML file that is created with defaults
when missing:

	[server]
	max_results = 10
	max_distance = 3
	enable_filter = true

	[lexicon]
	source_dir = "data"
	merge_policy = "max"
	reload_interval_sec = 0

	[redis]
	enabled = false
	addr = "localhost:6379"

With reload_interval_sec > 0 the source is polled and the lexicon swapped
without restart. With redis enabled, user words added over IPC or HTTP are
kept in Redis and merged into every rebuild.

# Command Line Flags

	-config string
	    Path to a config file (default [UserConfigDir]/padaserve/config.toml)
	-data string
	    Paradigm source directory (default from config)
	-d  Enable debug mode with detailed logging
	-c  Run in CLI mode instead of server mode
	-http
	    Serve the JSON HTTP API
	-addr string
	    HTTP listen address (default from config)
	-limit int
	    Number of suggestions to show in CLI mode
	-no-filter
	    Disable input filtering (DBG only)
	-no-cache
	    Always rebuild the lexicon from source
	-rebuild-config
	    Overwrite the default config file with defaults and exit
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"

	"github.com/bastiangx/padaserve/internal/cli"
	"github.com/bastiangx/padaserve/internal/customdict"
	"github.com/bastiangx/padaserve/internal/httpapi"
	"github.com/bastiangx/padaserve/internal/utils"
	"github.com/bastiangx/padaserve/pkg/checker"
	"github.com/bastiangx/padaserve/pkg/config"
	"github.com/bastiangx/padaserve/pkg/dictionary"
	"github.com/bastiangx/padaserve/pkg/lexicon"
	"github.com/bastiangx/padaserve/pkg/paradigm"
	"github.com/bastiangx/padaserve/pkg/server"
)

const (
	Version = "0.3.0-beta"
	AppName = "padaserve"
	gh      = "https://github.com/bastiangx/padaserve"
)

// sigHandler cancels ctx on SIGINT/SIGTERM. Unless graceful, the process
// exits right away, since the IPC loop blocks on stdin.
func sigHandler(cancel context.CancelFunc, graceful bool) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		cancel()
		if !graceful {
			fmt.Fprintf(os.Stderr, "\nExiting...\n")
			os.Exit(0)
		}
	}()
}

// main wires config, lexicon and checker into the selected frontend.
func main() {
	defaultConfig := config.DefaultConfig()

	showVersion := flag.Bool("version", false, "Show current version")
	configPath := flag.String("config", "", "Path to a config file")
	sourceDir := flag.String("data", "", "Paradigm source directory (default from config)")
	debugMode := flag.Bool("d", false, "Toggle debug mode")
	cliMode := flag.Bool("c", false, "Run CLI -- useful for testing and debugging")
	httpMode := flag.Bool("http", false, "Serve the JSON HTTP API instead of IPC")
	httpAddr := flag.String("addr", "", "HTTP listen address (default from config)")
	limit := flag.Int("limit", defaultConfig.CLI.DefaultLimit, "Number of suggestions to show in CLI mode")
	noFilter := flag.Bool("no-filter", defaultConfig.CLI.DefaultNoFilter, "Disable input filtering (DBG only) - checks numbers, symbols, etc")
	noCache := flag.Bool("no-cache", false, "Always rebuild the lexicon from source")
	rebuildConfig := flag.Bool("rebuild-config", false, "Overwrite the default config file with defaults and exit")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	if *debugMode {
		log.SetLevel(log.DebugLevel)
		log.SetReportTimestamp(true)
	} else {
		log.SetLevel(log.WarnLevel)
	}

	if *rebuildConfig {
		if err := config.RebuildConfigFile(); err != nil {
			log.Fatalf("Failed to rebuild config: %v", err)
		}
		fmt.Fprintf(os.Stderr, "Config rebuilt at %s\n", config.GetActiveConfigPath(""))
		os.Exit(0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigHandler(cancel, *httpMode)

	appConfig, activeConfigPath, err := config.LoadConfigWithPriority(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	log.Debugf("Using config file: (%s)", config.GetActiveConfigPath(activeConfigPath))

	pathResolver, err := utils.NewPathResolver()
	if err != nil {
		log.Print("Either env is not set or system is not supported")
		log.Fatalf("Failed to initialize path resolver: %v", err)
	}
	if *debugMode {
		log.Debug("Runtime info", "env", pathResolver.GetRuntimeInfo())
	}

	userSource := appConfig.Lexicon.SourceDir
	if *sourceDir != "" {
		userSource = *sourceDir
	}
	resolvedSource := pathResolver.GetSourceDir(userSource)
	log.Debugf("Using paradigm source at: %s", resolvedSource)

	var cache *dictionary.Cache
	if !*noCache && appConfig.Lexicon.CachePath != "" {
		cache = dictionary.NewCache(pathResolver.GetCachePath(appConfig.Lexicon.CachePath))
		log.Debugf("Using lexicon cache at: %s", cache.Path)
	}

	words := openCustomDict(ctx, appConfig.Redis)
	if words != nil {
		defer words.Close()
	}

	buildOpts := appConfig.BuildOptions()
	lex := loadLexicon(ctx, resolvedSource, cache, buildOpts, words, appConfig.Lexicon.Builtin)
	store := lexicon.NewStore(lex)

	chk, err := checker.New(store,
		checker.WithSuggestOptions(appConfig.SuggestOptions()),
		checker.WithCacheSize(appConfig.Cache.SuggestionCacheSize),
	)
	if err != nil {
		log.Fatalf("Failed to init checker: %v", err)
	}

	reloader := dictionary.NewReloader(resolvedSource, store, cache, buildOpts)
	if words != nil {
		reloader.SetExtra(words.All)
	}
	if err := reloader.MarkCurrent(); err != nil {
		log.Debugf("Source not watchable: %v", err)
	}
	if interval := appConfig.ReloadInterval(); interval > 0 {
		log.Debugf("Watching %s every %v", resolvedSource, interval)
		go reloader.Watch(ctx, interval)
	}

	// CLI would be mainly used for testing paradigm sources.
	if *cliMode {
		log.SetReportTimestamp(false)
		log.Debug("Input info:",
			"minLen", appConfig.Server.MinWordLen,
			"maxLen", appConfig.Server.MaxWordLen,
			"limit", *limit,
			"noFilter", *noFilter)

		inputHandler := cli.NewInputHandler(chk, appConfig.Server.MinWordLen, appConfig.Server.MaxWordLen, *limit, *noFilter)
		if err := inputHandler.Start(os.Stdin); err != nil {
			log.Fatalf("CLI error: %v", err)
		}
		return
	}

	if *httpMode {
		addr := appConfig.HTTP.Addr
		if *httpAddr != "" {
			addr = *httpAddr
		}
		api := httpapi.New(chk, appConfig.Server)
		api.SetReloader(reloader)
		if words != nil {
			api.SetWordStore(words)
		}
		showStartupInfo(resolvedSource, store, "http://"+addr)
		if err := api.ListenAndServe(ctx, addr, appConfig.HTTP.AllowedOrigins); err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
		return
	}

	log.Debug("spawning IPC")
	srv := server.NewServer(chk, appConfig)
	srv.SetConfigPath(activeConfigPath)
	srv.SetReloader(reloader)
	if words != nil {
		srv.SetWordStore(words)
	}

	showStartupInfo(resolvedSource, store, "stdin/stdout")

	if err := srv.Start(ctx); err != nil {
		log.Fatalf("IPC server error: %v", err)
	}
}

// openCustomDict connects to the user word store when enabled. A failed
// connection is logged and the server runs without it.
func openCustomDict(ctx context.Context, cfg config.RedisConfig) *customdict.CustomDict {
	if !cfg.Enabled {
		return nil
	}
	cd, err := customdict.NewFromAddr(ctx, cfg.Addr, cfg.Password, cfg.DB, cfg.Key)
	if err != nil {
		log.Warnf("Custom words disabled, redis at %s unreachable: %v", cfg.Addr, err)
		return nil
	}
	log.Debugf("Custom words from redis %s (%s)", cfg.Addr, cfg.Key)
	return cd
}

// loadLexicon builds the startup lexicon. A missing source is fatal unless
// the builtin paradigms are enabled, which then serve alone.
func loadLexicon(ctx context.Context, source string, cache *dictionary.Cache, opts dictionary.BuildOptions, words *customdict.CustomDict, builtin bool) *lexicon.Lexicon {
	if words != nil {
		extra, err := words.All(ctx)
		if err != nil {
			log.Warnf("Failed to read custom words: %v", err)
		}
		opts.Extra = extra
	}

	lex, fromCache, err := dictionary.LoadOrBuild(source, cache, opts)
	if err == nil {
		log.Debugf("Lexicon ready: %d words (cached: %v)", lex.Len(), fromCache)
		return lex
	}
	if !builtin || !errors.Is(err, dictionary.ErrSourceUnavailable) {
		log.Print("Did you forget to point -data at a paradigm directory?")
		log.Fatalf("Failed to load lexicon: %v", err)
	}
	log.Warnf("Paradigm source unavailable, serving builtin paradigms only: %v", err)
	return dictionary.BuildLexicon(paradigm.Builtin(), opts.Extra)
}

func printVersion() {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportCaller:    false,
		ReportTimestamp: false,
		Prefix:          "",
	})

	styles := log.DefaultStyles()
	styles.Values["version"] = lipgloss.NewStyle().Bold(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"}).
		Background(lipgloss.AdaptiveColor{Light: "#f2e9e1", Dark: "#26233a"})
	styles.Values["gh"] = lipgloss.NewStyle().Italic(true).
		Foreground(lipgloss.AdaptiveColor{Light: "#575279", Dark: "#e0def4"})
	logger.SetStyles(styles)

	logger.Print("")
	logger.Print("[ PadaServe ] Kannada spell checking from inflection paradigms")
	logger.Print("", "version", Version)
	logger.Print("")
	logger.Print("use -h or --help to see available options")
	logger.Print("Github Repo", "gh", gh)
}

// showStartupInfo displays some basic info about the init process.
func showStartupInfo(source string, store *lexicon.Store, listen string) {
	pid := os.Getpid()
	currentLevel := log.GetLevel()
	log.SetLevel(log.InfoLevel)

	lex, gen := store.Snapshot()
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, " PadaServe ")
	fmt.Fprintln(os.Stderr, "===========")
	log.Infof("Version: %s", Version)
	log.Infof("Process ID: [ %d ]", pid)
	log.Infof("source: ( %s )", source)
	log.Infof("lexicon: %d words, generation %d", lex.Len(), gen)
	log.Infof("listening on: %s", listen)
	log.Info("status: ready")
	fmt.Fprintln(os.Stderr, "===========")
	fmt.Fprintln(os.Stderr, "Press Ctrl+C to exit")

	log.SetLevel(currentLevel)
}
