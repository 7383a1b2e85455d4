// # cmd/plsqldoc/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"plsqldoc/internal/config"
)

var (
	configPath = flag.String("config", "./plsqldoc.toml", "Path to config file")
	watch      = flag.Bool("watch", false, "Rebuild when source files change")
	serve      = flag.Bool("serve", false, "Serve the generated site over HTTP")
	ui         = flag.Bool("ui", false, "Enable terminal UI mode (implies --watch)")
	rebuild    = flag.Bool("rebuild", false, "Ignore saved build state and parse everything fresh")
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	version    = flag.Bool("version", false, "Print version and exit")
)

const VERSION = "1.0.0"

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("plsqldoc v%s\n", VERSION)
		os.Exit(0)
	}

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	output := os.Stdout
	if *ui {
		// In UI mode, avoid stdout logs corrupting the TUI.
		logPath := resolveLogPath()
		if err := os.MkdirAll(filepath.Dir(logPath), 0700); err != nil {
			fmt.Fprintf(os.Stderr, "warning: failed to create log dir for %s: %v\n", logPath, err)
		} else {
			if fi, err := os.Lstat(logPath); err == nil && (fi.Mode()&os.ModeSymlink) != 0 {
				fmt.Fprintf(os.Stderr, "warning: refusing to write logs to symlink path %s\n", logPath)
			} else {
				f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0600)
				if err == nil {
					output = f
				} else {
					fmt.Fprintf(os.Stderr, "warning: failed to open log file %s: %v\n", logPath, err)
				}
			}
		}
	}

	logger := slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Load config
	cfg, err := config.Load(*configPath)
	if err != nil {
		if *configPath == "./plsqldoc.toml" && os.IsNotExist(err) {
			slog.Info("no config file found, using defaults")
			cfg = config.Default()
		} else {
			slog.Error("failed to load config", "error", err)
			os.Exit(1)
		}
	}

	// A positional argument overrides the configured source directory.
	if flag.NArg() > 0 {
		cfg.Build.SourceDir = flag.Arg(0)
	}

	app, err := NewApp(cfg, *rebuild)
	if err != nil {
		slog.Error("failed to initialize app", "error", err)
		os.Exit(1)
	}
	defer app.Close()

	ctx := context.Background()

	// Initial build
	res, err := app.RunBuild(ctx)
	if err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
	if !*ui {
		app.PrintSummary(res)
	}

	watchMode := *watch || *ui

	if *serve {
		if err := app.StartServer(ctx); err != nil {
			slog.Error("failed to start server", "error", err)
			os.Exit(1)
		}
	}

	if !watchMode && !*serve {
		return
	}

	// Watch mode
	if watchMode {
		if err := app.StartWatcher(); err != nil {
			slog.Error("failed to start watcher", "error", err)
			os.Exit(1)
		}
	}

	if *ui {
		if err := app.RunUI(); err != nil {
			slog.Error("failed to run UI", "error", err)
			os.Exit(1)
		}
	} else {
		// Block forever
		select {}
	}
}

func resolveLogPath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "plsqldoc", "plsqldoc.log")
	}

	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".local", "state", "plsqldoc", "plsqldoc.log")
	}

	return "plsqldoc.log"
}
