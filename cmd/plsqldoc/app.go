// # cmd/plsqldoc/app.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"plsqldoc/internal/build"
	"plsqldoc/internal/config"
	"plsqldoc/internal/observability"
	"plsqldoc/internal/server"
	"plsqldoc/internal/store"
	"plsqldoc/internal/watcher"
)

type App struct {
	Config  *config.Config
	Builder *build.Builder
	Store   *store.Store

	throttle        *watcher.Throttle
	watcher         *watcher.Watcher
	server          *server.Server
	teaProgram      *tea.Program
	lastResult      *build.Result
	shutdownTracing func(context.Context) error
}

func NewApp(cfg *config.Config, rebuild bool) (*App, error) {
	a := &App{
		Config:   cfg,
		throttle: watcher.NewThrottle(cfg.Watch.Rate, cfg.Watch.Burst),
	}

	if cfg.Store.Enabled {
		st, err := openStore(cfg.Store.Path)
		if err != nil {
			return nil, fmt.Errorf("open build state store: %w", err)
		}
		a.Store = st
	}

	if cfg.Telemetry.Enabled {
		shutdown, err := observability.InitTracing(context.Background(), cfg.Telemetry.Endpoint, VERSION)
		if err != nil {
			slog.Warn("tracing disabled", "error", err)
		} else {
			a.shutdownTracing = shutdown
		}
	}

	b, err := build.New(cfg, a.Store, rebuild)
	if err != nil {
		if a.Store != nil {
			_ = a.Store.Close()
		}
		return nil, err
	}
	a.Builder = b

	return a, nil
}

// openStore opens the build state database. A corrupt database is a
// cache, not data: it is removed and recreated once.
func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err == nil {
		return st, nil
	}
	if !store.IsCorruptError(err) {
		return nil, err
	}

	slog.Warn("build state store corrupt, recreating", "path", path, "error", err)
	if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
		return nil, fmt.Errorf("remove corrupt store: %w", rmErr)
	}
	return store.Open(path)
}

// RunBuild executes one full build pass.
func (a *App) RunBuild(ctx context.Context) (*build.Result, error) {
	res, err := a.Builder.Run(ctx)
	if err != nil {
		return nil, err
	}
	a.lastResult = res
	a.notifyUI(res)
	return res, nil
}

// HandleChanges is the watcher callback: one debounced batch of file
// changes becomes one incremental pass, throttled by the rebuild rate.
func (a *App) HandleChanges(paths []string) {
	slog.Info("detected changes", "count", len(paths))

	if err := a.throttle.Wait(context.Background()); err != nil {
		slog.Warn("rebuild throttle interrupted", "error", err)
		return
	}

	res, err := a.Builder.BuildDocs(context.Background(), paths)
	if err != nil {
		slog.Error("incremental build failed", "error", err)
		return
	}
	a.lastResult = res

	if a.teaProgram == nil {
		a.PrintSummary(res)
	}
	a.notifyUI(res)
}

func (a *App) PrintSummary(res *build.Result) {
	fmt.Println(strings.Repeat("-", 40))
	fmt.Printf("Build: %d parsed, %d skipped, %d objects in %v\n",
		res.Parsed, res.Skipped, res.Objects, res.Duration.Round(time.Millisecond))

	if len(res.Warnings) > 0 {
		fmt.Printf("⚠️  %d WARNINGS:\n", len(res.Warnings))
		for _, w := range res.Warnings {
			fmt.Printf("   %s\n", w)
		}
	} else {
		fmt.Println("✅ No warnings.")
	}

	if res.Unresolved > 0 {
		fmt.Printf("❓ %d UNRESOLVED REFERENCES (%d internal, %d external links)\n",
			res.Unresolved, res.Resolved, res.External)
	} else {
		fmt.Println("✅ All references resolved.")
	}

	fmt.Printf("📄 %d files written.\n", res.Outputs)
	fmt.Println(strings.Repeat("-", 40))
}

func (a *App) StartWatcher() error {
	w, err := watcher.New(
		a.Config.Build.SourceDir,
		a.Config.Watch.Debounce,
		a.Config.Build.Exclude,
		a.HandleChanges,
	)
	if err != nil {
		return err
	}
	a.watcher = w
	return w.Start()
}

func (a *App) StartServer(ctx context.Context) error {
	a.server = server.New(a.Config.Serve.Addr, a.Config.Build.OutputDir, a.healthStatus)
	return a.server.Start(ctx)
}

func (a *App) healthStatus(ctx context.Context) server.Status {
	status := server.Status{
		Status:     "up",
		Timestamp:  time.Now().UTC(),
		Components: make(map[string]string),
	}

	if a.Builder == nil {
		status.Status = "degraded"
		status.Components["index"] = "missing"
	} else {
		ix := a.Builder.Index()
		status.Components["index"] = fmt.Sprintf("ok (%d objects across %d documents)",
			ix.Len(), len(ix.Docs()))
	}

	if a.Store != nil {
		status.Components["store"] = "ok (" + a.Store.Path() + ")"
	} else if a.Config.Store.Enabled {
		status.Status = "degraded"
		status.Components["store"] = "missing but enabled in config"
	}

	if a.watcher != nil {
		status.Components["watcher"] = "ok"
	}

	return status
}

func (a *App) RunUI() error {
	m := initialModel(a.Config.Project.Name)
	p := tea.NewProgram(m, tea.WithAltScreen())
	a.teaProgram = p

	// Push the initial build state once the program is up.
	go func() {
		if a.lastResult != nil {
			a.notifyUI(a.lastResult)
		}
	}()

	_, err := p.Run()
	return err
}

func (a *App) notifyUI(res *build.Result) {
	if a.teaProgram == nil {
		return
	}
	a.teaProgram.Send(updateMsg{
		warnings:   res.Warnings,
		unresolved: res.Unresolved,
		objects:    res.Objects,
		outputs:    res.Outputs,
	})
}

func (a *App) Close() {
	if a.watcher != nil {
		_ = a.watcher.Close()
	}
	if a.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		_ = a.server.Stop(ctx)
		cancel()
	}
	if a.Store != nil {
		_ = a.Store.Close()
	}
	if a.shutdownTracing != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		if err := a.shutdownTracing(ctx); err != nil {
			slog.Warn("tracing shutdown failed", "error", err)
		}
		cancel()
	}
}
