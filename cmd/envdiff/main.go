package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/reinhart/envdiff/internal/configuration"
	"github.com/reinhart/envdiff/internal/envfile"
	"github.com/reinhart/envdiff/internal/logger"
	"github.com/reinhart/envdiff/internal/safety"
	"github.com/reinhart/envdiff/internal/session"
	"github.com/reinhart/envdiff/internal/ui"
	"github.com/reinhart/envdiff/internal/watcher"
)

func main() {
	var (
		configPath string
		noWatch    bool
		debounceMs int
		rollback   string
	)

	pflag.StringVarP(&configPath, "config", "c", "", "Path to a config file (default: search standard locations).")
	pflag.BoolVar(&noWatch, "no-watch", false, "Do not react to external file changes.")
	pflag.IntVar(&debounceMs, "debounce", 0, "Debounce window for file change events in milliseconds.")
	pflag.StringVar(&rollback, "rollback", "", "Restore the files from the given snapshot id and exit.")

	pflag.Usage = func() {
		fmt.Println("Usage: envdiff [flags] FILE [FILE...]")
		fmt.Println("\nCompare and reconcile KEY=VALUE files side by side.")
		fmt.Println("\nExample: envdiff .env .env.staging .env.production")
		fmt.Println("\nFlags:")
		pflag.PrintDefaults()
	}

	pflag.Parse()

	cfg, err := configuration.LoadConfig(configPath)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	logger.Init()
	if cfg.Debug {
		logger.DebugMode = true
	}
	if logger.DebugMode {
		f, err := tea.LogToFile("debug.log", "debug")
		if err != nil {
			fmt.Println("fatal: could not open debug.log:", err)
			os.Exit(1)
		}
		defer f.Close()
		logger.SetOutput(f)
		logger.Debug("Logger initialized")
	}

	snapshots, err := safety.NewSnapshotService(cfg.Safety.BackupDir)
	if err != nil {
		fmt.Printf("Warning: failed to initialize snapshot service: %v\n", err)
		snapshots = nil
	}

	if rollback != "" {
		if snapshots == nil {
			fmt.Println("Error: snapshot service unavailable")
			os.Exit(1)
		}
		if err := snapshots.Restore(rollback); err != nil {
			fmt.Printf("Error restoring snapshot %s: %v\n", rollback, err)
			os.Exit(1)
		}
		fmt.Printf("Restored snapshot %s\n", rollback)
		return
	}

	paths := pflag.Args()
	if len(paths) < 1 {
		pflag.Usage()
		os.Exit(1)
	}

	// Absolute paths keep watcher events and loaded files in agreement.
	files := make([]*envfile.File, 0, len(paths))
	for i, p := range paths {
		if abs, err := filepath.Abs(p); err == nil {
			paths[i] = abs
			p = abs
		}
		content, err := os.ReadFile(p)
		if err != nil {
			fmt.Printf("Error reading %s: %v\n", p, err)
			os.Exit(1)
		}
		files = append(files, envfile.Parse(p, string(content)))
	}

	sess := session.New(files)

	var w *watcher.Watcher
	if cfg.Watch.Enabled && !noWatch {
		window := time.Duration(cfg.Watch.DebounceMs) * time.Millisecond
		if debounceMs > 0 {
			window = time.Duration(debounceMs) * time.Millisecond
		}
		w, err = watcher.New(paths, window)
		if err != nil {
			fmt.Printf("Warning: file watching disabled: %v\n", err)
			w = nil
		} else {
			defer w.Close()
		}
	}

	model := ui.NewModel(cfg, sess, w, snapshots)

	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running envdiff: %v\n", err)
		os.Exit(1)
	}
}
