package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/slotecs/slotecs/internal/config"
	"github.com/slotecs/slotecs/internal/data"
	"github.com/slotecs/slotecs/internal/scripting"
	"github.com/slotecs/slotecs/internal/system"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load config
	cfgPath := "config/slotecs.toml"
	if p := os.Getenv("SLOTECS_CONFIG"); p != "" {
		cfgPath = p
	}
	cfg, err := config.LoadOrDefault(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	// 2. Init logger
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	printBanner()

	// 3. Registry self-check on a scratch registry
	printSection("registry")
	if err := runScenario(log); err != nil {
		return fmt.Errorf("scenario: %w", err)
	}
	printOK("foo/bar scenario passed")

	// 4. Build the world, load data and scripts
	g, err := newGame(cfg, log)
	if err != nil {
		return err
	}
	defer g.Close()
	printSection("world")
	printStat("capacity", g.world.Registry().Capacity())
	printStat("component kinds", g.world.Registry().KindCount())
	printStat("prefabs", g.spawner.Table().Count())
	printStat("systems", g.runner.Len())
	printOK("lua engine ready")
	fmt.Println()

	// 5. Boot spawns
	for _, name := range cfg.Data.Spawn {
		if _, err := g.spawner.Spawn(name); err != nil {
			return fmt.Errorf("boot spawn: %w", err)
		}
	}
	printStat("entities", g.world.Registry().Len())
	fmt.Println()

	// 6. Optional hot reload
	var reloads <-chan string
	var watchErrs <-chan error
	if cfg.Data.Watch {
		w, err := data.NewWatcher(watchDirs(cfg.Data)...)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		defer w.Close()
		reloads, watchErrs = w.Events, w.Errors
		printOK("watching prefabs and scripts")
	}

	// 7. Start game loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Game.TickRate)
	defer ticker.Stop()

	printSection("running")
	printReady(fmt.Sprintf("game loop (tick: %s)", cfg.Game.TickRate))
	fmt.Println()

	for {
		select {
		case <-ticker.C:
			g.runner.Tick(cfg.Game.TickRate)
			if cfg.Game.Ticks > 0 && g.runner.Ticks() >= uint64(cfg.Game.Ticks) {
				log.Info("tick budget reached",
					zap.Uint64("ticks", g.runner.Ticks()),
					zap.Int("entities", g.world.Registry().Len()))
				return nil
			}
		case path := <-reloads:
			reload(path, cfg.Data, g.spawner, g.engine, log)
		case err := <-watchErrs:
			log.Warn("watcher error", zap.Error(err))
		case sig := <-shutdownCh:
			log.Info("shutdown signal", zap.String("signal", sig.String()))
			return nil
		}
	}
}

// watchDirs lists the existing directories holding prefabs and scripts.
func watchDirs(cfg config.DataConfig) []string {
	var dirs []string
	for _, dir := range []string{filepath.Dir(cfg.PrefabFile), cfg.ScriptsDir} {
		if dir == "" || slices.Contains(dirs, dir) {
			continue
		}
		if st, err := os.Stat(dir); err != nil || !st.IsDir() {
			continue
		}
		dirs = append(dirs, dir)
	}
	return dirs
}

// reload applies a changed file. Failed reloads keep the previous state.
func reload(path string, cfg config.DataConfig, spawner *system.Spawner, engine *scripting.Engine, log *zap.Logger) {
	switch {
	case data.IsPrefabFile(path) && filepath.Clean(path) == filepath.Clean(cfg.PrefabFile):
		table, err := data.LoadPrefabTable(path)
		if err != nil {
			log.Warn("prefab reload failed", zap.String("file", path), zap.Error(err))
			return
		}
		spawner.SetTable(table)
		log.Info("prefabs reloaded", zap.Int("count", table.Count()))
	case data.IsScriptFile(path):
		if _, err := os.Stat(path); err != nil {
			return // removed or renamed away
		}
		if err := engine.LoadFile(path); err != nil {
			log.Warn("script reload failed", zap.String("file", path), zap.Error(err))
			return
		}
		log.Info("script reloaded", zap.String("file", path))
	}
}
