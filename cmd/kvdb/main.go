package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"kvdb/pkg/config"
	"kvdb/pkg/store"
)

func main() {
	var (
		configPath = flag.String("config", "kvdb.yaml", "path to the YAML config")
		dbPath     = flag.String("db", "", "database file, overrides db.path")
		memory     = flag.Bool("memory", false, "use an in-memory database and never save")
	)
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	if *dbPath != "" {
		cfg.DB.Path = *dbPath
	}
	if *memory {
		cfg.DB.Path = ""
		cfg.DB.AutoSave = false
	}

	if err := initLogger(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to init logger: %v\n", err)
		os.Exit(1)
	}

	db, err := open(cfg.DB.Path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	sh := newShell(db, cfg.Shell.Prompt, os.Stdout)
	sh.interactive = isTerminal(os.Stdin)

	sh.run(ctx, os.Stdin)

	if cfg.DB.AutoSave && db.Path() != "" {
		if err := db.Save(); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to save database: %v\n", err)
			os.Exit(1)
		}
	}
}

func open(path string) (*store.Database, error) {
	if path == "" {
		return store.Create(), nil
	}
	return store.Construct(path)
}

func isTerminal(f *os.File) bool {
	st, err := f.Stat()
	if err != nil {
		return false
	}
	return st.Mode()&os.ModeCharDevice != 0
}
