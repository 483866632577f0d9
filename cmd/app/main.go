package main

import (
	"context"
	"flag"
	"log"
	"os"

	"tsescan/internal/di"
	"tsescan/pkg/config"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "config file path")
	scanOnce := flag.Bool("scan", false, "run a single scan, print JSON, and exit")
	symbolsLimit := flag.Int("symbols-limit", 0, "scan at most this many configured symbols (0 = all)")
	flag.Parse()

	cfg, err := config.LoadWithEnv(*configPath)
	if err != nil {
		log.Fatalf("config load failed: %v", err)
	}
	if *symbolsLimit > 0 && *symbolsLimit < len(cfg.Scanner.Symbols) {
		cfg.Scanner.Symbols = cfg.Scanner.Symbols[:*symbolsLimit]
	}

	app, err := di.InitializeApp(cfg)
	if err != nil {
		log.Fatalf("app initialization failed: %v", err)
	}

	if *scanOnce {
		if err := app.ScanOnce(context.Background()); err != nil {
			log.Printf("scan failed: %v", err)
			os.Exit(1)
		}
		return
	}

	if err := app.Run(); err != nil {
		log.Printf("app error: %v", err)
		os.Exit(1)
	}
}
