package main

import (
	"flag"
	"log"

	"bunker/internal/config"
	"bunker/internal/db"
)

func main() {
	filePath := flag.String("file", "cards.csv", "path to card library csv (category,text[,weight[,detail[,kind]]])")
	flag.Parse()

	if err := config.LoadDotEnv(".env"); err != nil {
		log.Printf("failed to load .env: %v", err)
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}
	if err := db.Migrate(conn); err != nil {
		log.Fatalf("database migration failed: %v", err)
	}

	loaded, err := db.LoadCardLibrary(conn, *filePath)
	if err != nil {
		log.Fatalf("failed to load cards after %d rows: %v", loaded, err)
	}
	log.Printf("loaded cards count=%d file=%s", loaded, *filePath)
}
