package main

import (
	"flag"
	"log"

	"github.com/example/pujapath/internal/config"
	"github.com/example/pujapath/internal/database"
	"github.com/example/pujapath/internal/seed"
)

func main() {
	reset := flag.Bool("reset", false, "wipe the catalog tables before seeding")
	flag.Parse()

	cfg := config.Load()
	db := database.Connect(cfg.DatabaseURL)

	if err := seed.Run(db, *reset); err != nil {
		log.Fatalf("seed failed: %v", err)
	}

	log.Println("seed complete")
}
