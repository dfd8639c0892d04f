package main

import (
	"flag"
	"log"

	"examdrill/internal/config"
	"examdrill/internal/database"
)

func main() {
	dir := flag.String("dir", "database/migrations", "directory holding migration files")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := database.RunMigrations(cfg.GetDSN(), *dir); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	log.Println("Migrations applied")
}
