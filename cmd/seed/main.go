// seed initializes a HedgeX database file with the demo fixtures without
// starting the HTTP server.
//
// Usage: go run ./cmd/seed -db=<path> [-reset]
//
// With -reset the database file is removed first, so the fixtures are
// rebuilt from scratch instead of being skipped as already present.
package main

import (
	"flag"
	"log"
	"os"

	"github.com/hedgex/hedgex/backend/internal/database"
)

func main() {
	dbPath := flag.String("db", "./hedgex.db", "path to the SQLite database file")
	reset := flag.Bool("reset", false, "delete the database file before seeding")
	flag.Parse()

	if *reset {
		if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
			log.Fatalf("Failed to remove %s: %v", *dbPath, err)
		}
		log.Printf("Removed %s", *dbPath)
	}

	if err := database.Initialize(*dbPath); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if err := database.Seed(); err != nil {
		log.Fatalf("Failed to seed sample data: %v", err)
	}

	log.Printf("Seeded %s", *dbPath)
}
