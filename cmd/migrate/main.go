package main

import (
	"log"
	"os"
	"path/filepath"
	"sort"

	"aqsit-be/internal/config"
	"aqsit-be/internal/db"
)

// Applies the SQL files in migrations/ in lexical order.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}
	if direction != "up" && direction != "down" {
		log.Fatalf("unknown direction %q, want up or down", direction)
	}

	cfg := config.LoadConfig()
	conn := db.InitDB(cfg)
	defer conn.Close()

	files, err := filepath.Glob(filepath.Join("migrations", "*."+direction+".sql"))
	if err != nil {
		log.Fatalf("failed to list migrations: %v", err)
	}
	sort.Strings(files)
	if direction == "down" {
		// Down migrations run newest first.
		for i, j := 0, len(files)-1; i < j; i, j = i+1, j-1 {
			files[i], files[j] = files[j], files[i]
		}
	}

	for _, file := range files {
		sqlBytes, err := os.ReadFile(file)
		if err != nil {
			log.Fatalf("failed to read %s: %v", file, err)
		}
		if _, err := conn.Exec(string(sqlBytes)); err != nil {
			log.Fatalf("migration %s failed: %v", file, err)
		}
		log.Printf("applied %s", file)
	}

	log.Printf("migrations complete (%d files, %s)", len(files), direction)
}
