// Command migrate applies the embedded SQL migrations.
//
//	go run ./cmd/migrate up
//	go run ./cmd/migrate down
package main

import (
	"log"
	"os"

	"github.com/i-himanshu29/Authentication-System/db"
)

func main() {
	direction := "up"
	if len(os.Args) > 1 {
		direction = os.Args[1]
	}

	if err := db.Migrate(os.Getenv("DB_URL"), direction); err != nil {
		log.Fatalf("migrate %s: %v", direction, err)
	}

	log.Printf("migrate %s: done", direction)
}
