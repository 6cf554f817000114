// README: Loads an OurAirports-style CSV into the airports table used by FAREBOT_AIRPORTS_SOURCE=postgres.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"farebot/internal/infra"
	"farebot/internal/modules/location"
)

func main() {
	csvPath := flag.String("csv", "data/airports.sample.csv", "airports CSV file")
	dsn := flag.String("dsn", os.Getenv("FAREBOT_DB_DSN"), "postgres DSN")
	flag.Parse()

	if *dsn == "" {
		log.Fatal("a DSN is required (-dsn or FAREBOT_DB_DSN)")
	}

	hubs, err := location.LoadFile(*csvPath)
	if err != nil {
		log.Fatal(err)
	}

	ctx := context.Background()
	pool, err := infra.NewDB(ctx, *dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	if err := location.NewStore(pool).Import(ctx, hubs); err != nil {
		log.Fatalf("import: %v", err)
	}
	fmt.Printf("imported %d airports\n", len(hubs))
}
