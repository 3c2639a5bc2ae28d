// shotmetricsd serves the LaneTrax shot metrics API: it stores
// sessions and shots in sqlite, runs posted trajectories through the
// analysis engine, and exposes the debug chart endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lanetrax/shotmetrics/internal/api"
	"github.com/lanetrax/shotmetrics/internal/config"
	"github.com/lanetrax/shotmetrics/internal/shotdb"
	"github.com/lanetrax/shotmetrics/internal/units"
	"github.com/lanetrax/shotmetrics/internal/version"
)

var (
	listen     = flag.String("listen", ":8080", "Listen address")
	dbPath     = flag.String("db", "shots.db", "Path to the sqlite database")
	configPath = flag.String("config", "", "Path to a tuning config JSON file (defaults to the built-in search path)")
	speedUnits = flag.String("units", units.MPH, "Display units for speeds: "+units.GetValidUnitsString())
)

func main() {
	flag.Parse()

	// `shotmetricsd migrate up|down|version` manages the schema and
	// exits without serving.
	if args := flag.Args(); len(args) > 0 && args[0] == "migrate" {
		runMigrateCommand(args[1:], *dbPath)
		return
	}

	if *listen == "" {
		log.Fatal("Listen address is required")
	}
	if !units.IsValid(*speedUnits) {
		log.Fatalf("Invalid units %q; valid units are: %s", *speedUnits, units.GetValidUnitsString())
	}

	var tuning *config.TuningConfig
	if *configPath != "" {
		var err error
		tuning, err = config.LoadTuningConfig(*configPath)
		if err != nil {
			log.Fatalf("Failed to load tuning config: %v", err)
		}
	} else {
		tuning = config.MustLoadDefaultConfig()
	}

	db, err := shotdb.NewShotDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	mux := api.NewServer(db, tuning, *speedUnits).ServeMux()

	server := &http.Server{
		Addr:    *listen,
		Handler: api.LoggingMiddleware(mux),
	}

	go func() {
		log.Printf("shotmetricsd %s serving on %s (units=%s, db=%s)", version.Version, *listen, *speedUnits, *dbPath)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("shutting down HTTP server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	log.Printf("graceful shutdown complete")
}

func runMigrateCommand(args []string, dbPath string) {
	if len(args) < 1 {
		printMigrateHelp()
		os.Exit(1)
	}

	// Open without schema initialization; migrations own the schema.
	db, err := shotdb.OpenShotDB(dbPath)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	switch args[0] {
	case "up":
		if err := db.MigrateUp(); err != nil {
			log.Fatalf("Migration up failed: %v", err)
		}
		log.Println("all migrations applied")

	case "down":
		if err := db.MigrateDown(); err != nil {
			log.Fatalf("Migration down failed: %v", err)
		}
		log.Println("rolled back one migration")

	case "version":
		version, dirty, err := db.MigrateVersion()
		if err != nil {
			log.Fatalf("Failed to read migration version: %v", err)
		}
		log.Printf("migration version: %d (dirty=%v)", version, dirty)

	case "help":
		printMigrateHelp()

	default:
		fmt.Printf("Unknown migrate action: %s\n\n", args[0])
		printMigrateHelp()
		os.Exit(1)
	}
}

func printMigrateHelp() {
	fmt.Println(`Usage: shotmetricsd [flags] migrate <action>

Actions:
  up       Apply all pending migrations
  down     Roll back the most recent migration
  version  Show the current migration version
  help     Show this help`)
}
