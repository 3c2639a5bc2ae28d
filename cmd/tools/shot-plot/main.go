// shot-plot renders a stored or exported shot trajectory as a
// lane-shaped PNG. The shot comes either from the shots database
// (-db/-shot) or from a JSON file holding a sample array (-in).
package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/lanetrax/shotmetrics/internal/analysis"
	"github.com/lanetrax/shotmetrics/internal/laneplot"
	"github.com/lanetrax/shotmetrics/internal/shotdb"
	"github.com/lanetrax/shotmetrics/internal/track"
)

var (
	dbPath = flag.String("db", "", "Path to the sqlite database")
	shotID = flag.String("shot", "", "Shot ID to plot (requires -db)")
	inPath = flag.String("in", "", "JSON file with a sample array (alternative to -db)")
	out    = flag.String("out", "shot.png", "Output PNG path")
)

func main() {
	flag.Parse()

	var (
		samples []track.Sample
		title   string
		err     error
	)
	switch {
	case *inPath != "":
		samples, err = loadSamplesFile(*inPath)
		title = *inPath
	case *dbPath != "" && *shotID != "":
		samples, err = loadSamplesDB(*dbPath, *shotID)
		title = *shotID
	default:
		log.Fatal("either -in, or -db together with -shot, is required")
	}
	if err != nil {
		log.Fatalf("failed to load shot: %v", err)
	}

	bp := analysis.FindBreakpoint(samples)

	if err := laneplot.RenderShotPNG(samples, bp, title, *out); err != nil {
		log.Fatalf("failed to render plot: %v", err)
	}
	log.Printf("wrote %s (%d samples, breakpoint found=%v)", *out, len(samples), bp.Found)
}

func loadSamplesFile(path string) ([]track.Sample, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var samples []track.Sample
	if err := json.Unmarshal(data, &samples); err != nil {
		return nil, err
	}
	return samples, nil
}

func loadSamplesDB(path, shotID string) ([]track.Sample, error) {
	db, err := shotdb.OpenShotDB(path)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	shot, err := db.ShotByID(shotID)
	if err != nil {
		return nil, err
	}
	return shot.TrajectorySamples()
}
