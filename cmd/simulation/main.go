package main

import (
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"celldivision-sim/internal/simulation"
	"celldivision-sim/internal/visualization"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to a YAML config file (defaults apply when empty)")
		steps      = flag.Int("steps", 0, "number of simulation steps (0 uses the configured default)")
		numCells   = flag.Int("cells", 0, "number of precursor cells (0 uses the configured default)")
		seed       = flag.Int64("seed", 0, "random seed for reproducible runs (0 seeds from the current time)")
		visualize  = flag.Bool("visualize", false, "render the cell layer in a window while the simulation runs")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	cfg := simulation.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = simulation.LoadConfig(*configPath)
		if err != nil {
			log.Fatalf("Error loading config: %v", err)
		}
	}
	if *steps > 0 {
		cfg.Steps = *steps
	}
	if *numCells > 0 {
		cfg.NumCells = *numCells
	}

	opts := []simulation.Option{simulation.WithLogger(logger)}
	if *seed != 0 {
		opts = append(opts, simulation.WithSeed(*seed))
	}

	sim, err := simulation.NewSimulation(cfg, opts...)
	if err != nil {
		log.Fatalf("Error creating simulation: %v", err)
	}

	if err := sim.SeedPopulation(); err != nil {
		log.Fatalf("Error seeding cells: %v", err)
	}

	if *visualize {
		renderer := visualization.NewRenderer(sim, visualization.NewPCAProjector(), cfg.Steps)
		ebiten.SetWindowSize(800, 600)
		ebiten.SetWindowTitle("Cell Growth & Division Simulation")
		if err := ebiten.RunGame(renderer); err != nil {
			log.Fatal(err)
		}
	} else {
		sim.Run(cfg.Steps)
	}

	fmt.Println("Simulation completed successfully!")
}
