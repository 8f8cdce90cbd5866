package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"github.com/go-logr/stdr"

	"github.com/hailam/chesscore/internal/engine"
	"github.com/hailam/chesscore/internal/uci"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	depth      = flag.Int("depth", engine.DefaultDepth, "default search depth in plies")
	algorithm  = flag.String("algorithm", "negamax", "search algorithm: negamax or minimax")
	verbosity  = flag.Int("v", 0, "log verbosity (logs go to stderr)")
)

func main() {
	flag.Parse()

	// UCI owns stdout; diagnostics go to stderr.
	stdr.SetVerbosity(*verbosity)
	logger := stdr.New(log.New(os.Stderr, "", log.LstdFlags))

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		logger.Info("CPU profiling enabled", "path", profilePath)
	}

	alg, err := engine.ParseAlgorithm(*algorithm)
	if err != nil {
		log.Fatal(err)
	}
	eng := engine.New(engine.Config{Depth: *depth, Algorithm: alg}, engine.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	// Create and run UCI protocol handler
	protocol := uci.New(eng, logger)
	if err := protocol.Run(ctx, os.Stdin, os.Stdout); err != nil && ctx.Err() == nil {
		logger.Error(err, "uci loop failed")
		os.Exit(1)
	}
}
