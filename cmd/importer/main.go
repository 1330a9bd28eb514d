package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"verifiable-media-backend/internal/common/config"
	"verifiable-media-backend/internal/common/logger"
	"verifiable-media-backend/internal/features/asset/importer"
)

// importer submits a signed metadata hash to the asset API and waits until
// the imported video is playable, failed or timed out.
func main() {
	hash := flag.String("hash", "", "IPFS hash of the signed video metadata")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.ServiceName+"-importer", cfg.Debug)

	if *hash == "" {
		logger.Fatal().Msg("-hash is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	imp := importer.New(importer.NewHTTPAPI(cfg.Import.APIURL), importer.Config{
		PollInterval: cfg.Import.PollInterval,
		MaxAttempts:  cfg.Import.MaxAttempts,
		Deadline:     cfg.Import.Deadline,
	})

	job, err := imp.Run(ctx, *hash, func(j importer.Job) {
		logger.Info().
			Str("job_id", j.ID).
			Str("asset_id", j.AssetID).
			Str("status", string(j.Status)).
			Int("attempts", j.Attempts).
			Msg("Import progress")
	})

	out, _ := json.MarshalIndent(job, "", "  ")
	fmt.Println(string(out))
	if err != nil {
		logger.Error().Err(err).Str("job_id", job.ID).Msg("Import did not complete")
		os.Exit(1)
	}
}
