package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"

	"github.com/hazuki/autodub/internal/audio"
	"github.com/hazuki/autodub/internal/config"
	"github.com/hazuki/autodub/internal/corpus"
	"github.com/hazuki/autodub/internal/pipeline"
	"github.com/hazuki/autodub/internal/recognize"
	"github.com/hazuki/autodub/internal/tts"
)

func handleRun(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cfg.OCRCommand == "" {
		return fmt.Errorf("no OCR command configured (set AUTODUB_OCR_CMD)")
	}
	recognizer, err := recognize.NewExecRecognizer(cfg.OCRCommand)
	if err != nil {
		return err
	}

	regions, err := recognize.LoadRegions(cfg.RegionsFile)
	if err != nil {
		return fmt.Errorf("failed to load regions: %w", err)
	}
	if len(regions) == 0 {
		return fmt.Errorf("no capture regions in %s", cfg.RegionsFile)
	}

	lib, err := corpus.Load(cfg.CorpusDir)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	client := tts.NewClient(tts.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Format:     cfg.Format,
		SampleRate: cfg.SampleRate,
	})

	orch := pipeline.New(
		regions,
		recognize.NewAggregator(recognizer),
		lib,
		client,
		audio.NewExecPlayer(cfg.PlayerCommand),
		pipeline.NewSession(cfg.Debounce),
		cfg.AudioDir,
		pipeline.ConsoleStatus{Out: os.Stderr},
	)

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Fprintln(os.Stderr, "Press Enter to dub the current screen, 'q' to quit.")

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("Shutting down")
			return nil
		case line, ok := <-lines:
			if !ok || line == "q" {
				log.Info().Msg("Shutting down")
				return nil
			}
			orch.Trigger(ctx)
		}
	}
}
