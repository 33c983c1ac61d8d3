package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/hazuki/autodub/internal/audio"
	"github.com/hazuki/autodub/internal/config"
	"github.com/hazuki/autodub/internal/corpus"
	"github.com/hazuki/autodub/internal/pipeline"
	"github.com/hazuki/autodub/internal/recognize"
	"github.com/hazuki/autodub/internal/tts"
)

// handleSpeak runs one pipeline cycle with the name and text taken from flags
// instead of screen capture. Useful for checking credentials, enrollment, and
// playback without a game on screen.
func handleSpeak(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
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

	texts := map[string]string{
		"name": c.String("name"),
		"text": c.String("text"),
	}
	regions := []recognize.Region{
		recognize.NewRegion("name", recognize.Point{}, recognize.Point{}),
		recognize.NewRegion("text", recognize.Point{}, recognize.Point{}),
	}
	rec := recognize.RecognizerFunc(func(_ context.Context, r recognize.Region) (string, error) {
		return texts[r.Name], nil
	})

	orch := pipeline.New(
		regions,
		recognize.NewAggregator(rec),
		lib,
		client,
		audio.NewExecPlayer(cfg.PlayerCommand),
		pipeline.NewSession(0),
		cfg.AudioDir,
		pipeline.NopStatus{},
	)

	outcome := orch.Run(ctx)
	if outcome != pipeline.OutcomeSpoken {
		return fmt.Errorf("nothing spoken: %s", outcome)
	}
	return nil
}
