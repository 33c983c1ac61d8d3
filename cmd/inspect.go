package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/hazuki/autodub/internal/config"
	"github.com/hazuki/autodub/internal/corpus"
	"github.com/hazuki/autodub/internal/recognize"
	"github.com/hazuki/autodub/internal/tts"
)

func handleResolve(ctx context.Context, c *cli.Command) error {
	name := c.Args().Get(0)
	if name == "" {
		return fmt.Errorf("character name is required")
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	lib, err := corpus.Load(cfg.CorpusDir)
	if err != nil {
		return fmt.Errorf("failed to load corpus: %w", err)
	}

	ident, err := lib.Resolve(name)
	if errors.Is(err, corpus.ErrNotFound) {
		fmt.Printf("%s '%s' does not match any corpus character\n", color.YellowString("✗"), name)
		return nil
	}
	if err != nil {
		return err
	}

	samples := lib.SelectSamples(ident, 5)
	fmt.Printf("%s %s resolves to %s", color.GreenString("✓"), name, color.CyanString(ident.CharID))
	if ident.Name != "" || ident.EnglishName != "" {
		fmt.Printf(" (%s / %s)", ident.Name, ident.EnglishName)
	}
	fmt.Println()
	if len(samples) == 0 {
		fmt.Println("  no reference audio available, synthesis would use the default voice")
		return nil
	}
	fmt.Printf("  %d reference sample(s), first: %s\n", len(samples), samples[0].AudioPath)
	return nil
}

func handleVoices(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	client := tts.NewClient(tts.Options{
		BaseURL:    cfg.BaseURL,
		APIKey:     cfg.APIKey,
		Model:      cfg.Model,
		Format:     cfg.Format,
		SampleRate: cfg.SampleRate,
	})
	if client.Disabled() {
		return fmt.Errorf("no API key configured (set TTS_SERVICE_API_KEY)")
	}

	voices, err := client.ListVoices(ctx)
	if err != nil {
		return fmt.Errorf("failed to list voices: %w", err)
	}

	if len(voices) == 0 {
		fmt.Println("No voices enrolled yet")
		return nil
	}

	fmt.Printf("Enrolled voices (%d):\n", len(voices))
	for _, v := range voices {
		fmt.Printf("  %s  %s\n", v.CustomName, v.URI)
	}
	return nil
}

func handleRegions(ctx context.Context, c *cli.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	regions, err := recognize.LoadRegions(cfg.RegionsFile)
	if err != nil {
		return fmt.Errorf("failed to load regions: %w", err)
	}
	if len(regions) == 0 {
		fmt.Printf("No capture regions in %s\n", cfg.RegionsFile)
		return nil
	}

	fmt.Printf("Capture regions from %s:\n", cfg.RegionsFile)
	for _, r := range regions {
		fmt.Printf("  %-20s (%4d,%4d)-(%4d,%4d)  %s\n", r.Name, r.Start.X, r.Start.Y, r.End.X, r.End.Y, r.Role)
	}
	return nil
}
