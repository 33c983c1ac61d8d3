package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v3"
)

var (
	version  = "dev"
	revision = "none"
)

func main() {
	// Setup logger
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	app := &cli.Command{
		Name:  "autodub",
		Usage: "On-screen dialogue dubbing with voice-cloned speech synthesis",
		Description: `autodub reads character dialogue off the screen, matches the speaker
against the reference corpus, and speaks the line with a cloned voice.
Reference voices are enrolled with the synthesis service on first use and
reused afterwards.`,
		Version: fmt.Sprintf("%s (rev: %s)", version, revision),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"V"},
				Usage:   "Enable verbose logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "Watch for triggers on stdin and dub the configured screen regions",
				Action: handleRun,
			},
			{
				Name:   "speak",
				Usage:  "Dub a single line without screen capture",
				Action: handleSpeak,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "name",
						Usage: "Character name (any alias the resolver accepts)",
					},
					&cli.StringFlag{
						Name:     "text",
						Usage:    "Dialogue text to synthesize",
						Required: true,
					},
				},
			},
			{
				Name:      "resolve",
				Usage:     "Show which corpus character a name resolves to",
				Action:    handleResolve,
				ArgsUsage: "<name>",
			},
			{
				Name:   "voices",
				Usage:  "List voices enrolled with the synthesis service",
				Action: handleVoices,
			},
			{
				Name:   "regions",
				Usage:  "Show the configured capture regions and their roles",
				Action: handleRegions,
			},
		},
		Before: func(ctx context.Context, c *cli.Command) error {
			if c.Bool("verbose") {
				zerolog.SetGlobalLevel(zerolog.DebugLevel)
			} else {
				zerolog.SetGlobalLevel(zerolog.InfoLevel)
			}
			return nil
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal().Err(err).Msg("Failed to run application")
	}
}
