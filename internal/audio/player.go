// Package audio plays synthesized clips. Playback is fire-and-forget: a
// failure is logged and never propagates into the pipeline.
package audio

import (
	"fmt"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"
)

// Player plays an audio file asynchronously.
type Player interface {
	Play(path string) error
}

// ExecPlayer plays through whatever system player is installed. An explicit
// command overrides probing.
type ExecPlayer struct {
	command string
	args    []string
}

// NewExecPlayer creates a player. commandLine may be empty, in which case a
// player is probed at play time (afplay on macOS, aplay/paplay on Linux,
// ffplay as a cross-platform fallback).
func NewExecPlayer(commandLine string) *ExecPlayer {
	fields := strings.Fields(commandLine)
	p := &ExecPlayer{}
	if len(fields) > 0 {
		p.command = fields[0]
		p.args = fields[1:]
	}
	return p
}

// Play starts playback and returns immediately. The process is reaped in the
// background.
func (p *ExecPlayer) Play(path string) error {
	cmd, err := p.buildCommand(path)
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start audio player: %w", err)
	}

	go func() {
		if err := cmd.Wait(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("Audio playback exited with error")
		}
	}()

	return nil
}

func (p *ExecPlayer) buildCommand(path string) (*exec.Cmd, error) {
	if p.command != "" {
		return exec.Command(p.command, append(append([]string{}, p.args...), path)...), nil
	}

	switch {
	case isCommandAvailable("afplay"):
		return exec.Command("afplay", path), nil
	case isCommandAvailable("aplay"):
		return exec.Command("aplay", path), nil
	case isCommandAvailable("paplay"):
		return exec.Command("paplay", path), nil
	case isCommandAvailable("ffplay"):
		return exec.Command("ffplay", "-nodisp", "-autoexit", path), nil
	}
	return nil, fmt.Errorf("no audio player found")
}

func isCommandAvailable(cmd string) bool {
	_, err := exec.LookPath(cmd)
	return err == nil
}
