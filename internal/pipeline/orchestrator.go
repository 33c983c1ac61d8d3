// Package pipeline sequences one trigger into recognition, resolution,
// enrollment, synthesis, and playback. Every missing-data path exits back to
// idle; nothing in a cycle can take the process down.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/hazuki/autodub/internal/audio"
	"github.com/hazuki/autodub/internal/corpus"
	"github.com/hazuki/autodub/internal/recognize"
)

// Outcome names how a cycle ended. Anything other than OutcomeSpoken is a
// normal early exit, not a failure of the process.
type Outcome string

const (
	OutcomeSpoken       Outcome = "spoken"
	OutcomeNoRegions    Outcome = "no regions configured"
	OutcomeNoText       Outcome = "nothing recognized"
	OutcomeNoDialogue   Outcome = "no character or dialogue"
	OutcomeResolverMiss Outcome = "character not in corpus"
	OutcomeNoSamples    Outcome = "no reference samples"
	OutcomeDisabled     Outcome = "synthesis disabled"
	OutcomeUnavailable  Outcome = "synthesis unavailable"
)

// Library resolves names and picks reference samples. *corpus.Corpus
// implements it.
type Library interface {
	Resolve(name string) (corpus.Identity, error)
	SelectSamples(id corpus.Identity, limit int) []corpus.ReferenceSample
}

// Synthesizer is the remote voice service. *tts.Client implements it.
type Synthesizer interface {
	Disabled() bool
	EnsureVoice(ctx context.Context, identityKey string, sample corpus.ReferenceSample) (string, error)
	Synthesize(ctx context.Context, text, voiceURI string) ([]byte, error)
}

// Orchestrator drives the pipeline. One cycle runs at a time; concurrent
// triggers are dropped, not queued.
type Orchestrator struct {
	regions []recognize.Region
	agg     *recognize.Aggregator
	library Library
	synth   Synthesizer
	player  audio.Player
	status  StatusReporter
	session *Session

	audioDir string

	// single-flight gate; buffered slot works as a non-blocking semaphore
	running chan struct{}
}

// New wires an orchestrator. status may be nil.
func New(regions []recognize.Region, agg *recognize.Aggregator, library Library, synth Synthesizer, player audio.Player, session *Session, audioDir string, status StatusReporter) *Orchestrator {
	if status == nil {
		status = NopStatus{}
	}
	return &Orchestrator{
		regions:  regions,
		agg:      agg,
		library:  library,
		synth:    synth,
		player:   player,
		status:   status,
		session:  session,
		audioDir: audioDir,
		running:  make(chan struct{}, 1),
	}
}

// Trigger handles one trigger event. It returns false when the event is
// debounced or a cycle is already in flight; otherwise the cycle runs on its
// own goroutine so the trigger source is never blocked behind network or
// playback.
func (o *Orchestrator) Trigger(ctx context.Context) bool {
	if !o.session.TryBegin(time.Now()) {
		log.Debug().Msg("Trigger debounced")
		return false
	}
	select {
	case o.running <- struct{}{}:
	default:
		log.Debug().Msg("Trigger dropped, cycle already in flight")
		return false
	}

	go func() {
		defer func() { <-o.running }()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Interface("panic", r).Msg("Pipeline cycle panicked, returning to idle")
				o.status.Report(PhaseIdle)
			}
		}()
		outcome := o.Run(ctx)
		log.Info().Str("outcome", string(outcome)).Msg("Cycle finished")
	}()
	return true
}

// Run executes one full cycle synchronously and reports the outcome. Early
// exits are ordinary outcomes; the status indicator always reverts to idle.
func (o *Orchestrator) Run(ctx context.Context) Outcome {
	cycleID := uuid.NewString()[:8]
	logger := log.With().Str("cycle", cycleID).Logger()
	defer o.status.Report(PhaseIdle)

	if len(o.regions) == 0 {
		logger.Warn().Msg("No capture regions configured")
		return OutcomeNoRegions
	}

	o.status.Report(PhaseRecognizing)
	cycle := o.agg.Aggregate(ctx, o.regions)
	if cycle.Concatenated == "" {
		logger.Info().Msg("Recognition yielded no text")
		return OutcomeNoText
	}
	logger.Info().Str("text", cycle.Concatenated).Msg("Recognized")

	name := o.session.FallbackName(cycle.Name)
	if name != cycle.Name && name != "" {
		logger.Info().Str("name", name).Msg("No character name this cycle, reusing last known")
	}
	if name == "" || cycle.Dialogue == "" {
		return OutcomeNoDialogue
	}

	o.status.Report(PhaseResolving)
	ident, err := o.library.Resolve(name)
	if errors.Is(err, corpus.ErrNotFound) {
		logger.Info().Str("name", name).Msg("Character not found in corpus")
		return OutcomeResolverMiss
	}
	if err != nil {
		logger.Warn().Err(err).Msg("Resolution failed")
		return OutcomeResolverMiss
	}

	samples := o.library.SelectSamples(ident, 1)
	if len(samples) == 0 {
		logger.Info().Str("char_id", ident.CharID).Msg("Character has no reference samples yet")
		return OutcomeNoSamples
	}

	if o.synth.Disabled() {
		return OutcomeDisabled
	}

	o.status.Report(PhaseEnrolling)
	voiceURI, err := o.synth.EnsureVoice(ctx, ident.CharID, samples[0])
	if err != nil {
		// Degrade to the default voice; the next cycle retries enrollment
		// because failures are never cached.
		logger.Warn().Err(err).Msg("Enrollment unavailable, using default voice")
		voiceURI = ""
	}

	o.status.Report(PhaseSynthesizing)
	audioBytes, err := o.synth.Synthesize(ctx, cycle.Dialogue, voiceURI)
	if err != nil || len(audioBytes) == 0 {
		logger.Warn().Err(err).Msg("Synthesis unavailable")
		return OutcomeUnavailable
	}

	o.status.Report(PhasePlaying)
	path, err := o.writeClip(audioBytes)
	if err != nil {
		logger.Warn().Err(err).Msg("Failed to persist audio clip")
		return OutcomeUnavailable
	}
	if err := o.player.Play(path); err != nil {
		logger.Warn().Err(err).Msg("Playback failed")
	}

	return OutcomeSpoken
}

func (o *Orchestrator) writeClip(data []byte) (string, error) {
	if err := os.MkdirAll(o.audioDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create audio dir: %w", err)
	}
	path := filepath.Join(o.audioDir, fmt.Sprintf("tts_%s.wav", time.Now().Format("20060102_150405.000")))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audio clip: %w", err)
	}
	return path, nil
}
