package recognize

import (
	"context"
	"strings"

	"github.com/rs/zerolog/log"
)

// Recognizer reads the text inside one capture region. Implementations may
// return an empty string (nothing readable) or an error (recognition failed
// for this region only).
type Recognizer interface {
	Recognize(ctx context.Context, region Region) (string, error)
}

// RecognizerFunc adapts a function to the Recognizer interface.
type RecognizerFunc func(ctx context.Context, region Region) (string, error)

func (f RecognizerFunc) Recognize(ctx context.Context, region Region) (string, error) {
	return f(ctx, region)
}

// Cycle is the outcome of one recognition pass over all regions.
type Cycle struct {
	Name         string // character-name candidate, possibly empty
	Dialogue     string // dialogue candidate, possibly empty
	Concatenated string // all non-empty region texts, space-joined
}

// Aggregator folds per-region recognition results into a Cycle.
type Aggregator struct {
	rec Recognizer
}

func NewAggregator(rec Recognizer) *Aggregator {
	return &Aggregator{rec: rec}
}

// Aggregate runs recognition over the regions in order. A failure in one
// region is logged and skipped; the others still contribute. For each role,
// the last region holding it wins.
func (a *Aggregator) Aggregate(ctx context.Context, regions []Region) Cycle {
	var cycle Cycle
	var parts []string

	for _, region := range regions {
		text, err := a.rec.Recognize(ctx, region)
		if err != nil {
			log.Warn().Err(err).Str("region", region.Name).Msg("Recognition failed for region")
			continue
		}
		if text == "" {
			log.Debug().Str("region", region.Name).Msg("Region yielded no text")
			continue
		}

		parts = append(parts, text)

		trimmed := strings.TrimSpace(text)
		switch region.Role {
		case RoleCharacterName:
			cycle.Name = trimmed
		case RoleDialogue:
			cycle.Dialogue = trimmed
		}
	}

	cycle.Concatenated = strings.Join(parts, " ")
	return cycle
}
