// Package corpus provides read-only access to the reference-audio corpus:
// the operator roster, the voice-line table, and the local audio files used
// as voice-cloning samples.
package corpus

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	operatorsFile  = "operators.csv"
	voiceLinesFile = "voicelines.csv"
	voicesDir      = "voices"
)

// Identity is the canonical key for one in-corpus character, independent of
// which alias or display string named it.
type Identity struct {
	CharID      string // corpus identifier, e.g. "char_002_amiya"
	Name        string // Chinese display name
	EnglishName string
}

// ReferenceSample is an (audio, transcript) pair used to enroll a voice.
type ReferenceSample struct {
	AudioPath  string
	Transcript string
}

type operator struct {
	chineseName string
	englishName string
}

type voiceLine struct {
	charID   string
	text     string
	filename string
}

// Corpus is an immutable in-memory index over the reference data. Load it
// once at startup and pass the handle to whoever needs it.
type Corpus struct {
	dir       string
	operators []operator
	lines     []voiceLine
	charIDs   []string            // sorted, deduplicated
	files     map[string]struct{} // basenames present under voices/
}

// Load reads the corpus tables from dir. The voices directory may be missing
// or sparse; samples whose audio is absent are simply never selected.
func Load(dir string) (*Corpus, error) {
	c := &Corpus{dir: dir, files: make(map[string]struct{})}

	ops, err := readCSV(filepath.Join(dir, operatorsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load operator table: %w", err)
	}
	for _, rec := range ops {
		if len(rec) < 2 {
			continue
		}
		c.operators = append(c.operators, operator{
			chineseName: strings.TrimSpace(rec[0]),
			englishName: strings.TrimSpace(rec[1]),
		})
	}

	lines, err := readCSV(filepath.Join(dir, voiceLinesFile))
	if err != nil {
		return nil, fmt.Errorf("failed to load voice-line table: %w", err)
	}
	seen := make(map[string]struct{})
	for _, rec := range lines {
		if len(rec) < 3 {
			continue
		}
		vl := voiceLine{
			charID:   strings.TrimSpace(rec[0]),
			text:     strings.TrimSpace(rec[1]),
			filename: filepath.Base(strings.TrimSpace(rec[2])),
		}
		if vl.charID == "" {
			continue
		}
		c.lines = append(c.lines, vl)
		if _, ok := seen[vl.charID]; !ok {
			seen[vl.charID] = struct{}{}
			c.charIDs = append(c.charIDs, vl.charID)
		}
	}
	sort.Strings(c.charIDs)

	entries, err := os.ReadDir(filepath.Join(dir, voicesDir))
	if err == nil {
		for _, e := range entries {
			if !e.IsDir() {
				c.files[e.Name()] = struct{}{}
			}
		}
	}

	log.Info().
		Int("operators", len(c.operators)).
		Int("voice_lines", len(c.lines)).
		Int("audio_files", len(c.files)).
		Msg("Corpus loaded")

	return c, nil
}

// CharIDs returns the sorted set of canonical identifiers present in the
// voice-line table.
func (c *Corpus) CharIDs() []string {
	return c.charIDs
}

// readCSV reads all records, skipping a header row when one is present.
// The header is detected by its first field ("char_id" or "chinese_name").
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
		}
		if len(out) == 0 && len(rec) > 0 {
			switch strings.TrimSpace(rec[0]) {
			case "char_id", "chinese_name":
				continue
			}
		}
		out = append(out, rec)
	}
	return out, nil
}
