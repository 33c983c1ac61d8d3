// Package recognize turns per-region OCR output into a single recognition
// cycle: a character-name candidate, a dialogue candidate, and the
// concatenated text. OCR itself is an external collaborator behind the
// Recognizer interface.
package recognize

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
)

// Role classifies what a capture region contains. It is computed once when
// regions are loaded, not re-derived per cycle.
type Role int

const (
	RoleUnclassified Role = iota
	RoleCharacterName
	RoleDialogue
)

func (r Role) String() string {
	switch r {
	case RoleCharacterName:
		return "character-name"
	case RoleDialogue:
		return "dialogue"
	default:
		return "unclassified"
	}
}

// Point is a screen coordinate.
type Point struct {
	X, Y int
}

// Region is one capture rectangle. The settings UI owns the file format;
// this side only reads it.
type Region struct {
	Name  string
	Start Point
	End   Point
	Role  Role
}

type regionJSON struct {
	Name  string `json:"name"`
	Start [2]int `json:"start"`
	End   [2]int `json:"end"`
}

var dialogueKeywords = []string{"文案", "台词", "对白"}

// classifyRole infers the region's role from its user-chosen name. Naming
// convention: 名/name marks the character-name region, 文案/台词/对白/text
// marks dialogue.
func classifyRole(name string) Role {
	lower := strings.ToLower(name)
	if strings.Contains(name, "名") || strings.Contains(lower, "name") {
		return RoleCharacterName
	}
	for _, kw := range dialogueKeywords {
		if strings.Contains(name, kw) {
			return RoleDialogue
		}
	}
	if strings.Contains(lower, "text") {
		return RoleDialogue
	}
	return RoleUnclassified
}

// NewRegion builds a region with its role tag.
func NewRegion(name string, start, end Point) Region {
	return Region{Name: name, Start: start, End: end, Role: classifyRole(name)}
}

// LoadRegions reads the persisted region list. A missing file means no
// regions are configured yet and is not an error.
func LoadRegions(path string) ([]Region, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read regions file: %w", err)
	}

	var raw []regionJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse regions file %s: %w", path, err)
	}

	regions := make([]Region, 0, len(raw))
	for _, r := range raw {
		regions = append(regions, NewRegion(
			r.Name,
			Point{X: r.Start[0], Y: r.Start[1]},
			Point{X: r.End[0], Y: r.End[1]},
		))
	}
	return regions, nil
}
