package corpus

import (
	"errors"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// ErrNotFound is returned when a recognized name maps to no in-corpus
// character. Callers treat this as a normal miss, not a failure.
var ErrNotFound = errors.New("character not found in corpus")

// specialSuffix overrides the containment heuristic for characters whose
// canonical identifier suffix diverges from any natural transliteration of
// their display name. Keys are cleaned aliases, values are exact suffixes.
// Checked after containment, so an entry here always wins.
var specialSuffix = map[string]string{
	"texas":   "txsi",
	"德克萨斯":    "txsi",
	"exusiai": "angel",
	"能天使":     "angel",
}

// Resolve maps an arbitrary recognized name string to a canonical character
// identity. Matching is deliberately precision-first: exact display name,
// then case-insensitive English alias, then substring containment against the
// identifier suffix, then the static override table. No edit-distance
// matching — a wrong match silently picks the wrong voice.
func (c *Corpus) Resolve(raw string) (Identity, error) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return Identity{}, ErrNotFound
	}

	// Exact match on the Chinese display name (case-sensitive).
	for _, op := range c.operators {
		if op.chineseName == name {
			return c.identityFor(op)
		}
	}

	// Case-insensitive exact match on the English alias.
	folded := normalizeName(name)
	for _, op := range c.operators {
		if normalizeName(op.englishName) == folded {
			return c.identityFor(op)
		}
	}

	// No roster entry: try the recognized string directly against the
	// identifier suffixes. This covers inputs that already look like an
	// internal name ("silverash") or a partial of one.
	if id := c.charIDForAlias(name); id != "" {
		return c.identityForCharID(id), nil
	}

	return Identity{}, ErrNotFound
}

// identityFor resolves a roster entry to its corpus identifier via the
// English alias, falling back to the Chinese name for entries whose English
// column still carries the Chinese name.
func (c *Corpus) identityFor(op operator) (Identity, error) {
	id := c.charIDForAlias(op.englishName)
	if id == "" {
		id = c.charIDForAlias(op.chineseName)
	}
	if id == "" {
		return Identity{}, ErrNotFound
	}
	return Identity{CharID: id, Name: op.chineseName, EnglishName: op.englishName}, nil
}

func (c *Corpus) identityForCharID(id string) Identity {
	ident := Identity{CharID: id}
	suffix := charIDSuffix(id)
	for _, op := range c.operators {
		if aliasKey(op.englishName) == suffix {
			ident.Name = op.chineseName
			ident.EnglishName = op.englishName
			break
		}
	}
	return ident
}

// charIDForAlias finds the corpus identifier whose suffix matches the alias,
// by bidirectional substring containment over the cleaned forms. The override
// table is consulted last and corrects the containment answer when present.
func (c *Corpus) charIDForAlias(alias string) string {
	key := aliasKey(alias)
	if key == "" {
		return ""
	}

	match := ""
	for _, id := range c.charIDs { // sorted: first hit is deterministic
		suffix := charIDSuffix(id)
		if suffix == "" {
			continue
		}
		if strings.Contains(suffix, key) || strings.Contains(key, suffix) {
			match = id
			break
		}
	}

	if override, ok := specialSuffix[key]; ok {
		for _, id := range c.charIDs {
			if charIDSuffix(id) == override {
				return id
			}
		}
	}

	return match
}

// charIDSuffix strips the "char_NNN_" prefix pattern from an internal
// identifier, e.g. "char_201_silverash" -> "silverash".
func charIDSuffix(id string) string {
	parts := strings.SplitN(id, "_", 3)
	return strings.ToLower(parts[len(parts)-1])
}

// normalizeName folds width variants (full-width Latin from OCR), applies
// NFKC, and lower-cases.
func normalizeName(s string) string {
	s = width.Fold.String(s)
	s = norm.NFKC.String(s)
	return strings.ToLower(strings.TrimSpace(s))
}

// aliasKey is normalizeName plus removal of separator characters, matching
// how identifier suffixes are written ("Projekt Red" -> "projektred").
func aliasKey(s string) string {
	s = normalizeName(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '_', '\'', '.', '·':
			return -1
		}
		return r
	}, s)
}
