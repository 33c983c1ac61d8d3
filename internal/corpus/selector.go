package corpus

import (
	"path/filepath"
	"sort"
)

// SelectSamples returns up to limit reference samples for a resolved
// identity, ordered by filename so the choice is deterministic for a fixed
// corpus. Only rows whose audio file is actually present are eligible.
//
// An empty result is a normal outcome (a character without local assets yet),
// distinct from a resolution miss.
func (c *Corpus) SelectSamples(id Identity, limit int) []ReferenceSample {
	if limit <= 0 {
		limit = 1
	}

	var rows []voiceLine
	for _, vl := range c.lines {
		if vl.charID != id.CharID {
			continue
		}
		if _, ok := c.files[vl.filename]; !ok {
			continue
		}
		rows = append(rows, vl)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].filename < rows[j].filename })

	if len(rows) > limit {
		rows = rows[:limit]
	}

	samples := make([]ReferenceSample, 0, len(rows))
	for _, vl := range rows {
		samples = append(samples, ReferenceSample{
			AudioPath:  filepath.Join(c.dir, voicesDir, vl.filename),
			Transcript: vl.text,
		})
	}
	return samples
}
