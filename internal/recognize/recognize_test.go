package recognize

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyRole(t *testing.T) {
	tests := []struct {
		name string
		want Role
	}{
		{"角色名", RoleCharacterName},
		{"Name Box", RoleCharacterName},
		{"文案", RoleDialogue},
		{"台词区域", RoleDialogue},
		{"对白", RoleDialogue},
		{"dialogue text", RoleDialogue},
		{"区域1", RoleUnclassified},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, classifyRole(tt.name))
		})
	}
}

func TestLoadRegions(t *testing.T) {
	t.Run("roles computed at load", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "regions.json")
		data := `[
			{"name": "角色名", "start": [100, 200], "end": [300, 240]},
			{"name": "文案", "start": [100, 250], "end": [700, 400]}
		]`
		require.NoError(t, os.WriteFile(path, []byte(data), 0644))

		regions, err := LoadRegions(path)
		require.NoError(t, err)
		require.Len(t, regions, 2)

		assert.Equal(t, RoleCharacterName, regions[0].Role)
		assert.Equal(t, Point{X: 100, Y: 200}, regions[0].Start)
		assert.Equal(t, RoleDialogue, regions[1].Role)
	})

	t.Run("missing file means no regions", func(t *testing.T) {
		regions, err := LoadRegions(filepath.Join(t.TempDir(), "absent.json"))
		require.NoError(t, err)
		assert.Empty(t, regions)
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "regions.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := LoadRegions(path)
		assert.Error(t, err)
	})
}

// mapRecognizer returns canned text per region name.
type mapRecognizer struct {
	texts map[string]string
	errs  map[string]error
}

func (m mapRecognizer) Recognize(_ context.Context, r Region) (string, error) {
	if err, ok := m.errs[r.Name]; ok {
		return "", err
	}
	return m.texts[r.Name], nil
}

func TestAggregate(t *testing.T) {
	regions := []Region{
		NewRegion("角色名", Point{}, Point{}),
		NewRegion("文案", Point{}, Point{}),
	}
	ctx := context.Background()

	t.Run("roles and concatenation", func(t *testing.T) {
		agg := NewAggregator(mapRecognizer{texts: map[string]string{"角色名": "A", "文案": "B"}})
		cycle := agg.Aggregate(ctx, regions)

		assert.Equal(t, "A", cycle.Name)
		assert.Equal(t, "B", cycle.Dialogue)
		assert.Equal(t, "A B", cycle.Concatenated, "single space, region order")
	})

	t.Run("empty results leave no empty tokens", func(t *testing.T) {
		agg := NewAggregator(mapRecognizer{texts: map[string]string{"文案": "B"}})
		cycle := agg.Aggregate(ctx, regions)

		assert.Empty(t, cycle.Name)
		assert.Equal(t, "B", cycle.Concatenated, "no leading space for the empty region")
	})

	t.Run("last region with a role wins", func(t *testing.T) {
		doubled := append(regions, NewRegion("名字2", Point{}, Point{}))
		agg := NewAggregator(mapRecognizer{texts: map[string]string{
			"角色名": "first",
			"文案":  "line",
			"名字2": "second",
		}})
		cycle := agg.Aggregate(ctx, doubled)
		assert.Equal(t, "second", cycle.Name)
	})

	t.Run("per-region failure is isolated", func(t *testing.T) {
		agg := NewAggregator(mapRecognizer{
			texts: map[string]string{"文案": "B"},
			errs:  map[string]error{"角色名": errors.New("capture failed")},
		})
		cycle := agg.Aggregate(ctx, regions)

		assert.Empty(t, cycle.Name)
		assert.Equal(t, "B", cycle.Dialogue)
		assert.Equal(t, "B", cycle.Concatenated)
	})

	t.Run("candidates are trimmed, concatenation is not", func(t *testing.T) {
		agg := NewAggregator(mapRecognizer{texts: map[string]string{"角色名": " 阿米娅 ", "文案": "线"}})
		cycle := agg.Aggregate(ctx, regions)
		assert.Equal(t, "阿米娅", cycle.Name)
		assert.Equal(t, " 阿米娅  线", cycle.Concatenated)
	})
}

func TestNewExecRecognizer(t *testing.T) {
	_, err := NewExecRecognizer("")
	assert.Error(t, err)

	rec, err := NewExecRecognizer("echo hello")
	require.NoError(t, err)

	out, err := rec.Recognize(context.Background(), NewRegion("r", Point{X: 1, Y: 2}, Point{X: 3, Y: 4}))
	require.NoError(t, err)
	assert.Equal(t, "hello 1 2 3 4", out)
}
