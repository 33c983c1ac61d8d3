package corpus

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestCorpus(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	operators := "chinese_name,english_name\n" +
		"阿米娅,Amiya\n" +
		"银灰,SilverAsh\n" +
		"德克萨斯,Texas\n" +
		"能天使,Exusiai\n" +
		"拉普兰德,Lappland\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "operators.csv"), []byte(operators), 0644))

	lines := "char_id,voice_text,filename\n" +
		"char_002_amiya,博士，您的体温有些高。,char_002_amiya_cn_024.wav\n" +
		"char_002_amiya,博士，休息一下吧。,char_002_amiya_cn_011.wav\n" +
		"char_201_silverash,该启程了。,char_201_silverash_cn_001.wav\n" +
		"char_101_txsi,企鹅物流，使命必达。,char_101_txsi_cn_003.wav\n" +
		"char_103_angel,哈罗——能天使参上！,char_103_angel_cn_002.wav\n" +
		"char_102_lappland,嗨，又见面了。,char_102_lappland_cn_007.wav\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "voicelines.csv"), []byte(lines), 0644))

	voices := filepath.Join(dir, "voices")
	require.NoError(t, os.MkdirAll(voices, 0755))
	for _, f := range []string{
		"char_002_amiya_cn_024.wav",
		"char_002_amiya_cn_011.wav",
		"char_201_silverash_cn_001.wav",
		"char_101_txsi_cn_003.wav",
		"char_103_angel_cn_002.wav",
		// lappland's audio is deliberately missing
	} {
		require.NoError(t, os.WriteFile(filepath.Join(voices, f), []byte("RIFF"), 0644))
	}

	return dir
}

func TestLoad(t *testing.T) {
	c, err := Load(writeTestCorpus(t))
	require.NoError(t, err)

	assert.Len(t, c.operators, 5)
	assert.Len(t, c.CharIDs(), 5)
}

func TestLoadMissingTables(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestResolve(t *testing.T) {
	c, err := Load(writeTestCorpus(t))
	require.NoError(t, err)

	t.Run("exact chinese name", func(t *testing.T) {
		id, err := c.Resolve("银灰")
		require.NoError(t, err)
		assert.Equal(t, "char_201_silverash", id.CharID)
		assert.Equal(t, "银灰", id.Name)
	})

	t.Run("english alias is case-insensitive", func(t *testing.T) {
		a, err := c.Resolve("SilverAsh")
		require.NoError(t, err)
		b, err := c.Resolve("silverash")
		require.NoError(t, err)
		assert.Equal(t, a.CharID, b.CharID)

		zh, err := c.Resolve("银灰")
		require.NoError(t, err)
		assert.Equal(t, zh.CharID, a.CharID, "alias and display name resolve to one identity")
	})

	t.Run("full-width input from OCR", func(t *testing.T) {
		id, err := c.Resolve("Ａｍｉｙａ")
		require.NoError(t, err)
		assert.Equal(t, "char_002_amiya", id.CharID)
	})

	t.Run("override table corrects containment", func(t *testing.T) {
		id, err := c.Resolve("德克萨斯")
		require.NoError(t, err)
		assert.Equal(t, "char_101_txsi", id.CharID)

		id, err = c.Resolve("能天使")
		require.NoError(t, err)
		assert.Equal(t, "char_103_angel", id.CharID)
	})

	t.Run("containment on identifier suffix", func(t *testing.T) {
		// "Silver Ash" is not an exact alias; the cleaned form matches the
		// identifier suffix by containment.
		id, err := c.Resolve("Silver Ash")
		require.NoError(t, err)
		assert.Equal(t, "char_201_silverash", id.CharID)

		// a partial also resolves, in either containment direction
		id, err = c.Resolve("lapp")
		require.NoError(t, err)
		assert.Equal(t, "char_102_lappland", id.CharID)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := c.Resolve("不存在的干员")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := c.Resolve("   ")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSelectSamples(t *testing.T) {
	c, err := Load(writeTestCorpus(t))
	require.NoError(t, err)

	t.Run("deterministic first sample", func(t *testing.T) {
		id, err := c.Resolve("阿米娅")
		require.NoError(t, err)

		samples := c.SelectSamples(id, 1)
		require.Len(t, samples, 1)
		// lexically smallest filename wins
		assert.Equal(t, "char_002_amiya_cn_011.wav", filepath.Base(samples[0].AudioPath))
		assert.Equal(t, "博士，休息一下吧。", samples[0].Transcript)
	})

	t.Run("limit", func(t *testing.T) {
		id, err := c.Resolve("阿米娅")
		require.NoError(t, err)
		assert.Len(t, c.SelectSamples(id, 5), 2)
	})

	t.Run("missing audio file excludes the row", func(t *testing.T) {
		id, err := c.Resolve("拉普兰德")
		require.NoError(t, err)
		assert.Empty(t, c.SelectSamples(id, 1), "rows without local audio are not selectable")
	})
}
