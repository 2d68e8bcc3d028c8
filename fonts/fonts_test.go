package fonts

import (
	"errors"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPresetsLoad(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	list := Presets()
	require.NotEmpty(t, list)
	var mono int
	for _, p := range list {
		data, err := Load(p.Name)
		require.NoError(t, err, p.Name)
		assert.Equal(t, FormatTTF, Sniff(data), p.Name)
		if p.Monospace {
			mono++
		}
	}
	assert.Greater(t, mono, 0, "需要至少一个等宽预设")
}

func TestLoadNormalizesNames(t *testing.T) {
	for _, name := range []string{"go mono", "embed:Go Mono", "GO-MONO", "  go_mono "} {
		_, err := Load(name)
		assert.NoError(t, err, name)
	}
	assert.True(t, IsPreset("Go Bold"))
	assert.False(t, IsPreset("Comic Sans"))
}

func TestLoadUnknownPreset(t *testing.T) {
	_, err := Load("Papyrus Display")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDescribeFallback(t *testing.T) {
	info, err := Describe(Fallback())
	require.NoError(t, err)
	assert.Equal(t, FormatTTF, info.Format)
	assert.Contains(t, info.Family, "Go")
	assert.Greater(t, info.Glyphs, 0)
}

func TestDescribeRejectsGarbage(t *testing.T) {
	_, err := Describe([]byte("definitely not a font"))
	assert.Error(t, err)
	assert.Equal(t, FormatUnknown, Sniff([]byte{1, 2}))
	assert.Equal(t, FormatWOFF2, Sniff([]byte("wOF2....")))
}

func TestFindSystemMissing(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	_, _, err := FindSystem("no-such-font-3f9c1e7a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNotFound))
	_, _, err = FindSystem("")
	assert.True(t, errors.Is(err, ErrNotFound))
}
