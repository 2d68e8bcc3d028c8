package config

import (
	"testing"

	"github.com/npillmayer/schuko/schukonf/testconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())
	assert.Equal(t, 72.0, c.RenderFontSize)
	assert.Equal(t, 24.0, c.PreviewFontSize)
	assert.Equal(t, 1.2, c.LineHeightFactor)
	assert.Equal(t, "Arial", c.DefaultFont)
	assert.Equal(t, "newFont", c.UploadName)
	assert.Equal(t, "custom_text.png", c.FileName)
	assert.Equal(t, "#000000", c.Color)
	assert.False(t, c.CopyDataURL)
}

func TestFromConfiguration(t *testing.T) {
	conf := testconfig.Conf{
		KeyFontSize:  "48",
		KeyScale:     2,
		KeyFont:      "Go Mono",
		KeyColor:     "#ff8800",
		KeyCopyURL:   true,
		KeyOutputDir: "out",
	}
	c, err := FromConfiguration(conf)
	require.NoError(t, err)
	assert.Equal(t, 48.0, c.RenderFontSize)
	assert.Equal(t, 2.0, c.Scale)
	assert.Equal(t, "Go Mono", c.DefaultFont)
	assert.Equal(t, "#ff8800", c.Color)
	assert.Equal(t, "out", c.OutputDir)
	assert.True(t, c.CopyDataURL)
	assert.Equal(t, 24.0, c.PreviewFontSize, "未设置的键保持默认值")
}

func TestFromConfigurationLengthUnits(t *testing.T) {
	c, err := FromConfiguration(testconfig.Conf{KeyFontSize: "1in"})
	require.NoError(t, err)
	assert.InDelta(t, 96.0, c.RenderFontSize, 1e-9)
}

func TestFromConfigurationNil(t *testing.T) {
	c, err := FromConfiguration(nil)
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestFromConfigurationRejectsBadValues(t *testing.T) {
	for _, conf := range []testconfig.Conf{
		{KeyFontSize: "huge"},
		{KeyFontSize: "-3"},
		{KeyScale: "0"},
		{KeyColor: "#12"},
	} {
		_, err := FromConfiguration(conf)
		assert.Error(t, err, "%v", conf)
	}
}
