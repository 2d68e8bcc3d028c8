package main

import (
	"bytes"
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ByLCY/fontstory/config"
	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/renderer"
	"github.com/ByLCY/fontstory/story"
)

type discardClipboard struct{}

func (discardClipboard) WriteImage([]byte) error { return nil }
func (discardClipboard) WriteText(string) error  { return nil }

func testSink(dir string, out *bytes.Buffer) story.Option {
	return story.WithSink(export.NewSink(export.Options{
		Dir:    dir,
		Out:    out,
		Images: discardClipboard{},
		Texts:  discardClipboard{},
	}))
}

func TestRunText(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	dir := t.TempDir()
	conf := config.Default()
	conf.DefaultFont = "Go"
	opts := options{text: "Hello\nWorld", mode: "download", debugPath: filepath.Join(dir, "layout.json")}
	require.NoError(t, run(context.Background(), conf, opts, testSink(dir, &bytes.Buffer{})))

	data, err := os.ReadFile(filepath.Join(dir, export.DefaultFileName))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, renderer.PixelExtent(2*72*1.2, 1), img.Bounds().Dy())
	assert.FileExists(t, opts.debugPath)
}

func TestRunTextEscapes(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	dir := t.TempDir()
	conf := config.Default()
	conf.DefaultFont = "Go"
	opts := options{text: `Hello\nWorld`, mode: "download"}
	require.NoError(t, run(context.Background(), conf, opts, testSink(dir, &bytes.Buffer{})))

	data, err := os.ReadFile(filepath.Join(dir, export.DefaultFileName))
	require.NoError(t, err)
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, renderer.PixelExtent(2*72*1.2, 1), img.Bounds().Dy(), "\\n 应展开为换行")
	assert.Equal(t, "a\nb\\nc", unescapeText(`a\nb\\nc`))
}

func TestRunOpenMode(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	var out bytes.Buffer
	opts := options{text: "x", mode: "open"}
	require.NoError(t, run(context.Background(), config.Default(), opts, testSink(t.TempDir(), &out)))
	assert.Contains(t, out.String(), "data:image/png;base64,")

	assert.Error(t, run(context.Background(), config.Default(), options{text: "x", mode: "fax"}))
}

func TestRunStoryFile(t *testing.T) {
	pterm.DisableOutput()
	defer pterm.EnableOutput()

	dir := t.TempDir()
	src := `
story "one" {
  font: "Go Mono"
  export: download "one.png"
  text { "first" }
}
story "two" {
  color: #336699
  text { "second" "line" }
}
`
	path := filepath.Join(dir, "cards.fst")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	opts := options{storyFile: path, debugPath: filepath.Join(dir, "dbg", "layout.json")}
	require.NoError(t, run(context.Background(), config.Default(), opts, testSink(dir, &bytes.Buffer{})))

	assert.FileExists(t, filepath.Join(dir, "one.png"))
	assert.FileExists(t, filepath.Join(dir, export.DefaultFileName))
	assert.FileExists(t, filepath.Join(dir, "dbg", "layout-1.json"))
	assert.FileExists(t, filepath.Join(dir, "dbg", "layout-2.json"))
}

func TestDebugPathFor(t *testing.T) {
	assert.Equal(t, "a/b.json", debugPathFor("a/b.json", 0, 1))
	assert.Equal(t, "a/b-2.json", debugPathFor("a/b.json", 1, 3))
}
