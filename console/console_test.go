package console

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/pterm/pterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"

	"github.com/ByLCY/fontstory/config"
	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/fontset"
	"github.com/ByLCY/fontstory/story"
)

type nopClipboard struct{}

func (nopClipboard) WriteImage([]byte) error { return nil }
func (nopClipboard) WriteText(string) error  { return nil }

func newConsole(t *testing.T) (*Console, string, *bytes.Buffer) {
	pterm.DisableOutput()
	t.Cleanup(pterm.EnableOutput)
	dir := t.TempDir()
	out := &bytes.Buffer{}
	conf := config.Default()
	conf.DefaultFont = "Go"
	conf.RenderFontSize = 16
	sink := export.NewSink(export.Options{Dir: dir, Out: out, Images: nopClipboard{}, Texts: nopClipboard{}})
	sess, err := story.New(conf, story.WithSink(sink))
	require.NoError(t, err)
	return New(sess), dir, out
}

func run(t *testing.T, c *Console, lines ...string) {
	for _, l := range lines {
		quit, err := c.Execute(context.Background(), l)
		require.NoError(t, err, l)
		require.False(t, quit, l)
	}
}

func TestPlainLinesAppend(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.session")
	defer teardown()

	c, _, _ := newConsole(t)
	run(t, c, "Hello", "", `\:colon`)
	assert.Equal(t, "Hello\n\n:colon", c.session.Text())

	run(t, c, ":clear")
	assert.Empty(t, c.session.Text())

	run(t, c, "", "after blank")
	assert.Equal(t, "\nafter blank", c.session.Text())
}

func TestSystemFontNames(t *testing.T) {
	names := systemFontNames()
	assert.True(t, sort.StringsAreSorted(names))
	seen := map[string]bool{}
	for _, n := range names {
		assert.NotContains(t, n, string(filepath.Separator))
		assert.False(t, seen[n], "重复的字体名 %s", n)
		seen[n] = true
	}
}

func TestStyleCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.session")
	defer teardown()

	c, _, _ := newConsole(t)
	run(t, c, ":font Go Mono", ":color #0f0", ":size 40px", ":scale 2x", ":fonts", ":fonts system", ":help")
	assert.Equal(t, "Go Mono", c.session.Font())
	assert.Equal(t, "#00ff00", c.session.Color().Hex())

	_, err := c.Execute(context.Background(), ":color nope")
	assert.Error(t, err)
	assert.Equal(t, "#00ff00", c.session.Color().Hex())

	_, err = c.Execute(context.Background(), ":size -1")
	assert.Error(t, err)
	_, err = c.Execute(context.Background(), ":frobnicate")
	assert.Error(t, err)
}

func TestExportCommands(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.session")
	defer teardown()

	c, dir, out := newConsole(t)
	run(t, c, "Hi there", ":show", ":export", ":export named.png", ":open", ":copy")
	assert.FileExists(t, filepath.Join(dir, export.DefaultFileName))
	assert.FileExists(t, filepath.Join(dir, "named.png"))
	assert.Contains(t, out.String(), "data:image/png;base64,")
}

func TestLoadSwitchesFont(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.session")
	defer teardown()

	c, dir, _ := newConsole(t)
	path := filepath.Join(dir, "mono.ttf")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))
	run(t, c, ":load "+path)
	assert.Eventually(t, func() bool {
		return c.session.Font() == fontset.UploadName
	}, 5*time.Second, 10*time.Millisecond)

	_, err := c.Execute(context.Background(), ":load")
	assert.Error(t, err)
}

func TestQuit(t *testing.T) {
	c, _, _ := newConsole(t)
	quit, err := c.Execute(context.Background(), ":quit")
	require.NoError(t, err)
	assert.True(t, quit)
}
