package fontset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
)

func TestRegisterAndResolve(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	r := NewRegistry()
	require.NoError(t, r.Register("mine", gomono.TTF))
	fam, err := r.Family("mine")
	require.NoError(t, err)
	require.NotNil(t, fam)

	info, ok := r.Uploaded("mine")
	require.True(t, ok)
	assert.Contains(t, info.Family, "Go")
	assert.Contains(t, r.Names(), "mine")
}

func TestRegisterFailureKeepsPreviousBinding(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	r := NewRegistry()
	require.NoError(t, r.Register(UploadName, goregular.TTF))
	before, err := r.Family(UploadName)
	require.NoError(t, err)

	assert.Error(t, r.Register(UploadName, []byte("garbage garbage garbage")))
	assert.True(t, errors.Is(r.Register(UploadName, nil), ErrEmptyFontData))

	after, err := r.Family(UploadName)
	require.NoError(t, err)
	assert.Same(t, before, after)
}

func TestUnknownNameFallsBack(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	r := NewRegistry()
	a, err := r.Family("no-such-font-3f9c1e7a")
	require.NoError(t, err)
	b, err := r.Family("another-missing-font-77d2")
	require.NoError(t, err)
	assert.Same(t, a, b, "缺失的字体应共享兜底字体族")

	_, ok := r.Uploaded("no-such-font-3f9c1e7a")
	assert.False(t, ok)
}

func TestPresetResolution(t *testing.T) {
	r := NewRegistry()
	mono, err := r.Family("Go Mono")
	require.NoError(t, err)
	fallback, err := r.Family("no-such-font-3f9c1e7a")
	require.NoError(t, err)
	assert.NotSame(t, mono, fallback)
}

func TestLoaderSignalsCompletion(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	var called atomic.Value
	r := NewRegistry()
	l := NewLoader(r, OnLoaded(func(name string) { called.Store(name) }))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	name, err := l.Load(gomono.TTF).Await(ctx)
	require.NoError(t, err)
	assert.Equal(t, UploadName, name)
	assert.Equal(t, UploadName, called.Load())
	_, ok := r.Uploaded(UploadName)
	assert.True(t, ok)
}

func TestLoaderFailureSkipsContinuation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	var calls atomic.Int32
	l := NewLoader(NewRegistry(), WithName("custom"), OnLoaded(func(string) { calls.Add(1) }))
	assert.Equal(t, "custom", l.Name())

	p := l.Load([]byte("not a font at all"))
	<-p.Done()
	_, err := p.Await(context.Background())
	assert.Error(t, err)
	assert.Zero(t, calls.Load())
}

func TestLoadFile(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "fontstory.fonts")
	defer teardown()

	dir := t.TempDir()
	path := filepath.Join(dir, "upload.bin")
	require.NoError(t, os.WriteFile(path, gomono.TTF, 0o644))

	l := NewLoader(NewRegistry())
	_, err := l.LoadFile(path).Await(context.Background())
	assert.NoError(t, err, "扩展名只是提示，不应阻止加载")

	_, err = l.LoadFile(filepath.Join(dir, "missing.ttf")).Await(context.Background())
	assert.Error(t, err)
}

func TestAwaitHonoursContext(t *testing.T) {
	p := &Pending{name: UploadName, done: make(chan struct{})}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := p.Await(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}
