package fontset

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/ByLCY/fontstory/fonts"
)

// UploadName is the logical name user supplied fonts are bound to.
const UploadName = "newFont"

// Loader registers uploaded font bytes under one fixed name, off the caller's
// goroutine. Only the latest load matters; concurrent loads race and the last
// registration wins.
type Loader struct {
	registry *Registry
	name     string
	onLoaded func(name string)
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithName overrides UploadName.
func WithName(name string) LoaderOption {
	return func(l *Loader) {
		if name != "" {
			l.name = name
		}
	}
}

// OnLoaded sets the continuation run after a successful registration.
// It runs on the loader goroutine.
func OnLoaded(fn func(name string)) LoaderOption {
	return func(l *Loader) { l.onLoaded = fn }
}

// NewLoader creates a loader writing into registry.
func NewLoader(registry *Registry, opts ...LoaderOption) *Loader {
	l := &Loader{registry: registry, name: UploadName}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Name returns the logical name loads are registered under.
func (l *Loader) Name() string { return l.name }

// Pending is the result of a font load that may not have finished yet.
type Pending struct {
	name string
	done chan struct{}
	err  error
}

// Done is closed once the load has finished, successfully or not.
func (p *Pending) Done() <-chan struct{} { return p.done }

// Await blocks until the load finishes or ctx is done. The load itself is
// not cancelled by ctx.
func (p *Pending) Await(ctx context.Context) (string, error) {
	select {
	case <-p.done:
		if p.err != nil {
			return "", p.err
		}
		return p.name, nil
	case <-ctx.Done():
		return "", ctx.Err()
	}
}

// Load 在后台注册字体。注册失败只记录日志，当前字体保持不变；
// 调用方可通过 Await 取得错误。
func (l *Loader) Load(data []byte) *Pending {
	p := &Pending{name: l.name, done: make(chan struct{})}
	go func() {
		defer close(p.done)
		if err := l.registry.Register(l.name, data); err != nil {
			tracer().Errorf("font upload rejected: %v", err)
			p.err = err
			return
		}
		if l.onLoaded != nil {
			l.onLoaded(l.name)
		}
	}()
	return p
}

// LoadFile reads path and loads its content. The extension filter is only
// advisory.
func (l *Loader) LoadFile(path string) *Pending {
	ext := strings.ToLower(filepath.Ext(path))
	if !slices.Contains(fonts.Extensions, ext) {
		tracer().Infof("font file %s has unexpected extension %q, trying anyway", path, ext)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		p := &Pending{name: l.name, done: make(chan struct{}), err: fmt.Errorf("读取字体文件 %s 失败: %w", path, err)}
		tracer().Errorf("%v", p.err)
		close(p.done)
		return p
	}
	return l.Load(data)
}
