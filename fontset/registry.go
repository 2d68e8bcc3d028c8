// Package fontset holds the font families a session can render with.
//
// The Registry replaces a document-wide font set: it is owned by the session
// and injected into the renderer, so two sessions never see each other's uploads.
package fontset

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"

	"github.com/ByLCY/fontstory/fonts"
)

// tracer traces with key 'fontstory.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.fonts")
}

// ErrEmptyFontData is returned when a font is registered without bytes.
var ErrEmptyFontData = errors.New("fontset: empty font data")

// Registry maps logical font names to loaded canvas font families.
type Registry struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
	uploads  map[string]fonts.Info // names bound at runtime from user files
	fallback *canvas.FontFamily
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		families: map[string]*canvas.FontFamily{},
		uploads:  map[string]fonts.Info{},
	}
}

// Register 解析字体字节并绑定到 name。同名再次注册时后写入者生效；
// 解析失败时保留原有绑定。
func (r *Registry) Register(name string, data []byte) error {
	if name == "" {
		return fmt.Errorf("字体名称不能为空")
	}
	if len(data) == 0 {
		return ErrEmptyFontData
	}
	blob := make([]byte, len(data))
	copy(blob, data)

	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(blob, 0, canvas.FontRegular); err != nil {
		return fmt.Errorf("注册字体 %s 失败: %w", name, err)
	}
	info, err := fonts.Describe(blob)
	if err != nil {
		tracer().Debugf("font %s registered without metadata: %v", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.families[name]; ok {
		tracer().Infof("font %s re-registered, previous binding replaced", name)
	}
	r.families[name] = family
	r.uploads[name] = info
	tracer().Infof("font %s registered (%s, family %q)", name, info.Format, info.Family)
	return nil
}

// Family 返回 name 对应的字体族。解析顺序：运行时注册 → 内置预设 → 系统字体 → 兜底字体。
// 只有兜底字体本身加载失败时才返回错误。
func (r *Registry) Family(name string) (*canvas.FontFamily, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if family, ok := r.families[name]; ok {
		return family, nil
	}
	family, err := resolve(name)
	if err != nil {
		tracer().Infof("font %q unavailable, using %s: %v", name, fonts.FallbackName, err)
		if family, err = r.fallbackFamily(); err != nil {
			return nil, err
		}
	}
	r.families[name] = family
	return family, nil
}

// Uploaded reports whether name was bound from user supplied bytes, and what
// is known about that font.
func (r *Registry) Uploaded(name string) (fonts.Info, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	info, ok := r.uploads[name]
	return info, ok
}

// Names lists every name resolved or registered so far.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.families))
	for name := range r.families {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func resolve(name string) (*canvas.FontFamily, error) {
	data, err := fonts.Load(name)
	if err != nil {
		data, _, err = fonts.FindSystem(name)
		if err != nil {
			return nil, err
		}
	}
	family := canvas.NewFontFamily(name)
	if err := family.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载字体 %s 失败: %w", name, err)
	}
	return family, nil
}

func (r *Registry) fallbackFamily() (*canvas.FontFamily, error) {
	if r.fallback != nil {
		return r.fallback, nil
	}
	family := canvas.NewFontFamily("fontstory-fallback")
	if err := family.LoadFont(fonts.Fallback(), 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("加载兜底字体失败: %w", err)
	}
	r.fallback = family
	return family, nil
}
