package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/schuko/tracing"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomedium"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/gofont/gosmallcaps"
)

// tracer traces with key 'fontstory.fonts'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.fonts")
}

// FallbackName 是兜底字体名，任何无法解析的字体引用最终都会落到它上面。
const FallbackName = "Go"

// Preset 描述一个内置字体。
type Preset struct {
	Name      string
	Monospace bool
	data      []byte
}

var presets = []Preset{
	{Name: "Go", data: goregular.TTF},
	{Name: "Go Medium", data: gomedium.TTF},
	{Name: "Go Bold", data: gobold.TTF},
	{Name: "Go Italic", data: goitalic.TTF},
	{Name: "Go Smallcaps", data: gosmallcaps.TTF},
	{Name: "Go Mono", Monospace: true, data: gomono.TTF},
	{Name: "Go Mono Bold", Monospace: true, data: gomonobold.TTF},
}

// Presets 返回内置字体列表（按名称排序）。
func Presets() []Preset {
	out := make([]Preset, len(presets))
	copy(out, presets)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// IsPreset reports whether name refers to a built-in font.
func IsPreset(name string) bool {
	_, ok := lookup(name)
	return ok
}

// Load 返回内置字体的字节数据，name 可写为 "embed:Go Mono" 或直接 "Go Mono"，大小写不敏感。
func Load(name string) ([]byte, error) {
	p, ok := lookup(name)
	if !ok {
		return nil, fmt.Errorf("读取内置字体 %s 失败: %w", name, ErrNotFound)
	}
	return p.data, nil
}

// Fallback returns the bytes of the fallback face.
func Fallback() []byte {
	return goregular.TTF
}

func lookup(name string) (Preset, bool) {
	key := normalize(strings.TrimPrefix(name, "embed:"))
	for _, p := range presets {
		if normalize(p.Name) == key {
			return p, true
		}
	}
	return Preset{}, false
}

func normalize(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return strings.Join(strings.Fields(name), " ")
}
