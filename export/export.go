// Package export turns a rendered surface into a PNG artifact: a file on
// disk, a data URL, or an image item on the system clipboard.
package export

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image/png"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/fontstory/renderer"
)

// tracer traces with key 'fontstory.export'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.export")
}

// DefaultFileName is the name of downloaded images.
const DefaultFileName = "custom_text.png"

// ErrEmptySurface is reported when a zero-area surface is sent to a sink
// that cannot take an empty payload.
var ErrEmptySurface = errors.New("export: 画布为空")

// Mode selects an export destination.
type Mode int

const (
	ModeDownload Mode = iota
	ModeOpen
	ModeClipboard
)

func (m Mode) String() string {
	switch m {
	case ModeDownload:
		return "download"
	case ModeOpen:
		return "open"
	case ModeClipboard:
		return "clipboard"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

// ParseMode 解析导出方式：download / open / clipboard（copy 为 clipboard 的别名）。
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "download", "file":
		return ModeDownload, nil
	case "open", "dataurl", "data-url":
		return ModeOpen, nil
	case "clipboard", "copy":
		return ModeClipboard, nil
	}
	return ModeDownload, fmt.Errorf("未知的导出方式：%s", s)
}

// EncodePNG 将位图编码为 PNG。空画布得到空负载（退化图片），不是错误。
func EncodePNG(s *renderer.Surface) ([]byte, error) {
	if s.Empty() {
		return []byte{}, nil
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, s.Image); err != nil {
		return nil, fmt.Errorf("PNG 编码失败: %w", err)
	}
	return buf.Bytes(), nil
}

// DataURL wraps PNG bytes into a data URL. An empty payload yields "data:,"
// the same way a browser serializes a zero-sized canvas.
func DataURL(data []byte) string {
	if len(data) == 0 {
		return "data:,"
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(data)
}
