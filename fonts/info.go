package fonts

import (
	"bytes"
	"fmt"

	"golang.org/x/image/font/sfnt"
)

// Format 表示字体文件的容器格式。
type Format string

const (
	FormatUnknown Format = ""
	FormatTTF     Format = "ttf"
	FormatOTF     Format = "otf"
	FormatTTC     Format = "ttc"
	FormatWOFF    Format = "woff"
	FormatWOFF2   Format = "woff2"
)

// Info 记录上传字体的基本信息，用于会话中展示。
type Info struct {
	Format Format
	Family string
	Glyphs int
}

// Extensions 是文件选择时建议的扩展名，仅作提示，不做强制校验。
var Extensions = []string{".ttf", ".otf", ".woff", ".woff2"}

// Sniff guesses the container format from the magic bytes.
func Sniff(data []byte) Format {
	if len(data) < 4 {
		return FormatUnknown
	}
	switch {
	case bytes.Equal(data[:4], []byte{0x00, 0x01, 0x00, 0x00}), bytes.Equal(data[:4], []byte("true")):
		return FormatTTF
	case bytes.Equal(data[:4], []byte("OTTO")):
		return FormatOTF
	case bytes.Equal(data[:4], []byte("ttcf")):
		return FormatTTC
	case bytes.Equal(data[:4], []byte("wOFF")):
		return FormatWOFF
	case bytes.Equal(data[:4], []byte("wOF2")):
		return FormatWOFF2
	}
	return FormatUnknown
}

// Describe 读取字体的族名与字形数量。WOFF/WOFF2 无法由 sfnt 直接解析，只返回格式。
func Describe(data []byte) (Info, error) {
	info := Info{Format: Sniff(data)}
	switch info.Format {
	case FormatUnknown:
		return info, fmt.Errorf("无法识别的字体格式（%d 字节）", len(data))
	case FormatWOFF, FormatWOFF2, FormatTTC:
		return info, nil
	}
	f, err := sfnt.Parse(data)
	if err != nil {
		return info, fmt.Errorf("解析字体失败: %w", err)
	}
	var buf sfnt.Buffer
	if family, err := f.Name(&buf, sfnt.NameIDFamily); err == nil {
		info.Family = family
	}
	info.Glyphs = f.NumGlyphs()
	return info, nil
}
