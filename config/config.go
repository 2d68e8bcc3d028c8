// Package config holds the settings of a fontstory session.
//
// Settings start from Default() and may be overridden from any
// schuko.Configuration; the CLI builds one from its flags.
package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/npillmayer/schuko"

	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/fontset"
	"github.com/ByLCY/fontstory/layout"
)

// Configuration keys understood by FromConfiguration.
const (
	KeyFontSize    = "fontstory.size"
	KeyPreviewSize = "fontstory.preview-size"
	KeyLineHeight  = "fontstory.line-height"
	KeyScale       = "fontstory.scale"
	KeyFont        = "fontstory.font"
	KeyUploadName  = "fontstory.upload-name"
	KeyFileName    = "fontstory.file-name"
	KeyOutputDir   = "fontstory.out"
	KeyColor       = "fontstory.color"
	KeyCopyURL     = "fontstory.copy-url"
)

// Config 是一次会话的全部设置。字号单位为 px。
type Config struct {
	RenderFontSize   float64 // 导出时的字号
	PreviewFontSize  float64 // 交互预览（:show）使用的字号
	LineHeightFactor float64
	Scale            float64 // 像素密度
	DefaultFont      string  // 未选择字体时的字体引用
	UploadName       string  // 上传字体绑定的逻辑名
	FileName         string  // 下载文件名
	OutputDir        string
	Color            string // 十六进制颜色
	CopyDataURL      bool   // open 模式下是否同时复制 data URL
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		RenderFontSize:   72,
		PreviewFontSize:  24,
		LineHeightFactor: layout.DefaultLineHeightFactor,
		Scale:            1,
		DefaultFont:      "Arial",
		UploadName:       fontset.UploadName,
		FileName:         export.DefaultFileName,
		OutputDir:        ".",
		Color:            "#000000",
	}
}

// FromConfiguration 在默认值之上应用 conf 中已设置的键。conf 为 nil 时返回默认值。
func FromConfiguration(conf schuko.Configuration) (Config, error) {
	c := Default()
	if conf == nil {
		return c, nil
	}
	floats := []struct {
		key string
		dst *float64
	}{
		{KeyFontSize, &c.RenderFontSize},
		{KeyPreviewSize, &c.PreviewFontSize},
		{KeyLineHeight, &c.LineHeightFactor},
		{KeyScale, &c.Scale},
	}
	for _, f := range floats {
		s := strings.TrimSpace(conf.GetString(f.key))
		if s == "" {
			continue
		}
		v, err := parseNumber(s)
		if err != nil {
			return c, fmt.Errorf("配置项 %s: %w", f.key, err)
		}
		*f.dst = v
	}
	strs := []struct {
		key string
		dst *string
	}{
		{KeyFont, &c.DefaultFont},
		{KeyUploadName, &c.UploadName},
		{KeyFileName, &c.FileName},
		{KeyOutputDir, &c.OutputDir},
		{KeyColor, &c.Color},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(conf.GetString(s.key)); v != "" {
			*s.dst = v
		}
	}
	if conf.IsSet(KeyCopyURL) {
		c.CopyDataURL = conf.GetBool(KeyCopyURL)
	}
	return c, c.Validate()
}

// parseNumber accepts plain numbers and lengths with a unit suffix
// ("72", "72px", "54pt"); lengths are converted to px.
func parseNumber(s string) (float64, error) {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, nil
	}
	l, err := layout.ParseLength(s)
	if err != nil {
		return 0, err
	}
	return l.ToPX(), nil
}

// Validate checks that sizes are positive and the color parses.
func (c Config) Validate() error {
	if c.RenderFontSize <= 0 {
		return fmt.Errorf("字号必须为正数：%g", c.RenderFontSize)
	}
	if c.PreviewFontSize <= 0 {
		return fmt.Errorf("预览字号必须为正数：%g", c.PreviewFontSize)
	}
	if c.LineHeightFactor <= 0 {
		return fmt.Errorf("行高倍数必须为正数：%g", c.LineHeightFactor)
	}
	if c.Scale <= 0 {
		return fmt.Errorf("像素密度必须为正数：%g", c.Scale)
	}
	if c.UploadName == "" {
		return fmt.Errorf("上传字体名称不能为空")
	}
	if _, err := layout.ParseColor(c.Color); err != nil {
		return err
	}
	return nil
}
