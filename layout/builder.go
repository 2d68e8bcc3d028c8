package layout

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'fontstory.layout'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.layout")
}

// ErrNoMeasurer is returned when Build is called without a measuring backend.
var ErrNoMeasurer = errors.New("layout: 缺少测量后端 Measurer")

// Build 对文本做一次完整的测量：按换行拆分、逐行测宽、取最大宽度，
// 总高度 = 行数 × 字号 × 行高倍数。每次调用都重新测量，不复用上一次的结果。
func Build(text string, opts BuildOptions) (*Result, error) {
	if opts.Measurer == nil {
		return nil, ErrNoMeasurer
	}
	if opts.FontSize <= 0 {
		return nil, fmt.Errorf("layout: 字号必须为正数，实际 %g", opts.FontSize)
	}
	factor := opts.LineHeightFactor
	if factor <= 0 {
		factor = DefaultLineHeightFactor
	}
	scale := opts.Scale
	if scale <= 0 {
		scale = 1
	}
	lineHeight := opts.FontSize * factor

	parts := SplitLines(text)
	res := &Result{
		Lines:      make([]TextLine, 0, len(parts)),
		Font:       opts.Font,
		FontSize:   opts.FontSize,
		LineHeight: lineHeight,
		Color:      opts.Color,
		Scale:      scale,
	}
	for i, content := range parts {
		w, err := opts.Measurer.MeasureLine(content, opts.Font, opts.FontSize)
		if err != nil {
			return nil, fmt.Errorf("测量第 %d 行失败: %w", i+1, err)
		}
		res.Lines = append(res.Lines, TextLine{
			Content: content,
			Width:   w,
			Y:       float64(i) * lineHeight,
		})
		res.Width = math.Max(res.Width, w)
	}
	res.Height = float64(len(parts)) * lineHeight
	tracer().Debugf("layout: %d lines, %.2fx%.2f px, font %q at %.1fpx", len(parts), res.Width, res.Height, opts.Font, opts.FontSize)
	return res, nil
}

// SplitLines 按 \n 拆分文本，保留空行并丢弃 \r。空文本返回零行。
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	text = strings.ReplaceAll(text, "\r", "")
	return strings.Split(text, "\n")
}
