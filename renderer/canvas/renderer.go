package canvasrenderer

import (
	"fmt"
	"image/color"

	"github.com/npillmayer/schuko/tracing"
	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/fontstory/fontset"
	"github.com/ByLCY/fontstory/layout"
	"github.com/ByLCY/fontstory/renderer"
)

// tracer traces with key 'fontstory.render'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.render")
}

// Renderer measures and paints text via github.com/tdewolff/canvas.
// One canvas unit is one logical pixel; the rasterizer resolution is the
// pixel density.
type Renderer struct {
	fonts *fontset.Registry
}

var (
	_ renderer.Renderer = (*Renderer)(nil)
	_ layout.Measurer   = (*Renderer)(nil)
)

// NewRenderer creates a renderer resolving font names through fonts.
func NewRenderer(fonts *fontset.Registry) *Renderer {
	if fonts == nil {
		fonts = fontset.NewRegistry()
	}
	return &Renderer{fonts: fonts}
}

// MeasureLine 实现 layout.Measurer：返回单行文本在给定字体与字号（px）下的宽度（px）。
func (r *Renderer) MeasureLine(content string, font string, fontSize float64) (float64, error) {
	if content == "" {
		return 0, nil
	}
	face, err := r.fontFace(font, fontSize, color.Black)
	if err != nil {
		return 0, err
	}
	return face.TextWidth(content), nil
}

// Render 把测量结果画到新的位图上：每行左对齐于 x=0，行顶对齐，逐行按固定行高下移。
// 零面积的结果返回空 Surface，而不是错误。
func (r *Renderer) Render(result *layout.Result) (*renderer.Surface, error) {
	if result == nil {
		return nil, fmt.Errorf("渲染结果为空")
	}
	scale := result.Scale
	if scale <= 0 {
		scale = 1
	}
	if result.Empty() {
		tracer().Debugf("render: empty result (%gx%g), nothing to paint", result.Width, result.Height)
		return renderer.NewEmpty(result.Width, result.Height, scale), nil
	}

	face, err := r.fontFace(result.Font, result.FontSize, result.Color.NRGBA())
	if err != nil {
		return nil, err
	}

	c := canvas.New(result.Width, result.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // 左上角为原点，y 轴向下

	// 基线位置：以行顶部加上字体上升部（Ascent），即 "top" 基线对齐
	ascent := face.Metrics().Ascent
	for _, line := range result.Lines {
		if line.Content == "" {
			continue
		}
		ctx.DrawText(0, line.Y+ascent, canvas.NewTextLine(face, line.Content, canvas.Left))
	}

	img := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)
	tracer().Debugf("render: %d lines into %dx%d px (scale %g)", len(result.Lines), img.Bounds().Dx(), img.Bounds().Dy(), scale)
	return &renderer.Surface{
		Image:  img,
		Width:  result.Width,
		Height: result.Height,
		Scale:  scale,
	}, nil
}

func (r *Renderer) fontFace(font string, sizePx float64, col color.Color) (*canvas.FontFace, error) {
	family, err := r.fonts.Family(font)
	if err != nil {
		return nil, err
	}
	return family.Face(layout.FacePoints(sizePx), col, canvas.FontRegular, canvas.FontNormal), nil
}
