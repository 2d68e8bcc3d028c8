// Package story holds the state of one editing session: the document text,
// the style and the active font reference. Every export measures and paints
// from this state afresh; no surface is kept between exports.
package story

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/fontstory/config"
	"github.com/ByLCY/fontstory/export"
	"github.com/ByLCY/fontstory/fontset"
	"github.com/ByLCY/fontstory/layout"
	"github.com/ByLCY/fontstory/renderer"
	canvasrenderer "github.com/ByLCY/fontstory/renderer/canvas"
)

// tracer traces with key 'fontstory.session'.
func tracer() tracing.Trace {
	return tracing.Select("fontstory.session")
}

// Session is the editing state plus the collaborators needed to export it.
type Session struct {
	conf     config.Config
	registry *fontset.Registry
	loader   *fontset.Loader
	painter  *canvasrenderer.Renderer
	sink     *export.Sink

	mu      sync.Mutex // guards the fields below; the font loader writes font
	text    string
	started bool // text has at least one line, possibly an empty one
	color   layout.Color
	font    string
	size    float64
	scale   float64
	lead    float64 // 行高倍数
}

// Option configures a Session.
type Option func(*Session)

// WithSink replaces the default export sink.
func WithSink(sink *export.Sink) Option {
	return func(s *Session) { s.sink = sink }
}

// WithRegistry shares a font registry. By default each session owns one.
func WithRegistry(r *fontset.Registry) Option {
	return func(s *Session) { s.registry = r }
}

// New creates a session with conf's defaults.
func New(conf config.Config, opts ...Option) (*Session, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	col, err := layout.ParseColor(conf.Color)
	if err != nil {
		return nil, err
	}
	s := &Session{
		conf:  conf,
		color: col,
		font:  conf.DefaultFont,
		size:  conf.RenderFontSize,
		scale: conf.Scale,
		lead:  conf.LineHeightFactor,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = fontset.NewRegistry()
	}
	if s.sink == nil {
		s.sink = export.NewSink(export.Options{
			Dir:      conf.OutputDir,
			FileName: conf.FileName,
			Out:      os.Stdout,
			CopyURL:  conf.CopyDataURL,
		})
	}
	s.painter = canvasrenderer.NewRenderer(s.registry)
	s.loader = fontset.NewLoader(s.registry,
		fontset.WithName(conf.UploadName),
		fontset.OnLoaded(func(name string) {
			s.mu.Lock()
			defer s.mu.Unlock()
			s.font = name
			tracer().Infof("active font is now %s", name)
		}),
	)
	return s, nil
}

// Config returns the session's configuration.
func (s *Session) Config() config.Config { return s.conf }

// Registry returns the fonts known to this session.
func (s *Session) Registry() *fontset.Registry { return s.registry }

// SetText replaces the document text.
func (s *Session) SetText(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.text = text
	s.started = text != ""
}

// AppendLine 追加一行（包括空行）。清空后的第一次追加成为第一行。
func (s *Session) AppendLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.started {
		s.text = line
		s.started = true
		return
	}
	s.text += "\n" + line
}

// Text returns the document text.
func (s *Session) Text() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.text
}

// SetColor parses hex and makes it the fill color.
func (s *Session) SetColor(hex string) error {
	col, err := layout.ParseColor(hex)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.color = col
	return nil
}

// Color returns the fill color.
func (s *Session) Color() layout.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.color
}

// SelectFont makes name the active font reference. Names are not checked
// here; unknown names render with the fallback face.
func (s *Session) SelectFont(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.font = name
}

// Font returns the active font reference.
func (s *Session) Font() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.font
}

// SetFontSize sets the export font size in px.
func (s *Session) SetFontSize(px float64) error {
	if px <= 0 {
		return fmt.Errorf("字号必须为正数：%g", px)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.size = px
	return nil
}

// SetScale sets the pixel density.
func (s *Session) SetScale(scale float64) error {
	if scale <= 0 {
		return fmt.Errorf("像素密度必须为正数：%g", scale)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scale = scale
	return nil
}

// SetLineHeight sets the line height factor.
func (s *Session) SetLineHeight(factor float64) error {
	if factor <= 0 {
		return fmt.Errorf("行高倍数必须为正数：%g", factor)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lead = factor
	return nil
}

// UploadFont 在后台注册上传的字体，成功后将其设为当前字体。
// 失败时当前字体不变，错误只记录日志并可通过 Pending.Await 取得。
func (s *Session) UploadFont(data []byte) *fontset.Pending {
	return s.loader.Load(data)
}

// UploadFontFile reads a font file and uploads it.
func (s *Session) UploadFontFile(path string) *fontset.Pending {
	return s.loader.LoadFile(path)
}

type snapshot struct {
	text  string
	color layout.Color
	font  string
	size  float64
	scale float64
	lead  float64
}

func (s *Session) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot{text: s.text, color: s.color, font: s.font, size: s.size, scale: s.scale, lead: s.lead}
}

// Layout runs a fresh measurement pass over the current state at the export
// font size.
func (s *Session) Layout() (*layout.Result, error) {
	snap := s.snapshot()
	return s.build(snap, snap.size)
}

// Preview measures the current state at the preview font size.
func (s *Session) Preview() (*layout.Result, error) {
	return s.build(s.snapshot(), s.conf.PreviewFontSize)
}

func (s *Session) build(snap snapshot, size float64) (*layout.Result, error) {
	return layout.Build(snap.text, layout.BuildOptions{
		Measurer:         s.painter,
		Font:             snap.font,
		FontSize:         size,
		LineHeightFactor: snap.lead,
		Color:            snap.color,
		Scale:            snap.scale,
	})
}

// Render measures and paints a new surface.
func (s *Session) Render() (*renderer.Surface, error) {
	res, err := s.Layout()
	if err != nil {
		return nil, err
	}
	return s.painter.Render(res)
}

// Export renders the current state and hands the surface to the sink.
// name overrides the download file name. For the clipboard mode the result
// is always empty and failures are only traced.
func (s *Session) Export(ctx context.Context, mode export.Mode, name string) (string, error) {
	surface, err := s.Render()
	if err != nil {
		return "", fmt.Errorf("渲染失败: %w", err)
	}
	w, h := surface.PixelSize()
	tracer().Infof("export %s: %dx%d px, font %s", mode, w, h, s.Font())
	return s.sink.Export(ctx, mode, surface, name)
}

// WriteDebug writes the current layout as JSON to path.
func (s *Session) WriteDebug(path string) error {
	res, err := s.Layout()
	if err != nil {
		return err
	}
	return layout.WriteDebugJSON(res, path)
}
