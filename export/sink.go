package export

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ByLCY/fontstory/renderer"
)

// Options configures a Sink.
type Options struct {
	Dir      string      // 下载目录，默认当前目录
	FileName string      // 下载文件名，默认 custom_text.png
	Out      io.Writer   // open 模式输出 data URL 的位置
	Images   ImageWriter // 剪贴板（图片）
	Texts    TextWriter  // 剪贴板（文本），open 模式可选地复制 data URL
	CopyURL  bool
}

// Sink delivers finished surfaces to their destination.
type Sink struct {
	dir     string
	name    string
	out     io.Writer
	images  ImageWriter
	texts   TextWriter
	copyURL bool
}

// NewSink creates a sink. Missing clipboards default to the system clipboard.
func NewSink(opts Options) *Sink {
	s := &Sink{
		dir:     opts.Dir,
		name:    opts.FileName,
		out:     opts.Out,
		images:  opts.Images,
		texts:   opts.Texts,
		copyURL: opts.CopyURL,
	}
	if s.dir == "" {
		s.dir = "."
	}
	if s.name == "" {
		s.name = DefaultFileName
	}
	if s.out == nil {
		s.out = io.Discard
	}
	if s.images == nil || s.texts == nil {
		sys := &SystemClipboard{}
		if s.images == nil {
			s.images = sys
		}
		if s.texts == nil {
			s.texts = sys
		}
	}
	return s
}

// Export dispatches to the mode's destination. name overrides the download
// file name when not empty. Clipboard mode never returns an error.
func (s *Sink) Export(ctx context.Context, mode Mode, surface *renderer.Surface, name string) (string, error) {
	switch mode {
	case ModeDownload:
		return s.Download(surface, name)
	case ModeOpen:
		return s.Open(surface)
	case ModeClipboard:
		s.Copy(ctx, surface)
		return "", nil
	}
	return "", fmt.Errorf("未知的导出方式：%v", mode)
}

// Download 将 PNG 写入下载目录，返回文件路径。
func (s *Sink) Download(surface *renderer.Surface, name string) (string, error) {
	data, err := EncodePNG(surface)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = s.name
	}
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.dir, name)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("创建输出目录失败: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("写入图片失败: %w", err)
	}
	tracer().Infof("exported %d bytes to %s", len(data), path)
	return path, nil
}

// Open 输出 data URL；配置了 CopyURL 时同时复制到剪贴板（失败只记录日志）。
func (s *Sink) Open(surface *renderer.Surface) (string, error) {
	data, err := EncodePNG(surface)
	if err != nil {
		return "", err
	}
	url := DataURL(data)
	if _, err := fmt.Fprintln(s.out, url); err != nil {
		return "", fmt.Errorf("输出 data URL 失败: %w", err)
	}
	if s.copyURL {
		if err := s.texts.WriteText(url); err != nil {
			tracer().Errorf("copying data URL failed: %v", err)
		}
	}
	return url, nil
}

// Copy 将 PNG 写入剪贴板。任何失败（权限、空图片、剪贴板不可用）都只记录日志，
// 不会传给调用方。
func (s *Sink) Copy(ctx context.Context, surface *renderer.Surface) {
	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("clipboard panic: %v", r)
			}
		}()
		data, err := EncodePNG(surface)
		if err == nil && len(data) == 0 {
			err = ErrEmptySurface
		}
		if err == nil {
			err = s.images.WriteImage(data)
		}
		done <- err
	}()
	select {
	case err := <-done:
		if err != nil {
			tracer().Errorf("clipboard export failed: %v", err)
			return
		}
		tracer().Infof("image copied to clipboard")
	case <-ctx.Done():
		tracer().Errorf("clipboard export abandoned: %v", ctx.Err())
	}
}
