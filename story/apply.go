package story

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ByLCY/fontstory/dsl"
	"github.com/ByLCY/fontstory/export"
)

// Apply 将故事文件中的设置写入会话。相对路径（font-file）相对 baseDir 解析。
// 字体文件加载失败只记录日志，与交互上传一致。
func (s *Session) Apply(ctx context.Context, st *dsl.Story, baseDir string) error {
	if st == nil {
		return nil
	}
	if err := st.Validate(); err != nil {
		return err
	}
	if v, ok := st.Lookup(dsl.KeySize); ok {
		px, _ := v.Float()
		if err := s.SetFontSize(px); err != nil {
			return err
		}
	}
	if v, ok := st.Lookup(dsl.KeyScale); ok {
		x, _ := v.Float()
		if err := s.SetScale(x); err != nil {
			return err
		}
	}
	if v, ok := st.Lookup(dsl.KeyLineHeight); ok {
		f, _ := v.Float()
		if err := s.SetLineHeight(f); err != nil {
			return err
		}
	}
	if v, ok := st.Lookup(dsl.KeyColor); ok {
		if err := s.SetColor(v.Raw()); err != nil {
			return err
		}
	}
	if v, ok := st.Lookup(dsl.KeyFont); ok {
		s.SelectFont(v.Raw())
	}
	if v, ok := st.Lookup(dsl.KeyFontFile); ok {
		path := v.Raw()
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		if _, err := s.UploadFontFile(path).Await(ctx); err != nil {
			if ctx.Err() != nil {
				return err
			}
			tracer().Errorf("story %q: font file ignored: %v", st.Name, err)
		}
	}
	s.SetText(st.Text())
	return nil
}

// Target returns the export mode and file name st asks for: download
// with the configured file name when there is no export directive.
func Target(st *dsl.Story) (export.Mode, string, error) {
	exp := st.Export()
	if exp == nil {
		return export.ModeDownload, "", nil
	}
	mode, err := export.ParseMode(exp.Mode)
	if err != nil {
		return mode, "", fmt.Errorf("%s: %w", exp.Pos, err)
	}
	if exp.Name == nil {
		return mode, "", nil
	}
	return mode, string(*exp.Name), nil
}

// Play applies st and exports it to its target.
func (s *Session) Play(ctx context.Context, st *dsl.Story, baseDir string) (string, error) {
	if err := s.Apply(ctx, st, baseDir); err != nil {
		return "", err
	}
	mode, name, err := Target(st)
	if err != nil {
		return "", err
	}
	return s.Export(ctx, mode, name)
}
