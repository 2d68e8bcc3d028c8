package fonts

import (
	"errors"
	"fmt"
	"os"

	"github.com/flopp/go-findfont"
)

// ErrNotFound is returned when neither the preset catalogue nor the system
// font directories know a font name.
var ErrNotFound = errors.New("fonts: font not found")

// FindSystem 在系统字体目录中查找 name 对应的字体文件并读取其内容。
// name 可以是 "Arial"、"arial.ttf" 或一个绝对路径。
func FindSystem(name string) ([]byte, string, error) {
	if name == "" {
		return nil, "", ErrNotFound
	}
	path, err := findfont.Find(name)
	if err != nil || path == "" {
		tracer().Debugf("system font %q not found: %v", name, err)
		return nil, "", fmt.Errorf("系统字体 %s: %w", name, ErrNotFound)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("读取系统字体 %s 失败: %w", path, err)
	}
	tracer().Debugf("system font %q resolved to %s", name, path)
	return data, path, nil
}

// SystemFonts lists the font files go-findfont can see on this machine.
func SystemFonts() []string {
	return findfont.List()
}
