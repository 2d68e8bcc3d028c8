package dsl

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ByLCY/fontstory/layout"
)

// Keys accepted in assignments.
const (
	KeyFont       = "font"
	KeyFontFile   = "font-file"
	KeyColor      = "color"
	KeySize       = "size"
	KeyScale      = "scale"
	KeyLineHeight = "line-height"
)

var knownKeys = map[string]bool{
	KeyFont:       true,
	KeyFontFile:   true,
	KeyColor:      true,
	KeySize:       true,
	KeyScale:      true,
	KeyLineHeight: true,
}

// Text 拼接所有 text 块的行，以 "\n" 分隔。没有 text 块时返回空串。
func (s *Story) Text() string {
	var lines []string
	for _, st := range s.Statements {
		if st.Text == nil {
			continue
		}
		for _, l := range st.Text.Lines {
			lines = append(lines, string(l.Value))
		}
	}
	return strings.Join(lines, "\n")
}

// Lookup returns the value of the last assignment to key.
func (s *Story) Lookup(key string) (*Value, bool) {
	var found *Value
	for _, st := range s.Statements {
		if st.Assignment != nil && st.Assignment.Key == key {
			found = st.Assignment.Value
		}
	}
	return found, found != nil
}

// Export returns the last export directive, or nil.
func (s *Story) Export() *ExportDirective {
	var exp *ExportDirective
	for _, st := range s.Statements {
		if st.Export != nil {
			exp = st.Export
		}
	}
	return exp
}

// Validate 检查赋值键是否已知、取值类型是否匹配。
func (s *Story) Validate() error {
	for _, st := range s.Statements {
		a := st.Assignment
		if a == nil {
			continue
		}
		if !knownKeys[a.Key] {
			return fmt.Errorf("%s: 未知的属性 %q", a.Pos, a.Key)
		}
		switch a.Key {
		case KeySize, KeyScale, KeyLineHeight:
			if _, err := a.Value.Float(); err != nil {
				return fmt.Errorf("%s: %s 需要数值: %w", a.Pos, a.Key, err)
			}
		case KeyColor:
			if _, err := layout.ParseColor(a.Value.Raw()); err != nil {
				return fmt.Errorf("%s: %w", a.Pos, err)
			}
		}
	}
	return nil
}

// Raw returns the value as written, with strings unquoted.
func (v *Value) Raw() string {
	switch {
	case v == nil:
		return ""
	case v.String != nil:
		return string(*v.String)
	case v.Number != nil:
		return *v.Number
	case v.Color != nil:
		return *v.Color
	case v.Ident != nil:
		return *v.Ident
	}
	return ""
}

// Float interprets the value as a number. Lengths are converted to px and a
// trailing "x" (scale factor, "2x") is dropped.
func (v *Value) Float() (float64, error) {
	raw := strings.TrimSpace(v.Raw())
	if raw == "" {
		return 0, fmt.Errorf("空值")
	}
	if n, ok := strings.CutSuffix(raw, "x"); ok && !strings.HasSuffix(n, "p") {
		return strconv.ParseFloat(n, 64)
	}
	l, err := layout.ParseLength(raw)
	if err != nil {
		return 0, err
	}
	return l.ToPX(), nil
}
