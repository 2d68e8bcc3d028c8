package layout

// 该文件定义测量结果，供渲染、导出与调试 JSON 共用。

// Result 保存一次测量的全部结果。所有长度均为逻辑像素（px）。
type Result struct {
	Lines      []TextLine `json:"lines"`
	Width      float64    `json:"width"`
	Height     float64    `json:"height"`
	Font       string     `json:"font"`
	FontSize   float64    `json:"fontSize"`
	LineHeight float64    `json:"lineHeight"`
	Color      Color      `json:"color"`
	Scale      float64    `json:"scale"` // 像素密度，导出位图 = 逻辑尺寸 × Scale
}

// TextLine 表示一行文本及其测量宽度与顶部位置。
type TextLine struct {
	Content string  `json:"content"`
	Width   float64 `json:"width"`
	Y       float64 `json:"y"`
}

// Empty reports whether the result covers no area.
func (r *Result) Empty() bool {
	return r == nil || r.Width <= 0 || r.Height <= 0
}
