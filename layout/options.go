package layout

// DefaultLineHeightFactor 是固定行高倍数，不从字体度量推导。
const DefaultLineHeightFactor = 1.2

// BuildOptions 配置测量阶段所需的依赖与样式。
type BuildOptions struct {
	Measurer         Measurer
	Font             string
	FontSize         float64 // px
	LineHeightFactor float64 // <=0 时使用 DefaultLineHeightFactor
	Color            Color
	Scale            float64 // <=0 时按 1 处理
}

// Measurer 负责在给定字体与字号下测量单行文本的宽度（px）。
type Measurer interface {
	MeasureLine(content string, font string, fontSize float64) (float64, error)
}
