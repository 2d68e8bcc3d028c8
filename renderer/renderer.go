package renderer

import "github.com/ByLCY/fontstory/layout"

// Renderer 将测量结果绘制为位图画布。
// 每次调用都生成新的 Surface，不缓存上一次的结果。
type Renderer interface {
	Render(result *layout.Result) (*Surface, error)
}
