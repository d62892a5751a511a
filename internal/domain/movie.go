package domain

// Movie 是目录中的一条电影记录（已规范化）。
//
// 不变量（由 catalog 加载阶段保证）：
// - Title/Director 非空；Genres/Actors 至少各一项
// - Director/Genres/Actors 已 trim + 小写，用于匹配；Title/Rating 保留原大小写
// - Length 只要求可解析为整数，不做范围校验
type Movie struct {
	Title    string   `json:"title" validate:"required"`
	Director string   `json:"director" validate:"required"`
	Genres   []string `json:"genres" validate:"min=1"`
	Rating   string   `json:"rating"`
	Length   int      `json:"length"`
	Actors   []string `json:"actors" validate:"min=1"`
}

// Catalog 是加载完成后的电影列表，顺序与源文件一致。
// 加载后只读：过滤函数只返回新切片，不修改其中的 Movie。
type Catalog []Movie

// Titles 返回目录内所有标题（保持顺序），主要用于日志与测试断言。
func (c Catalog) Titles() []string {
	out := make([]string, 0, len(c))
	for _, m := range c {
		out = append(out, m.Title)
	}
	return out
}
