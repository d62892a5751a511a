// Package filter 实现目录过滤：四个按属性过滤的纯函数，以及按固定顺序组合它们的 Apply。
//
// 约束：
// - 所有函数都不修改输入目录，结果保持输入顺序
// - 无匹配时返回空切片（非 nil），不是错误
package filter

import (
	"strings"

	"github.com/John-Robertt/movierec/internal/domain"
)

// Normalize 是文本条件的统一规范化：去首尾空白 + 小写。
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// ByGenre 保留至少一个 genre 包含 text（子串、不区分大小写）的电影。空 text 匹配全部。
func ByGenre(c domain.Catalog, text string) domain.Catalog {
	text = Normalize(text)
	return keep(c, func(m domain.Movie) bool { return anyContains(m.Genres, text) })
}

// ByDirector 保留 director 包含 text 的电影。
func ByDirector(c domain.Catalog, text string) domain.Catalog {
	text = Normalize(text)
	return keep(c, func(m domain.Movie) bool { return strings.Contains(m.Director, text) })
}

// ByActor 保留至少一个 actor 包含 text 的电影。
func ByActor(c domain.Catalog, text string) domain.Catalog {
	text = Normalize(text)
	return keep(c, func(m domain.Movie) bool { return anyContains(m.Actors, text) })
}

// ByLength 按闭区间 [min, max] 过滤；nil 表示该侧不限。
// 不校验 min <= max：区间颠倒时结果自然为空。
func ByLength(c domain.Catalog, min, max *int) domain.Catalog {
	return keep(c, func(m domain.Movie) bool {
		if min != nil && m.Length < *min {
			return false
		}
		if max != nil && m.Length > *max {
			return false
		}
		return true
	})
}

// Apply 按 genre -> director -> actor -> length 的固定顺序逐级收窄，结果等价于各条件的交集。
// 未选择的种类直接跳过；一个条件都没有时原样返回目录（同一顺序）。
func Apply(c domain.Catalog, cs domain.Criteria) domain.Catalog {
	if cs.Len() == 0 {
		return c
	}

	out := c
	for _, cr := range cs.Selected() {
		out = applyOne(out, cr)
	}
	return out
}

func applyOne(c domain.Catalog, cr domain.Criterion) domain.Catalog {
	switch cr.Kind() {
	case domain.KindGenre:
		return ByGenre(c, cr.Text())
	case domain.KindDirector:
		return ByDirector(c, cr.Text())
	case domain.KindActor:
		return ByActor(c, cr.Text())
	case domain.KindLength:
		min, max := cr.Bounds()
		return ByLength(c, min, max)
	default:
		return c
	}
}

func keep(c domain.Catalog, pred func(domain.Movie) bool) domain.Catalog {
	out := make(domain.Catalog, 0, len(c))
	for _, m := range c {
		if pred(m) {
			out = append(out, m)
		}
	}
	return out
}

func anyContains(values []string, text string) bool {
	for _, v := range values {
		if strings.Contains(v, text) {
			return true
		}
	}
	return false
}
