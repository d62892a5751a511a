package session

import (
	"strconv"
	"strings"

	"github.com/John-Robertt/movierec/internal/domain"
)

// Answers 是一次搜索在提示阶段收集到的原始输入。
// 它只在展示层内部累积；交给过滤层之前必须经 BuildCriteria 转换为不可变的 domain.Criteria。
type Answers struct {
	Picks []domain.Kind

	Genre    string
	Director string
	Actor    string

	// MinText/MaxText 是用户输入的原始文本；非法数字按“不限”处理。
	MinText string
	MaxText string
}

// BuildCriteria 把 Answers 转换为 Criteria：只有被选中的种类才会成为条件。
func BuildCriteria(a Answers) domain.Criteria {
	var cs domain.Criteria
	for _, k := range a.Picks {
		switch k {
		case domain.KindGenre:
			cs = cs.With(domain.Genre(a.Genre))
		case domain.KindDirector:
			cs = cs.With(domain.Director(a.Director))
		case domain.KindActor:
			cs = cs.With(domain.Actor(a.Actor))
		case domain.KindLength:
			cs = cs.With(domain.Length(ParseBound(a.MinText), ParseBound(a.MaxText)))
		}
	}
	return cs
}

// ParseBound 解析时长边界：去空白后必须是非空的纯数字（0-9）。
// 其余输入（空白、负数、带符号、小数、字母）一律返回 nil，表示该侧不限。
func ParseBound(s string) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return nil
		}
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		// 超出 int 范围
		return nil
	}
	return &v
}

// 菜单编号与过滤种类的对应关系。
var pickByToken = map[string]domain.Kind{
	"1": domain.KindGenre,
	"2": domain.KindDirector,
	"3": domain.KindActor,
	"4": domain.KindLength,
}

// ParsePicks 解析逗号分隔的过滤编号（1 genre, 2 director, 3 actor, 4 length）。
// 未知编号忽略；重复编号只保留第一次出现的位置。返回顺序即提示顺序。
func ParsePicks(s string) []domain.Kind {
	seen := make(map[domain.Kind]bool, 4)
	out := make([]domain.Kind, 0, 4)
	for _, p := range strings.Split(s, ",") {
		k, ok := pickByToken[strings.TrimSpace(p)]
		if !ok || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}
