package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/validation"
)

// 数据源必需的列名（匹配时忽略大小写与首尾空白）。
const (
	ColTitle    = "Title"
	ColDirector = "Director"
	ColGenre    = "Genre"
	ColRating   = "Rating"
	ColLength   = "Length"
	ColActors   = "Actors"
)

const (
	genreSep = "/"
	actorSep = ","
)

var requiredCols = []string{ColTitle, ColDirector, ColGenre, ColRating, ColLength, ColActors}

// Columns 记录每个必需列在行中的下标。
type Columns map[string]int

// RowError 是单行转换失败的结构化结果。
type RowError struct {
	Line  int
	Title string
	Code  string
	Err   error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %s: %v", e.Line, e.Code, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func indexHeader(header []string) (Columns, error) {
	byName := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := byName[h]; dup {
			continue
		}
		byName[h] = i
	}

	cols := make(Columns, len(requiredCols))
	var missing []string
	for _, name := range requiredCols {
		i, ok := byName[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[name] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("缺少列 %s", strings.Join(missing, ", "))
	}
	return cols, nil
}

// ParseRow 把一行原始单元格转换为 Movie。
// 任一字段转换失败都返回 *RowError，且不会产生部分填充的 Movie。
func ParseRow(cols Columns, line int, cells []string) (domain.Movie, *RowError) {
	get := func(name string) (string, bool) {
		i, ok := cols[name]
		if !ok || i >= len(cells) {
			return "", false
		}
		return cells[i], true
	}

	raw := make(map[string]string, len(requiredCols))
	for _, name := range requiredCols {
		v, ok := get(name)
		if !ok {
			title, _ := get(ColTitle)
			return domain.Movie{}, &RowError{
				Line:  line,
				Title: strings.TrimSpace(title),
				Code:  domain.ErrCodeRowMissingField,
				Err:   fmt.Errorf("缺少字段 %s", name),
			}
		}
		raw[name] = v
	}

	title := strings.TrimSpace(raw[ColTitle])

	length, err := strconv.Atoi(strings.TrimSpace(raw[ColLength]))
	if err != nil {
		return domain.Movie{}, &RowError{
			Line:  line,
			Title: title,
			Code:  domain.ErrCodeRowBadLength,
			Err:   fmt.Errorf("Length 不是整数：%q", raw[ColLength]),
		}
	}

	m := domain.Movie{
		Title:    title,
		Director: strings.ToLower(strings.TrimSpace(raw[ColDirector])),
		Genres:   splitList(raw[ColGenre], genreSep),
		Rating:   strings.TrimSpace(raw[ColRating]),
		Length:   length,
		Actors:   splitList(raw[ColActors], actorSep),
	}

	if err := validation.Struct(m); err != nil {
		return domain.Movie{}, &RowError{Line: line, Title: title, Code: domain.ErrCodeRowInvalid, Err: err}
	}
	return m, nil
}

// splitList 按 sep 拆分，逐项 trim + 小写，并丢弃空项（例如 "Drama/" 末尾的空串）。
func splitList(s, sep string) []string {
	parts := strings.Split(s, sep)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}
