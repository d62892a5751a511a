package domain

import "fmt"

// Kind 是过滤条件的种类。常量顺序即组合过滤的固定顺序：genre -> director -> actor -> length。
type Kind int

const (
	KindGenre Kind = iota
	KindDirector
	KindActor
	KindLength

	kindCount
)

// Kinds 按固定顺序返回全部种类。
func Kinds() []Kind {
	return []Kind{KindGenre, KindDirector, KindActor, KindLength}
}

func (k Kind) String() string {
	switch k {
	case KindGenre:
		return "genre"
	case KindDirector:
		return "director"
	case KindActor:
		return "actor"
	case KindLength:
		return "length"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

func (k Kind) valid() bool { return k >= KindGenre && k < kindCount }

// Criterion 是一个过滤条件（tagged union）：
// - KindGenre/KindDirector/KindActor：只使用 Text
// - KindLength：只使用 Min/Max（闭区间，nil 表示该侧不限）
//
// 只能通过 Genre/Director/Actor/Length 构造，保证 Kind 与字段一致。
type Criterion struct {
	kind Kind
	text string
	min  *int
	max  *int
}

func Genre(text string) Criterion    { return Criterion{kind: KindGenre, text: text} }
func Director(text string) Criterion { return Criterion{kind: KindDirector, text: text} }
func Actor(text string) Criterion    { return Criterion{kind: KindActor, text: text} }

// Length 构造时长区间条件；min/max 会被复制，调用方后续修改原变量不影响条件。
func Length(min, max *int) Criterion {
	return Criterion{kind: KindLength, min: copyInt(min), max: copyInt(max)}
}

func (c Criterion) Kind() Kind   { return c.kind }
func (c Criterion) Text() string { return c.text }

// Bounds 返回时长区间的副本（非 KindLength 时恒为 nil, nil）。
func (c Criterion) Bounds() (min, max *int) {
	return copyInt(c.min), copyInt(c.max)
}

func (c Criterion) String() string {
	if c.kind == KindLength {
		return fmt.Sprintf("length[%s,%s]", boundString(c.min), boundString(c.max))
	}
	return fmt.Sprintf("%s=%q", c.kind, c.text)
}

// Criteria 是一次搜索选中的条件集合（值类型，构造后不可变）。
// 每种 Kind 至多一个；重复种类以后出现的为准。
type Criteria struct {
	set [kindCount]bool
	val [kindCount]Criterion
}

// NewCriteria 用若干条件构造集合。零值 Criteria 表示“未选择任何条件”。
func NewCriteria(cs ...Criterion) Criteria {
	var out Criteria
	for _, c := range cs {
		if !c.kind.valid() {
			continue
		}
		out.set[c.kind] = true
		out.val[c.kind] = c
	}
	return out
}

// With 返回追加（或替换）一个条件后的新集合；原集合不变。
func (cs Criteria) With(c Criterion) Criteria {
	if !c.kind.valid() {
		return cs
	}
	cs.set[c.kind] = true
	cs.val[c.kind] = c
	return cs
}

// Get 返回指定种类的条件；未选择时 ok=false。
func (cs Criteria) Get(k Kind) (Criterion, bool) {
	if !k.valid() || !cs.set[k] {
		return Criterion{}, false
	}
	return cs.val[k], true
}

// Len 返回已选择的条件数量。
func (cs Criteria) Len() int {
	n := 0
	for _, ok := range cs.set {
		if ok {
			n++
		}
	}
	return n
}

// Selected 按固定顺序返回已选择的条件。
func (cs Criteria) Selected() []Criterion {
	out := make([]Criterion, 0, kindCount)
	for _, k := range Kinds() {
		if cs.set[k] {
			out = append(out, cs.val[k])
		}
	}
	return out
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func boundString(p *int) string {
	if p == nil {
		return "-"
	}
	return fmt.Sprintf("%d", *p)
}
