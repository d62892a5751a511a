package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// errNoHeader 表示数据源里找不到表头行。
var errNoHeader = errors.New("未找到表头")

// table 是与格式无关的原始表格：一行表头 + 若干数据行。
type table struct {
	header []string
	rows   []rawRow
}

// rawRow 是一行原始单元格。err 非 nil 表示该行在切分阶段就已损坏（例如 CSV 引号不闭合）。
type rawRow struct {
	line  int
	cells []string
	err   error
}

func readCSV(r io.Reader) (table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return table{}, errNoHeader
		}
		return table{}, err
	}

	var t table
	t.header = header
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				t.rows = append(t.rows, rawRow{line: pe.StartLine, err: pe.Err})
				continue
			}
			return table{}, err
		}
		line, _ := cr.FieldPos(0)
		t.rows = append(t.rows, rawRow{line: line, cells: rec})
	}
	return t, nil
}

// readHTML 读取文档中第一个包含 Title 列的 <table>。
// 表头取 <thead> 的首行；没有 <thead> 时取表格首行（th 或 td 均可）。
// 行号按表格内的行序计算：表头为第 1 行。
func readHTML(r io.Reader) (table, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return table{}, err
	}

	var (
		found bool
		t     table
	)
	doc.Find("table").EachWithBreak(func(_ int, tbl *goquery.Selection) bool {
		trs := tbl.Find("tr")
		if trs.Length() == 0 {
			return true
		}
		header := cellTexts(trs.First())
		if !hasColumn(header, ColTitle) {
			return true
		}

		t.header = header
		trs.Slice(1, trs.Length()).Each(func(i int, tr *goquery.Selection) {
			cells := cellTexts(tr)
			if len(cells) == 0 {
				return
			}
			t.rows = append(t.rows, rawRow{line: i + 2, cells: cells})
		})
		found = true
		return false
	})
	if !found {
		return table{}, fmt.Errorf("%w：没有包含 %s 列的 <table>", errNoHeader, ColTitle)
	}
	return t, nil
}

func cellTexts(tr *goquery.Selection) []string {
	var out []string
	tr.Children().Filter("th, td").Each(func(_ int, c *goquery.Selection) {
		out = append(out, normSpace(c.Text()))
	})
	return out
}

func hasColumn(header []string, name string) bool {
	for _, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return true
		}
	}
	return false
}

// normSpace 把单元格内的连续空白（含换行）压缩为一个空格。
func normSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
