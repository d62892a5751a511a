package domain

import (
	"sort"
	"time"

	"github.com/goccy/go-json"
)

const (
	FormatCSV  = "csv"
	FormatHTML = "html"
)

const (
	ErrCodeRowMissingField = "row_missing_field"
	ErrCodeRowBadLength    = "row_bad_length"
	ErrCodeRowInvalid      = "row_invalid"
)

// LoadReport 汇总一次目录加载：成功多少行、跳过多少行、为什么跳过。
type LoadReport struct {
	Source string `json:"source"`
	Format string `json:"format"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary LoadSummary `json:"summary"`
	Skipped []RowResult `json:"skipped"`
}

type LoadSummary struct {
	Loaded  int `json:"loaded"`
	Skipped int `json:"skipped"`
}

// RowResult 描述一条被跳过的源数据行。Line 从 1 开始计数，表头为第 1 行。
type RowResult struct {
	Line      int    `json:"line"`
	Title     string `json:"title"`
	ErrorCode string `json:"error_code"`
	ErrorMsg  string `json:"error_msg"`
}

// Finalize 做三件事：
// 1) 时间统一为 UTC
// 2) skipped 按行号稳定排序
// 3) summary.skipped 由 skipped 计算得出（loaded 由加载方填写）
func (r *LoadReport) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()

	if r.Skipped == nil {
		r.Skipped = []RowResult{}
	}
	sort.SliceStable(r.Skipped, func(i, j int) bool { return r.Skipped[i].Line < r.Skipped[j].Line })
	r.Summary.Skipped = len(r.Skipped)
}

// MarshalJSON 集中约束输出的稳定性；序列化使用 goccy/go-json。
func (r LoadReport) MarshalJSON() ([]byte, error) {
	type Alias LoadReport
	return json.Marshal(Alias(r))
}
