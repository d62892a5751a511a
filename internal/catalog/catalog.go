// Package catalog 把表格数据源（CSV 或 HTML 表格）加载为 domain.Catalog。
//
// 规则：
// - 源不可读：返回空目录 + ErrCodeUnavailable，调用方必须终止会话
// - 单行转换失败：跳过该行、记录到 LoadReport 并输出 warn 日志，继续加载
// - 目录顺序与源文件行顺序一致，不排序
package catalog

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/logging"
)

const (
	// ErrCodeUnavailable 表示数据源无法打开/读取。
	ErrCodeUnavailable = "catalog_unavailable"
	// ErrCodeInvalidHeader 表示表头缺少必需列。
	ErrCodeInvalidHeader = "catalog_invalid_header"
	// ErrCodeEmpty 表示没有任何一行加载成功。
	ErrCodeEmpty = "catalog_empty"
)

// Error 是加载阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	switch e.Code {
	case ErrCodeUnavailable:
		return fmt.Sprintf("%s：无法读取数据源 %q：%v", e.Code, e.Path, e.Err)
	case ErrCodeInvalidHeader:
		return fmt.Sprintf("%s：数据源 %q 表头无效：%v", e.Code, e.Path, e.Err)
	case ErrCodeEmpty:
		return fmt.Sprintf("%s：数据源 %q 中没有可用的电影", e.Code, e.Path)
	default:
		if e.Err != nil {
			return fmt.Sprintf("%s：%v", e.Code, e.Err)
		}
		return e.Code
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Code 从 error 中提取 error_code；若不是 *Error 则返回空串。
func Code(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsUnavailable 判断 err 是否表示数据源不可读。
func IsUnavailable(err error) bool { return Code(err) == ErrCodeUnavailable }

// FormatOf 按扩展名判断数据源格式：.html/.htm 为 HTML 表格，其余一律按 CSV 处理。
func FormatOf(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".html", ".htm":
		return domain.FormatHTML
	default:
		return domain.FormatCSV
	}
}

// Load 打开 path 并加载目录。
//
// 返回的 LoadReport 总是已 Finalize；即使出错也可以直接输出。
func Load(path string) (domain.Catalog, domain.LoadReport, error) {
	started := time.Now().UTC()
	format := FormatOf(path)

	f, err := os.Open(path)
	if err != nil {
		rep := domain.LoadReport{Source: path, Format: format, StartedAt: started, FinishedAt: time.Now().UTC()}
		rep.Finalize()
		logging.Error().Str("source", path).Err(err).Msg("catalog source unavailable")
		return domain.Catalog{}, rep, &Error{Code: ErrCodeUnavailable, Path: path, Err: err}
	}
	defer f.Close()

	c, rep, err := LoadReader(f, format, path)
	rep.StartedAt = started
	rep.Finalize()
	return c, rep, err
}

// LoadReader 从 r 读取 format 格式的数据；source 只用于报告与错误信息。
func LoadReader(r io.Reader, format, source string) (domain.Catalog, domain.LoadReport, error) {
	rep := domain.LoadReport{
		Source:    source,
		Format:    format,
		StartedAt: time.Now().UTC(),
		Skipped:   make([]domain.RowResult, 0, 8),
	}

	var (
		tbl table
		err error
	)
	switch format {
	case domain.FormatHTML:
		tbl, err = readHTML(r)
	default:
		tbl, err = readCSV(r)
	}
	if err != nil {
		rep.FinishedAt = time.Now().UTC()
		rep.Finalize()
		code := ErrCodeUnavailable
		if errors.Is(err, errNoHeader) {
			code = ErrCodeInvalidHeader
		}
		return domain.Catalog{}, rep, &Error{Code: code, Path: source, Err: err}
	}

	cols, err := indexHeader(tbl.header)
	if err != nil {
		rep.FinishedAt = time.Now().UTC()
		rep.Finalize()
		return domain.Catalog{}, rep, &Error{Code: ErrCodeInvalidHeader, Path: source, Err: err}
	}

	movies := make(domain.Catalog, 0, len(tbl.rows))
	for _, row := range tbl.rows {
		if row.err != nil {
			skip(&rep, source, RowError{Line: row.line, Code: domain.ErrCodeRowInvalid, Err: row.err})
			continue
		}
		m, rerr := ParseRow(cols, row.line, row.cells)
		if rerr != nil {
			skip(&rep, source, *rerr)
			continue
		}
		movies = append(movies, m)
	}

	rep.Summary.Loaded = len(movies)
	rep.FinishedAt = time.Now().UTC()
	rep.Finalize()

	logging.Info().
		Str("source", source).
		Str("format", format).
		Int("loaded", rep.Summary.Loaded).
		Int("skipped", rep.Summary.Skipped).
		Msg("catalog loaded")

	if len(movies) == 0 {
		return movies, rep, &Error{Code: ErrCodeEmpty, Path: source}
	}
	return movies, rep, nil
}

func skip(rep *domain.LoadReport, source string, e RowError) {
	rep.Skipped = append(rep.Skipped, domain.RowResult{
		Line:      e.Line,
		Title:     e.Title,
		ErrorCode: e.Code,
		ErrorMsg:  e.Err.Error(),
	})
	logging.Warn().
		Str("source", source).
		Int("line", e.Line).
		Str("error_code", e.Code).
		Err(e.Err).
		Msg("bad row skipped")
}
