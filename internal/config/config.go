package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/John-Robertt/movierec/internal/validation"
)

const (
	// ErrCodeInvalid 表示配置文件无法读取/解析，或字段不合法。
	ErrCodeInvalid = "config_invalid"
)

const (
	// FileName 是 cwd 下可选的配置文件名。
	FileName = "movierec.yaml"

	DefaultCatalog   = "movies.csv"
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// CLIArgs 只包含 CLI 暴露的覆盖项，并保留“是否显式指定”的信息，
// 保证 CLI > 配置文件 > 默认值 的优先级可实现。
type CLIArgs struct {
	Catalog    string
	CatalogSet bool

	Report    string
	ReportSet bool

	LogLevel    string
	LogLevelSet bool
}

// FileConfig 对应 movierec.yaml；koanf 先装载默认值，再叠加文件内容。
type FileConfig struct {
	Catalog   string `koanf:"catalog"`
	Report    string `koanf:"report"`
	LogLevel  string `koanf:"log_level"`
	LogFormat string `koanf:"log_format"`
}

// EffectiveConfig 是合并并规范化后的最终配置。
type EffectiveConfig struct {
	// Catalog 是数据源的绝对路径。
	Catalog string `validate:"required"`
	// Report 为空表示不写 LoadReport 文件；否则为绝对路径。
	Report    string
	LogLevel  string `validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `validate:"oneof=console json"`
}

// Error 是配置阶段的结构化错误（带 error_code）。
type Error struct {
	Code string
	Path string
	Err  error
}

func (e *Error) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s：配置文件 %q 无效：%v", e.Code, e.Path, e.Err)
	}
	return fmt.Sprintf("%s：%v", e.Code, e.Err)
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

func defaults() FileConfig {
	return FileConfig{
		Catalog:   DefaultCatalog,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// LoadEffective 读取 <cwd>/movierec.yaml（可选），然后与 CLI 参数合并为最终配置。
//
// 覆盖优先级（固定）：CLI > 配置文件 > 内置默认值。
// 不读取环境变量。
func LoadEffective(cwd string, cli CLIArgs) (EffectiveConfig, error) {
	cwdAbs, err := filepath.Abs(cwd)
	if err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	k := koanf.New(".")
	if err := k.Load(structs.Provider(defaults(), "koanf"), nil); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Err: err}
	}

	cfgPath := filepath.Join(cwdAbs, FileName)
	if _, err := os.Stat(cfgPath); err == nil {
		if err := k.Load(file.Provider(cfgPath), yaml.Parser()); err != nil {
			return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
		}
	} else if !os.IsNotExist(err) {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	} else {
		cfgPath = ""
	}

	var fc FileConfig
	if err := k.Unmarshal("", &fc); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return merge(cwdAbs, cli, fc, cfgPath)
}

func merge(cwdAbs string, cli CLIArgs, fc FileConfig, cfgPath string) (EffectiveConfig, error) {
	catalog := fc.Catalog
	if cli.CatalogSet {
		catalog = cli.Catalog
	}
	report := fc.Report
	if cli.ReportSet {
		report = cli.Report
	}
	level := fc.LogLevel
	if cli.LogLevelSet {
		level = cli.LogLevel
	}

	eff := EffectiveConfig{
		Catalog:   absCleanFrom(cwdAbs, catalog),
		Report:    absCleanFrom(cwdAbs, report),
		LogLevel:  strings.ToLower(strings.TrimSpace(level)),
		LogFormat: strings.ToLower(strings.TrimSpace(fc.LogFormat)),
	}
	if err := validation.Struct(eff); err != nil {
		return EffectiveConfig{}, &Error{Code: ErrCodeInvalid, Path: cfgPath, Err: err}
	}
	return eff, nil
}

// absCleanFrom 以 base 为基准，把 p 变为 clean + absolute；p 为空时返回空串。
func absCleanFrom(base, p string) string {
	p = strings.TrimSpace(p)
	if p == "" {
		return ""
	}
	p = filepath.Clean(p)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(base, p))
}
