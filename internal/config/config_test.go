package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadEffective_DefaultsWithoutFile(t *testing.T) {
	cwd := t.TempDir()

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Catalog != filepath.Join(cwd, DefaultCatalog) {
		t.Fatalf("期望 catalog=%q，实际=%q", filepath.Join(cwd, DefaultCatalog), eff.Catalog)
	}
	if eff.Report != "" {
		t.Fatalf("默认不应写 report，实际=%q", eff.Report)
	}
	if eff.LogLevel != DefaultLogLevel || eff.LogFormat != DefaultLogFormat {
		t.Fatalf("日志默认值不符合预期：%+v", eff)
	}
}

func TestLoadEffective_FileOverridesDefaults(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte("catalog: data/films.html\nlog_level: INFO\nlog_format: json\nreport: out/report.json\n"))

	eff, err := LoadEffective(cwd, CLIArgs{})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Catalog != filepath.Join(cwd, "data", "films.html") {
		t.Fatalf("catalog 不符合预期：%q", eff.Catalog)
	}
	if eff.Report != filepath.Join(cwd, "out", "report.json") {
		t.Fatalf("report 不符合预期：%q", eff.Report)
	}
	if eff.LogLevel != "info" || eff.LogFormat != "json" {
		t.Fatalf("日志配置不符合预期：%+v", eff)
	}
}

func TestLoadEffective_CLIOverridesFile(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte("catalog: a.csv\nreport: r.json\nlog_level: debug\n"))

	abs := filepath.Join(t.TempDir(), "b.csv")
	eff, err := LoadEffective(cwd, CLIArgs{
		Catalog:     abs,
		CatalogSet:  true,
		Report:      "",
		ReportSet:   true, // --report= 显式关闭
		LogLevel:    "error",
		LogLevelSet: true,
	})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	if eff.Catalog != abs {
		t.Fatalf("期望 catalog=%q，实际=%q", abs, eff.Catalog)
	}
	if eff.Report != "" {
		t.Fatalf("期望 report 被 CLI 清空，实际=%q", eff.Report)
	}
	if eff.LogLevel != "error" {
		t.Fatalf("期望 log_level=error，实际=%q", eff.LogLevel)
	}
}

func TestLoadEffective_InvalidYAML(t *testing.T) {
	cwd := t.TempDir()
	writeFile(t, filepath.Join(cwd, FileName), []byte("catalog: [unterminated\n"))

	_, err := LoadEffective(cwd, CLIArgs{})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_InvalidLogLevel(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{LogLevel: "loud", LogLevelSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func TestLoadEffective_EmptyCatalogRejected(t *testing.T) {
	cwd := t.TempDir()

	_, err := LoadEffective(cwd, CLIArgs{Catalog: "  ", CatalogSet: true})
	if Code(err) != ErrCodeInvalid {
		t.Fatalf("期望 %q，实际 err=%v (code=%q)", ErrCodeInvalid, err, Code(err))
	}
}

func writeFile(t *testing.T, path string, b []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("创建目录失败：%v", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		t.Fatalf("写入文件失败 %q：%v", path, err)
	}
}
