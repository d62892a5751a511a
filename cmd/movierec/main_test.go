package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/goccy/go-json"

	"github.com/John-Robertt/movierec/internal/domain"
)

const testCSV = `Title,Director,Genre,Rating,Length,Actors
A,Jane Doe,Drama,PG,90,"Ann, Bob"
B,John Roe,Comedy/Drama,R,150,Cid
Broken,John Roe,Drama,R,abc,Cid
`

func setup(t *testing.T) (dir, csvPath string) {
	t.Helper()
	dir = t.TempDir()
	oldWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("获取工作目录失败：%v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("切换工作目录失败：%v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(oldWd) })
	csvPath = filepath.Join(dir, "movies.csv")
	if err := os.WriteFile(csvPath, []byte(testCSV), 0o644); err != nil {
		t.Fatalf("写入文件失败：%v", err)
	}
	return dir, csvPath
}

func TestRun_QueryOutputsJSONWhenNotTTY(t *testing.T) {
	_, csvPath := setup(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"query", csvPath, "--genre", "drama", "--min=100"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr.String())
	}

	var got []domain.Movie
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout 不是合法 JSON：%v\n%s", err, stdout.String())
	}
	if len(got) != 1 || got[0].Title != "B" {
		t.Fatalf("期望 [B]，实际 %+v", got)
	}
	if !strings.Contains(stderr.String(), "跳过 1 行") {
		t.Fatalf("stderr 应提示跳过的行：%q", stderr.String())
	}
}

func TestRun_QueryMalformedMinIsUnbounded(t *testing.T) {
	_, csvPath := setup(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"query", csvPath, "--min", "not a number", "--max", "100"}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr.String())
	}
	var got []domain.Movie
	if err := json.Unmarshal(stdout.Bytes(), &got); err != nil {
		t.Fatalf("stdout 不是合法 JSON：%v", err)
	}
	if len(got) != 1 || got[0].Title != "A" {
		t.Fatalf("期望 [A]，实际 %+v", got)
	}
}

func TestRun_ListWritesReport(t *testing.T) {
	dir, csvPath := setup(t)
	reportPath := filepath.Join(dir, "out", "report.json")

	var stdout, stderr bytes.Buffer
	code := run([]string{"list", csvPath, "--report", reportPath}, strings.NewReader(""), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr.String())
	}

	var all []domain.Movie
	if err := json.Unmarshal(stdout.Bytes(), &all); err != nil || len(all) != 2 {
		t.Fatalf("list 输出不符合预期：err=%v out=%s", err, stdout.String())
	}

	b, err := os.ReadFile(reportPath)
	if err != nil {
		t.Fatalf("report 未写出：%v", err)
	}
	var rep domain.LoadReport
	if err := json.Unmarshal(b, &rep); err != nil {
		t.Fatalf("report 不是合法 JSON：%v", err)
	}
	if rep.Summary.Loaded != 2 || rep.Summary.Skipped != 1 || rep.Skipped[0].Line != 4 {
		t.Fatalf("report 内容不符合预期：%+v", rep)
	}
}

func TestRun_MissingSourceIsFatal(t *testing.T) {
	dir, _ := setup(t)

	var stdout, stderr bytes.Buffer
	code := run([]string{"search", filepath.Join(dir, "missing.csv")}, strings.NewReader("1\n\n3\n"), &stdout, &stderr)
	if code != 1 {
		t.Fatalf("期望退出码 1，实际 %d", code)
	}
	if stdout.Len() != 0 {
		t.Fatalf("数据源不可读时不应进入菜单：%q", stdout.String())
	}
	if !strings.Contains(stderr.String(), "catalog_unavailable") {
		t.Fatalf("stderr 应包含错误码：%q", stderr.String())
	}
}

func TestRun_InteractiveDefaultCommand(t *testing.T) {
	setup(t)

	var stdout, stderr bytes.Buffer
	// 不传 file：使用默认的 movies.csv（相对 cwd）。
	code := run(nil, strings.NewReader("2\n3\n"), &stdout, &stderr)
	if code != 0 {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr.String())
	}
	if !strings.Contains(stdout.String(), "2 B | john roe | 150 min") {
		t.Fatalf("全量列表不符合预期：%q", stdout.String())
	}
}

func TestRun_ConfigFileSuppliesCatalog(t *testing.T) {
	dir, _ := setup(t)
	if err := os.Rename(filepath.Join(dir, "movies.csv"), filepath.Join(dir, "films.csv")); err != nil {
		t.Fatalf("重命名失败：%v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "movierec.yaml"), []byte("catalog: films.csv\n"), 0o644); err != nil {
		t.Fatalf("写入配置失败：%v", err)
	}

	var stdout, stderr bytes.Buffer
	if code := run([]string{"list"}, strings.NewReader(""), &stdout, &stderr); code != 0 {
		t.Fatalf("期望退出码 0，实际 %d；stderr=%s", code, stderr.String())
	}
}

func TestParseArgs_Errors(t *testing.T) {
	cases := [][]string{
		{"--nope"},
		{"a.csv", "b.csv"},
		{"--report"},
	}
	for _, args := range cases {
		if _, err := parseArgs("search", args); err == nil {
			t.Fatalf("parseArgs(%q) 期望错误", args)
		}
	}
	if _, err := parseArgs("list", []string{"--genre", "drama"}); err == nil {
		t.Fatalf("过滤参数只能用于 query")
	}
}

func TestParseArgs_QueryPicks(t *testing.T) {
	ca, err := parseArgs("query", []string{"--max", "120", "--actor=tom", "--min", "90"})
	if err != nil {
		t.Fatalf("不期望错误：%v", err)
	}
	want := []domain.Kind{domain.KindLength, domain.KindActor}
	if len(ca.Answers.Picks) != 2 || ca.Answers.Picks[0] != want[0] || ca.Answers.Picks[1] != want[1] {
		t.Fatalf("picks 不符合预期：%v", ca.Answers.Picks)
	}
	if ca.Answers.MinText != "90" || ca.Answers.MaxText != "120" || ca.Answers.Actor != "tom" {
		t.Fatalf("answers 不符合预期：%+v", ca.Answers)
	}
}

func TestRun_UsageErrorExitCode(t *testing.T) {
	var stdout, stderr bytes.Buffer
	if code := run([]string{"--bogus"}, strings.NewReader(""), &stdout, &stderr); code != 2 {
		t.Fatalf("期望退出码 2，实际 %d", code)
	}
}
