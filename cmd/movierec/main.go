package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/goccy/go-json"

	"github.com/John-Robertt/movierec/internal/app/session"
	"github.com/John-Robertt/movierec/internal/catalog"
	"github.com/John-Robertt/movierec/internal/config"
	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/filter"
	"github.com/John-Robertt/movierec/internal/infra/fsx"
	"github.com/John-Robertt/movierec/internal/logging"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// run 是可测试的入口：返回进程退出码（0 成功，1 运行失败，2 参数错误）。
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := "search"
	if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		switch args[0] {
		case "search", "list", "query":
			cmd, args = args[0], args[1:]
		case "help":
			printUsage(stdout)
			return 0
		}
	}
	for _, a := range args {
		if isHelp(a) {
			printUsage(stdout)
			return 0
		}
	}

	ca, err := parseArgs(cmd, args)
	if err != nil {
		fmt.Fprintf(stderr, "参数错误：%v\n\n", err)
		printUsage(stderr)
		return 2
	}

	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintf(stderr, "读取当前目录失败：%v\n", err)
		return 1
	}
	eff, err := config.LoadEffective(cwd, ca.CLI)
	if err != nil {
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	logging.Init(logging.Config{Level: eff.LogLevel, Format: eff.LogFormat, Output: stderr})

	movies, rep, err := catalog.Load(eff.Catalog)
	if eff.Report != "" {
		if werr := writeReportFile(eff.Report, rep); werr != nil {
			fmt.Fprintf(stderr, "写入 report 失败：%v\n", werr)
		}
	}
	if err != nil {
		// 数据源不可读或没有任何可用电影：会话必须终止，不对空目录做过滤。
		fmt.Fprintf(stderr, "%v\n", err)
		return 1
	}
	if rep.Summary.Skipped > 0 {
		fmt.Fprintf(stderr, "已加载 %d 部电影，跳过 %d 行\n", rep.Summary.Loaded, rep.Summary.Skipped)
	}

	switch cmd {
	case "list":
		return emitMovies(stdout, movies)
	case "query":
		return emitMovies(stdout, filter.Apply(movies, session.BuildCriteria(ca.Answers)))
	default:
		if err := session.New(movies, stdin, stdout, logObserver{}).Run(); err != nil {
			fmt.Fprintf(stderr, "读取输入失败：%v\n", err)
			return 1
		}
		return 0
	}
}

type cmdArgs struct {
	CLI     config.CLIArgs
	Answers session.Answers
}

func parseArgs(cmd string, args []string) (cmdArgs, error) {
	var ca cmdArgs

	// 过滤参数只对 query 有意义。
	filterFlags := map[string]*string{
		"--genre":    &ca.Answers.Genre,
		"--director": &ca.Answers.Director,
		"--actor":    &ca.Answers.Actor,
		"--min":      &ca.Answers.MinText,
		"--max":      &ca.Answers.MaxText,
	}
	var lengthPicked bool
	pick := func(name string) {
		switch name {
		case "--genre":
			ca.Answers.Picks = append(ca.Answers.Picks, domain.KindGenre)
		case "--director":
			ca.Answers.Picks = append(ca.Answers.Picks, domain.KindDirector)
		case "--actor":
			ca.Answers.Picks = append(ca.Answers.Picks, domain.KindActor)
		case "--min", "--max":
			if !lengthPicked {
				lengthPicked = true
				ca.Answers.Picks = append(ca.Answers.Picks, domain.KindLength)
			}
		}
	}

	for i := 0; i < len(args); i++ {
		a := args[i]
		name, val, hasVal := strings.Cut(a, "=")
		if !strings.HasPrefix(a, "-") {
			if ca.CLI.CatalogSet {
				return cmdArgs{}, fmt.Errorf("重复的数据源：%q 与 %q", ca.CLI.Catalog, a)
			}
			ca.CLI.Catalog = a
			ca.CLI.CatalogSet = true
			continue
		}

		switch name {
		case "--report", "--log-level", "--genre", "--director", "--actor", "--min", "--max":
		default:
			return cmdArgs{}, fmt.Errorf("未知参数 %q", a)
		}
		if !hasVal {
			if i+1 >= len(args) {
				return cmdArgs{}, fmt.Errorf("%s 需要一个值", name)
			}
			i++
			val = args[i]
		}

		switch name {
		case "--report":
			ca.CLI.Report, ca.CLI.ReportSet = val, true
		case "--log-level":
			ca.CLI.LogLevel, ca.CLI.LogLevelSet = val, true
		default:
			if cmd != "query" {
				return cmdArgs{}, fmt.Errorf("%s 只能用于 query 命令", name)
			}
			*filterFlags[name] = val
			pick(name)
		}
	}
	return ca, nil
}

// emitMovies 输出结果：stdout 是 TTY 时打印编号列表，否则输出一个 JSON 数组。
func emitMovies(w io.Writer, movies domain.Catalog) int {
	if f, ok := w.(*os.File); ok && isTTY(f) {
		session.PrintMovies(w, movies)
		return 0
	}
	if movies == nil {
		movies = domain.Catalog{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(movies); err != nil {
		return 1
	}
	return 0
}

func writeReportFile(path string, rep domain.LoadReport) error {
	b, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return err
	}
	b = append(b, '\n')
	return fsx.WriteFileAtomicPath(path, b)
}

func isHelp(s string) bool {
	return s == "-h" || s == "--help"
}

func isTTY(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func printUsage(w io.Writer) {
	fmt.Fprint(w, `用法：
  movierec [search] [file] [--report path] [--log-level level]
  movierec list [file] [--report path] [--log-level level]
  movierec query [file] [--genre text] [--director text] [--actor text] [--min n] [--max n]

命令：
  search  交互式菜单（默认）
  list    打印全部电影
  query   一次性搜索；stdout 非 TTY 时输出 JSON

参数：
  file         数据源（CSV，或 .html/.htm 中的表格；默认读配置文件，最终默认 movies.csv）
  --report     把加载报告写入指定 JSON 文件
  --log-level  trace|debug|info|warn|error|disabled
  --min/--max  时长区间（分钟，闭区间）；非法数字按不限处理
  -h, --help   显示帮助
`)
}
