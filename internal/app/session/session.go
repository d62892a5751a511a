// Package session 是交互式推荐会话：菜单循环、收集过滤条件、打印结果。
//
// 约束：
// - 只做输入/输出与条件组装；过滤全部委托给 filter 包
// - 目录由调用方持有并传入，会话期间只读
package session

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/filter"
)

// Observer 用于把会话事件（例如每次搜索的条件与结果数）从交互流程中解耦出来。
// obs 为 nil 时 Session 不发事件。
type Observer interface {
	// OnSearch 在一次搜索完成后调用。
	OnSearch(cs domain.Criteria, results int, dur time.Duration)
	// OnListAll 在打印全量目录后调用。
	OnListAll(total int)
}

// Session 持有一个已加载的目录和一对输入/输出流。
type Session struct {
	catalog domain.Catalog
	in      *bufio.Scanner
	out     io.Writer
	obs     Observer
}

// New 创建会话。目录为空时调用方不应创建会话（参见 catalog.ErrCodeEmpty）。
func New(c domain.Catalog, in io.Reader, out io.Writer, obs Observer) *Session {
	return &Session{
		catalog: c,
		in:      bufio.NewScanner(in),
		out:     out,
		obs:     obs,
	}
}

// Run 执行菜单循环，直到用户选择退出或输入结束（EOF）。
func (s *Session) Run() error {
	fmt.Fprintln(s.out, " Welcome to your movie recommender program!")
	fmt.Fprintln(s.out, "Here you can search by genre, director, actor, and length!")
	fmt.Fprintln(s.out, "Choose one of the options below!")

	for {
		fmt.Fprintln(s.out, "\nmenu")
		fmt.Fprintln(s.out, "1 search")
		fmt.Fprintln(s.out, "2 print all")
		fmt.Fprintln(s.out, "3 exit")

		choice, ok := s.ask("choice: ")
		if !ok {
			return s.in.Err()
		}
		switch strings.TrimSpace(choice) {
		case "1":
			if !s.search() {
				return s.in.Err()
			}
		case "2":
			s.listAll()
		case "3":
			fmt.Fprintln(s.out, "bye")
			return nil
		default:
			fmt.Fprintln(s.out, "not valid")
		}
	}
}

// search 执行一次搜索流程；输入提前结束时返回 false。
func (s *Session) search() bool {
	fmt.Fprintln(s.out, "\nchoose filters")
	fmt.Fprintln(s.out, "1 genre")
	fmt.Fprintln(s.out, "2 director")
	fmt.Fprintln(s.out, "3 actor")
	fmt.Fprintln(s.out, "4 length")

	picks, ok := s.ask("numbers with commas: ")
	if !ok {
		return false
	}

	a := Answers{Picks: ParsePicks(picks)}
	for _, k := range a.Picks {
		switch k {
		case domain.KindGenre:
			if a.Genre, ok = s.ask("enter genre: "); !ok {
				return false
			}
		case domain.KindDirector:
			if a.Director, ok = s.ask("enter director: "); !ok {
				return false
			}
		case domain.KindActor:
			if a.Actor, ok = s.ask("enter actor: "); !ok {
				return false
			}
		case domain.KindLength:
			if a.MinText, ok = s.ask("min length or blank: "); !ok {
				return false
			}
			if a.MaxText, ok = s.ask("max length or blank: "); !ok {
				return false
			}
		}
	}

	started := time.Now()
	cs := BuildCriteria(a)
	results := filter.Apply(s.catalog, cs)
	if s.obs != nil {
		s.obs.OnSearch(cs, len(results), time.Since(started))
	}

	fmt.Fprintln(s.out, "\nresults")
	fmt.Fprintln(s.out)
	PrintMovies(s.out, results)
	if len(results) == 0 {
		fmt.Fprintln(s.out, "try fewer filters")
	}
	return true
}

func (s *Session) listAll() {
	fmt.Fprintln(s.out, "\nfull movie list")
	fmt.Fprintln(s.out)
	PrintMovies(s.out, s.catalog)
	if s.obs != nil {
		s.obs.OnListAll(len(s.catalog))
	}
}

func (s *Session) ask(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		fmt.Fprintln(s.out)
		return "", false
	}
	return s.in.Text(), true
}

// PrintMovies 逐行打印结果：`N Title | director | length min`；空结果打印 "no movies found"。
func PrintMovies(w io.Writer, movies domain.Catalog) {
	if len(movies) == 0 {
		fmt.Fprintln(w, "no movies found")
		return
	}
	for i, m := range movies {
		fmt.Fprintf(w, "%d %s | %s | %d min\n", i+1, m.Title, m.Director, m.Length)
	}
}
