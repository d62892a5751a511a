package main

import (
	"strings"
	"time"

	"github.com/John-Robertt/movierec/internal/app/session"
	"github.com/John-Robertt/movierec/internal/domain"
	"github.com/John-Robertt/movierec/internal/logging"
)

var _ session.Observer = logObserver{}

// logObserver 把会话事件写成 debug 日志（stderr），不影响 stdout 上的交互输出。
type logObserver struct{}

func (logObserver) OnSearch(cs domain.Criteria, results int, dur time.Duration) {
	logging.Debug().
		Str("criteria", describe(cs)).
		Int("results", results).
		Dur("took", dur).
		Msg("search done")
}

func (logObserver) OnListAll(total int) {
	logging.Debug().Int("total", total).Msg("full list printed")
}

func describe(cs domain.Criteria) string {
	sel := cs.Selected()
	if len(sel) == 0 {
		return "none"
	}
	parts := make([]string, 0, len(sel))
	for _, c := range sel {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, " AND ")
}
