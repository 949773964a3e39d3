package view

import (
	"fmt"
	"time"

	//lint:ignore ST1001 Dot import for concise Tk widget DSL.
	. "modernc.org/tk9.0"
)

// SessionStats shows the drawing timer, the accumulated drawing time and the
// number of sessions since launch.
type SessionStats interface {
	SetSession(session, total time.Duration, count int)
}

type sessionStats struct {
	sessionLbl *LabelWidget
	totalLbl   *LabelWidget
	countLbl   *LabelWidget
}

// NewSessionStats grids the three labels into parent at row, starting at startCol.
func NewSessionStats(parent *FrameWidget, row, startCol int) SessionStats {
	s := &sessionStats{sessionLbl: Label(Width(16)), totalLbl: Label(Width(14)), countLbl: Label(Width(12))}
	for i, l := range []*LabelWidget{s.sessionLbl, s.totalLbl, s.countLbl} {
		Grid(l, In(parent), Row(row), Column(startCol+i), Sticky("w"), Padx("0.2m"))
	}
	s.SetSession(0, 0, 0)
	return s
}

func (s *sessionStats) SetSession(session, total time.Duration, count int) {
	if s == nil || s.sessionLbl == nil {
		return
	}
	s.sessionLbl.Configure(Txt("Drawing: " + clock(session)))
	s.totalLbl.Configure(Txt("Total: " + clock(total)))
	s.countLbl.Configure(Txt(fmt.Sprintf("Sessions: %d", count)))
}

// clock formats d as mm:ss, or h:mm:ss past the hour.
func clock(d time.Duration) string {
	seconds := int(d.Seconds())
	h, m, sec := seconds/3600, seconds/60%60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
