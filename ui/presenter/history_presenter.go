package presenter

import (
	"context"
	"log/slog"

	"github.com/soocke/sawbot-go/domain/session"
)

// HistoryRows is how many recent sessions the view lists.
const HistoryRows = 8

// HistorySource lists recorded sessions, newest first.
type HistorySource interface {
	Recent(ctx context.Context, limit int) ([]session.Record, error)
}

// HistoryView lists recent sessions.
type HistoryView interface {
	ShowHistory(records []session.Record)
}

// HistoryPresenter reloads recent activity whenever a session ends.
type HistoryPresenter struct {
	ctx    context.Context
	src    HistorySource
	view   HistoryView
	queue  *Queue
	run    Runner
	logger *slog.Logger
}

func NewHistoryPresenter(ctx context.Context, src HistorySource, view HistoryView, queue *Queue, run Runner, logger *slog.Logger) *HistoryPresenter {
	if run == nil {
		run = Background(logger)
	}
	return &HistoryPresenter{ctx: ctx, src: src, view: view, queue: queue, run: run, logger: logger}
}

// Refresh loads recent sessions off the UI thread.
func (p *HistoryPresenter) Refresh() {
	if p == nil || p.src == nil || p.view == nil {
		return
	}
	p.run(func() {
		recs, err := p.src.Recent(p.ctx, HistoryRows)
		if err != nil {
			if p.logger != nil {
				p.logger.Warn("load history failed", "error", err)
			}
			return
		}
		p.queue.Post(func() { p.view.ShowHistory(recs) })
	})
}

// Recorder wraps next so that every stored session refreshes the list.
func (p *HistoryPresenter) Recorder(next session.Recorder) session.Recorder {
	return refreshingRecorder{next: next, p: p}
}

type refreshingRecorder struct {
	next session.Recorder
	p    *HistoryPresenter
}

func (r refreshingRecorder) RecordSession(ctx context.Context, rec session.Record) error {
	err := r.next.RecordSession(ctx, rec)
	if err == nil {
		r.p.Refresh()
	}
	return err
}
