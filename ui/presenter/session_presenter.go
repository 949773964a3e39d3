package presenter

import (
	"time"

	"github.com/soocke/sawbot-go/ui/model"
)

// DrawingStatus reports whether a drawing is in progress.
type DrawingStatus interface{ Drawing() bool }

// SessionView displays formatted session and total durations.
type SessionView interface {
	SetSession(session, total time.Duration, count int)
}

// SessionPresenter advances the timer model and pushes it to the view.
type SessionPresenter struct {
	sess   *model.SessionModel
	status DrawingStatus
	view   SessionView
}

func NewSessionPresenter(sess *model.SessionModel, status DrawingStatus, view SessionView) *SessionPresenter {
	return &SessionPresenter{sess: sess, status: status, view: view}
}

func (p *SessionPresenter) Tick(now time.Time) {
	if p == nil || p.sess == nil || p.status == nil || p.view == nil {
		return
	}
	p.sess.OnTick(p.status.Drawing(), now)
	s, t := p.sess.Values()
	p.view.SetSession(s, t, p.sess.Sessions())
}
