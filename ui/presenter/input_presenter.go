package presenter

import (
	"slices"
	"strconv"
	"strings"

	"github.com/soocke/sawbot-go/domain/session"
)

// InputControl is the controller's form surface.
type InputControl interface {
	SelectImage(path string) error
	SetMethod(id string)
	Method() string
}

// PreferenceWriter persists user choices.
type PreferenceWriter interface {
	MethodSpeed(method string) (int, bool)
	SetMethodSpeed(method string, speed int) error
	SetThemeID(id string) error
}

// InputView shows form values and applies the palette.
type InputView interface {
	SetImage(path string)
	SetSpeed(speed int)
	ApplyTheme(id string)
	SetStatus(text string)
}

// InputPresenter routes form edits to the controller and preferences.
type InputPresenter struct {
	ctrl   InputControl
	prefs  PreferenceWriter
	view   InputView
	themes []string
}

func NewInputPresenter(ctrl InputControl, prefs PreferenceWriter, view InputView, themes []string) *InputPresenter {
	return &InputPresenter{ctrl: ctrl, prefs: prefs, view: view, themes: themes}
}

// SelectImage validates and stores the chosen file.
func (p *InputPresenter) SelectImage(path string) {
	if p == nil || p.ctrl == nil || p.view == nil {
		return
	}
	path = strings.TrimSpace(path)
	if path == "" {
		return
	}
	if err := p.ctrl.SelectImage(path); err != nil {
		p.view.SetStatus(err.Error())
		return
	}
	p.view.SetImage(path)
	p.view.SetStatus("Image selected")
}

// SelectMethod switches the drawing method and shows its stored speed.
func (p *InputPresenter) SelectMethod(id string) {
	if p == nil || p.ctrl == nil || p.view == nil {
		return
	}
	p.ctrl.SetMethod(id)
	speed := session.DefaultSpeed
	if p.prefs != nil {
		if v, ok := p.prefs.MethodSpeed(id); ok {
			speed = v
		}
	}
	p.view.SetSpeed(speed)
}

// SetSpeed parses and stores the speed for the current method. The stored
// value is clamped to the supported range and echoed back.
func (p *InputPresenter) SetSpeed(text string) {
	if p == nil || p.ctrl == nil || p.prefs == nil || p.view == nil {
		return
	}
	v, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		p.view.SetStatus("Speed must be a whole number")
		return
	}
	method := p.ctrl.Method()
	if err := p.prefs.SetMethodSpeed(method, v); err != nil {
		p.view.SetStatus("Saving speed failed: " + err.Error())
		return
	}
	p.view.SetSpeed(session.ClampSpeed(v))
}

// SelectTheme applies and persists a palette.
func (p *InputPresenter) SelectTheme(id string) {
	if p == nil || p.view == nil {
		return
	}
	if !slices.Contains(p.themes, id) {
		p.view.SetStatus("Unknown theme " + strconv.Quote(id))
		return
	}
	p.view.ApplyTheme(id)
	if p.prefs == nil {
		return
	}
	if err := p.prefs.SetThemeID(id); err != nil {
		p.view.SetStatus("Saving theme failed: " + err.Error())
	}
}
