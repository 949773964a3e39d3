package theme

// Centralized theming for the SawBot UI. A theme is a named palette; Apply
// activates the base Tk theme and configures the semantic widget styles
// from the palette.

import (
	"sort"

	//lint:ignore ST1001 Dot import is intentional for concise Tk widget DSL builders.
	. "modernc.org/tk9.0"
)

// Colors is a named palette: the semantic colors used across widgets.
type Colors struct {
	Name      string
	Dark      bool
	AppBg     string
	Surface   string
	Border    string
	Primary   string
	Danger    string
	Accent    string
	Text      string
	TextMuted string
	// Selection is the rubber-band color on the overlay and snapshot.
	Selection string
}

// DefaultID is used when the stored theme is unknown.
const DefaultID = "dark"

var palettes = map[string]Colors{
	"dark": {
		Name: "Dark", Dark: true,
		AppBg: "#0f172a", Surface: "#1e293b", Border: "#334155",
		Primary: "#3b82f6", Danger: "#ef4444", Accent: "#10b981",
		Text: "#f1f5f9", TextMuted: "#94a3b8", Selection: "#38bdf8",
	},
	"light": {
		Name:  "Light",
		AppBg: "#f7f9fb", Surface: "#ffffff", Border: "#d0d7de",
		Primary: "#2563eb", Danger: "#dc2626", Accent: "#10b981",
		Text: "#1e293b", TextMuted: "#64748b", Selection: "#2563eb",
	},
	"cyber": {
		Name: "Cyber", Dark: true,
		AppBg: "#0a0014", Surface: "#1a0b2e", Border: "#3d1a6e",
		Primary: "#00f0ff", Danger: "#ff2a6d", Accent: "#d1f7ff",
		Text: "#e0e0ff", TextMuted: "#8a7fbf", Selection: "#ff00ff",
	},
	"sunset": {
		Name: "Sunset", Dark: true,
		AppBg: "#2d1b2e", Surface: "#3f2a3f", Border: "#5c3d5c",
		Primary: "#ff7e5f", Danger: "#e63946", Accent: "#feb47b",
		Text: "#fff1e6", TextMuted: "#c9a9a6", Selection: "#feb47b",
	},
	"forest": {
		Name: "Forest", Dark: true,
		AppBg: "#0f1f17", Surface: "#1a2f23", Border: "#2e4a3a",
		Primary: "#4ade80", Danger: "#f87171", Accent: "#a3e635",
		Text: "#ecfdf5", TextMuted: "#86a899", Selection: "#a3e635",
	},
	"midnight": {
		Name: "Midnight", Dark: true,
		AppBg: "#000000", Surface: "#0d0d1a", Border: "#1f1f3a",
		Primary: "#6366f1", Danger: "#f43f5e", Accent: "#22d3ee",
		Text: "#e2e8f0", TextMuted: "#7c7ca8", Selection: "#22d3ee",
	},
}

// IDs returns the known theme ids, sorted.
func IDs() []string {
	ids := make([]string, 0, len(palettes))
	for id := range palettes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Lookup returns the palette for id, falling back to the default theme.
func Lookup(id string) (Colors, bool) {
	p, ok := palettes[id]
	if !ok {
		return palettes[DefaultID], false
	}
	return p, true
}

// style names used with Style("primary.TButton") etc.
const (
	StylePrimaryButton = "primary.TButton"
	StyleDangerButton  = "danger.TButton"
	StyleAccentLabel   = "accent.TLabel"
	StyleStateLabel    = "state.TLabel"
	StyleMutedLabel    = "muted.TLabel"
)

var current = palettes[DefaultID]

// Current returns the active palette.
func Current() Colors { return current }

// Apply activates the theme with the given id and returns the palette used.
func Apply(id string) Colors {
	p, _ := Lookup(id)
	current = p
	applyStyles(p)
	return p
}

func applyStyles(p Colors) {
	base := "azure light"
	if p.Dark {
		base = "azure dark"
	}
	_ = ActivateTheme(base)
	App.Configure(Background(p.AppBg))

	StyleConfigure(StylePrimaryButton,
		Background(p.Primary),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleDangerButton,
		Background(p.Danger),
		Foreground("white"),
		Padding("4p 3p"),
		Borderwidth(1),
		Relief("ridge"),
	)
	StyleConfigure(StyleAccentLabel,
		Foreground(p.Primary),
		Background(p.Surface),
		Padding("2p 1p"),
	)
	StyleConfigure(StyleStateLabel,
		Foreground(p.Text),
		Background(p.Accent),
		Padding("4p 2p"),
		Borderwidth(1),
		Relief("groove"),
	)
	StyleConfigure(StyleMutedLabel,
		Foreground(p.TextMuted),
		Background(p.AppBg),
	)
}
