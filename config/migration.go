package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/soocke/sawbot-go/domain/session"
)

// PreferencesVersion is the current preference schema version.
const PreferencesVersion = 2

// Legacy speed range (milliseconds per step) used before version 2.
const (
	legacySpeedMin = 100
	legacySpeedMax = 5000
)

// migration upgrades a document from its key version to the next one. It
// must be pure and idempotent, and returns human-readable change notes.
type migration func(p *Preferences) []string

var migrations = map[int]migration{
	1: migrateSpeedRange,
}

// Migrate applies migrations in sequence from p.Version to
// PreferencesVersion. A missing version is treated as 1.
func Migrate(p *Preferences) ([]string, error) {
	if p.Version <= 0 {
		p.Version = 1
	}
	if p.Version > PreferencesVersion {
		return nil, fmt.Errorf("preferences version %d is newer than supported %d", p.Version, PreferencesVersion)
	}
	var changes []string
	for p.Version < PreferencesVersion {
		m, ok := migrations[p.Version]
		if !ok {
			return changes, fmt.Errorf("no migration from preferences v%d", p.Version)
		}
		changes = append(changes, m(p)...)
		p.Version++
	}
	return changes, nil
}

func migrateSpeedRange(p *Preferences) []string {
	ids := make([]string, 0, len(p.MethodSpeeds))
	for id := range p.MethodSpeeds {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	var changes []string
	for _, id := range ids {
		old := p.MethodSpeeds[id]
		if v := RescaleSpeed(old); v != old {
			p.MethodSpeeds[id] = v
			changes = append(changes, fmt.Sprintf("methodSpeeds.%s: %d -> %d", id, old, v))
		}
	}
	return changes
}

// RescaleSpeed maps a legacy 100..5000 speed onto 0..50. Values already in
// the current range are returned unchanged.
func RescaleSpeed(v int) int {
	if v >= session.MinSpeed && v <= session.MaxSpeed {
		return v
	}
	t := float64(v-legacySpeedMin) / float64(legacySpeedMax-legacySpeedMin)
	t = math.Max(0, math.Min(1, t))
	return int(math.Round(t * session.MaxSpeed))
}
