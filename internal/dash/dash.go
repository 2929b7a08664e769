// Copyright (c) 2026 SightAssist Labs <dev@sightassist.io>.
// SPDX-License-Identifier: Apache-2.0

// Package dash is the live terminal dashboard behind `sightctl watch`. It
// polls the cached store on a jittered interval and keeps showing the last
// good data when the backend flakes, with the error surfaced in a banner.
package dash

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/sightassist/sightctl/internal/api"
	"github.com/sightassist/sightctl/internal/detection"
	"github.com/sightassist/sightctl/internal/healthdiff"
)

const (
	fetchTimeout = 10 * time.Second
	maxBackoff   = 2 * time.Minute
	jitterPct    = 0.2
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f6be00"))
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c8f0"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true)
	staleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#808080"))
	dangerStyle = map[detection.DangerLevel]lipgloss.Style{
		detection.Critical: lipgloss.NewStyle().Foreground(lipgloss.Color("#ff5f5f")).Bold(true),
		detection.High:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8700")),
		detection.Medium:   lipgloss.NewStyle().Foreground(lipgloss.Color("#f6be00")),
		detection.Low:      lipgloss.NewStyle().Foreground(lipgloss.Color("#87d787")),
	}
)

type tickMsg time.Time

type dataMsg struct {
	records []detection.Record
	health  detection.Health
	err     error
	forced  bool
}

// Model is the bubbletea model for the dashboard.
type Model struct {
	store    *api.Store
	limit    int
	interval time.Duration

	spinner    spinner.Model
	records    []detection.Record
	health     detection.Health
	haveHealth bool
	lastGood   time.Time
	lastErr    error
	failures   int
	fetching   bool
	width      int
}

// New builds a dashboard model polling the given store. interval is the base
// refresh cadence; failures back off exponentially from it.
func New(store *api.Store, limit int, interval time.Duration) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	return Model{
		store:    store,
		limit:    limit,
		interval: interval,
		spinner:  s,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.fetch(false))
}

// fetch pulls detections and health through the store. Non-forced reads are
// served from the freshness window, so a tick that lands inside the window
// costs nothing.
func (m Model) fetch(force bool) tea.Cmd {
	store, limit := m.store, m.limit
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), fetchTimeout)
		defer cancel()

		records, err := store.RecentDetections(ctx, limit, force)
		if err != nil {
			return dataMsg{err: err, forced: force}
		}
		health, err := store.SystemHealth(ctx, force)
		if err != nil {
			return dataMsg{err: err, forced: force}
		}
		// Keep the persisted baseline current so a later `hq --diff` compares
		// against what the dashboard last saw.
		healthdiff.SaveLast(health)
		return dataMsg{records: records, health: health, forced: force}
	}
}

// nextDelay computes the wait before the next poll. Success uses the base
// interval; each consecutive failure doubles it up to maxBackoff. Either way
// the delay is jittered so a fleet of dashboards does not sync up.
func (m Model) nextDelay() time.Duration {
	d := m.interval
	for i := 0; i < m.failures && d < maxBackoff; i++ {
		d *= 2
	}
	if d > maxBackoff {
		d = maxBackoff
	}
	jitter := 1 - jitterPct + 2*jitterPct*rand.Float64()
	return time.Duration(float64(d) * jitter)
}

func (m Model) schedule() tea.Cmd {
	return tea.Tick(m.nextDelay(), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			m.fetching = true
			return m, m.fetch(true)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width

	case tickMsg:
		m.fetching = true
		return m, m.fetch(false)

	case dataMsg:
		m.fetching = false
		if msg.err != nil {
			m.lastErr = msg.err
			m.failures++
		} else {
			m.records = msg.records
			m.health = msg.health
			m.haveHealth = true
			m.lastGood = time.Now()
			m.lastErr = nil
			m.failures = 0
		}
		return m, m.schedule()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) View() string {
	var b strings.Builder

	header := titleStyle.Render("sightassist") + "  "
	if m.fetching {
		header += m.spinner.View()
	}
	b.WriteString(header + "\n\n")

	if m.lastErr != nil {
		b.WriteString(errStyle.Render(fmt.Sprintf("backend error: %v", m.lastErr)) + "\n")
		if !m.lastGood.IsZero() {
			b.WriteString(staleStyle.Render(
				fmt.Sprintf("showing data from %s", humanize.Time(m.lastGood))) + "\n")
		}
		b.WriteString("\n")
	}

	if m.haveHealth {
		b.WriteString(labelStyle.Render("health ") + m.health.Status)
		b.WriteString(fmt.Sprintf("  cpu %.0f%%  mem %.0f%%  disk %.0f%%  camera %s\n\n",
			m.health.CPUPct, m.health.MemPct, m.health.DiskPct, m.health.CameraStatus))
	}

	if len(m.records) == 0 {
		b.WriteString(staleStyle.Render("no detections yet") + "\n")
	} else {
		b.WriteString(labelStyle.Render("recent detections") + "\n")
		for _, r := range m.records {
			level := r.Danger()
			style, ok := dangerStyle[level]
			if !ok {
				style = staleStyle
			}
			when := r.DetectedAt
			if t, err := r.When(); err == nil {
				when = humanize.Time(t)
			}
			b.WriteString(fmt.Sprintf("  %s  %-20s  %6.0fcm  %.2f  %s\n",
				style.Render(fmt.Sprintf("%-8s", level)),
				r.Object, r.DistanceCM, r.Confidence, when))
		}
	}

	b.WriteString("\n" + staleStyle.Render("r refresh  q quit") + "\n")
	return b.String()
}

// Run starts the dashboard and blocks until the user quits.
func Run(store *api.Store, limit int, interval time.Duration) error {
	p := tea.NewProgram(New(store, limit, interval), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
