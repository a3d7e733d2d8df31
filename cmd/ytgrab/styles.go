package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/ytget/ytgrab/internal/model"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// ProgressWidth is the width of the rendered bar in cells
const ProgressWidth = 40

// Palette is a small stylesheet of named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
	label lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
		label: NewBold(h),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}

func (p *Palette) Title(s string) string { return p.title.Render(s) }
func (p *Palette) OK(s string) string { return p.ok.Render(s) }
func (p *Palette) Error(s string) string { return p.err.Render(s) }
func (p *Palette) Warn(s string) string { return p.warn.Render(s) }
func (p *Palette) Help(s string) string { return p.help.Render(s) }
func (p *Palette) Label(s string) string { return p.label.Render(s) }

// progressLine redraws a single terminal line for every progress event
type progressLine struct {
	w           io.Writer
	bar         progress.Model
	lastPercent int
	lastIndex   int
	started     bool
}

func newProgressLine(w io.Writer) *progressLine {
	return &progressLine{
		w:           w,
		bar:         progress.New(progress.WithDefaultGradient(), progress.WithWidth(ProgressWidth)),
		lastPercent: -1,
		lastIndex:   -1,
	}
}

// OnProgress implements download.ProgressObserver
func (p *progressLine) OnProgress(pr model.Progress) {
	if pr.Percent() == p.lastPercent && pr.Index == p.lastIndex {
		return
	}
	p.lastPercent = pr.Percent()
	p.lastIndex = pr.Index
	p.started = true
	// \x1b[K clears whatever a longer previous line left behind
	fmt.Fprintf(p.w, "\r%s %s\x1b[K", p.bar.ViewAs(pr.Overall), progressLabel(pr))
}

// Finish moves past the progress line
func (p *progressLine) Finish() {
	if p.started {
		fmt.Fprintln(p.w)
	}
}

func progressLabel(pr model.Progress) string {
	label := fmt.Sprintf("%3d%%", pr.Percent())
	if pr.Count > 1 {
		label += fmt.Sprintf(" [%d/%d] %s", pr.Index+1, pr.Count, pr.Title)
	}
	if total := pr.Item.BytesTotal; total > 0 {
		done := max(total-pr.Item.BytesRemaining, 0)
		label += fmt.Sprintf(" %s/%s", humanize.Bytes(uint64(done)), humanize.Bytes(uint64(total)))
	}
	return label
}
