package display

import (
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sweeney/quick-alert/internal/alert"
)

const clearScreen = "\x1b[H\x1b[2J"

var (
	colorRed    = lipgloss.Color("#FF5555")
	colorYellow = lipgloss.Color("#F1FA8C")
	colorGreen  = lipgloss.Color("#50FA7B")
	colorCyan   = lipgloss.Color("#8BE9FD")
	colorGray   = lipgloss.Color("#6272A4")

	frameStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorGray).
			Padding(0, 2).
			Align(lipgloss.Center)

	artStyle   = lipgloss.NewStyle().Foreground(colorCyan)
	textStyle  = lipgloss.NewStyle().Bold(true)
	warnStyle  = lipgloss.NewStyle().Foreground(colorYellow).Bold(true)
	critStyle  = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	okStyle    = lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
	entryStyle = lipgloss.NewStyle().Foreground(colorCyan)
	dimStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// Terminal paints frames to a terminal, one full repaint per Draw.
type Terminal struct {
	w      io.Writer
	assets ResourceStore
}

// NewTerminal returns a Terminal writing to w with art from assets.
func NewTerminal(w io.Writer, assets ResourceStore) *Terminal {
	return &Terminal{w: w, assets: assets}
}

// Draw implements alert.Renderer.
func (t *Terminal) Draw(v alert.View) {
	s := ScreenFor(v)
	art, err := t.assets.Art(s)
	if err != nil {
		log.Printf("display: %v", err)
		art = ""
	}
	if _, err := io.WriteString(t.w, clearScreen+Compose(v, art)+"\n"); err != nil {
		log.Printf("display: write frame: %v", err)
	}
}

// Close releases the loaded art.
func (t *Terminal) Close() error {
	t.assets.ReleaseAll()
	return nil
}

// Compose lays out the frame for v around the given art.
func Compose(v alert.View, art string) string {
	s := ScreenFor(v)

	var rows []string
	if art != "" {
		rows = append(rows, artStyle.Render(strings.TrimRight(art, "\n")), "")
	}
	style := messageStyle(s)
	for _, line := range Text(s) {
		rows = append(rows, style.Render(line))
	}
	if showsEntry(s) {
		rows = append(rows, "", entryStyle.Render(EntryRow(v)), dimStyle.Render(Timer(v.RemainingSeconds)))
	}
	return frameStyle.Render(lipgloss.JoinVertical(lipgloss.Center, rows...))
}

func messageStyle(s Screen) lipgloss.Style {
	switch s {
	case ScreenWarning, ScreenPasscodeError:
		return warnStyle
	case ScreenCalling, ScreenBadRequest:
		return critStyle
	case ScreenCancelled:
		return okStyle
	}
	return textStyle
}

// EntryRow shows the entered symbols followed by placeholders for the rest.
func EntryRow(v alert.View) string {
	cells := make([]string, alert.PasscodeLength)
	for i := range cells {
		if i < v.Entered {
			cells[i] = symbolGlyph(v.Entry[i])
		} else {
			cells[i] = "_"
		}
	}
	return strings.Join(cells, " ")
}

func symbolGlyph(s alert.Symbol) string {
	switch s {
	case alert.SymbolUp:
		return "▲"
	case alert.SymbolSelect:
		return "●"
	case alert.SymbolDown:
		return "▼"
	}
	return "_"
}

// Timer formats whole seconds as MM:SS.
func Timer(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
