package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"skein/internal/model"
)

// Renderer writes parsed entries to an output stream.
type Renderer interface {
	Render(entry model.Entry) error
}

// ---------------------------------------------------------------------------
// Text Renderer (colorized terminal output)
// ---------------------------------------------------------------------------

var (
	styleInfo    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")) // gray
	styleWarning = lipgloss.NewStyle().Foreground(lipgloss.Color("220")) // yellow
	styleError   = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true) // red bold
	styleUnknown = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleSource  = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Faint(true) // cyan
)

// TextRenderer prints entries to the terminal with severity-based colors.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer that writes colorized text to stdout.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{w: os.Stdout}
}

func (r *TextRenderer) Render(entry model.Entry) error {
	parts := []string{styleLevelTag(entry.Message)}
	if entry.Source != "" {
		parts = append(parts, styleSource.Render(entry.Source))
	}
	parts = append(parts, body(entry.Message))

	_, err := fmt.Fprintln(r.w, strings.Join(parts, " "))
	return err
}

// styleLevelTag returns the padded, colorized level column.
func styleLevelTag(m model.Message) string {
	name := model.LevelName(m)
	padded := fmt.Sprintf("%-7s", name)
	switch name {
	case "Warning":
		return styleWarning.Render(padded)
	case "Error":
		return styleError.Render(padded)
	case "Unknown":
		return styleUnknown.Render(padded)
	default:
		return styleInfo.Render(padded)
	}
}

// body is the display text after the level column. The level tag already has
// its own column, so Known entries drop the leading level name from the
// rendered form; Unknown entries show the raw line.
func body(m model.Message) string {
	switch v := m.(type) {
	case model.Known:
		if e, ok := v.Level.(model.Error); ok {
			return fmt.Sprintf("[%d] (%d) %s", e.Severity, v.Timestamp, v.Text)
		}
		return fmt.Sprintf("(%d) %s", v.Timestamp, v.Text)
	case model.Unknown:
		return v.Text
	default:
		return m.String()
	}
}

// ---------------------------------------------------------------------------
// JSON Renderer (structured output for piping)
// ---------------------------------------------------------------------------

// JSONRenderer prints each entry as a single JSON object per line.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer that writes JSON lines to stdout.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(os.Stdout)}
}

func (r *JSONRenderer) Render(entry model.Entry) error {
	return r.enc.Encode(model.Wire(entry))
}
