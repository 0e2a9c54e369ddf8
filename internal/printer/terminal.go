package printer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"

	"github.com/slok/labgrade/internal/model"
)

// StyleAuto selects the terminal style based on the terminal background.
const StyleAuto = "auto"

// TerminalPrinter renders the Markdown narrative for terminals.
type TerminalPrinter struct {
	writer   io.Writer
	renderer *glamour.TermRenderer
}

// NewTerminalPrinter creates a new terminal printer. Style is a glamour standard
// style name (dark, light, notty...) or StyleAuto.
func NewTerminalPrinter(w io.Writer, style string) (*TerminalPrinter, error) {
	styleOpt := glamour.WithStandardStyle(style)
	if style == "" || style == StyleAuto {
		styleOpt = glamour.WithAutoStyle()
	}

	r, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(100))
	if err != nil {
		return nil, fmt.Errorf("could not create markdown renderer: %w", err)
	}

	return &TerminalPrinter{writer: w, renderer: r}, nil
}

// PrintReport renders the grade report narrative.
func (t *TerminalPrinter) PrintReport(r model.GradeReport) error {
	var b bytes.Buffer
	if err := NewMarkdownPrinter(&b).PrintReport(r); err != nil {
		return err
	}
	return t.render(b.String())
}

// PrintRubric renders the rubric table.
func (t *TerminalPrinter) PrintRubric(r model.Rubric) error {
	var b bytes.Buffer
	if err := NewMarkdownPrinter(&b).PrintRubric(r); err != nil {
		return err
	}
	return t.render(b.String())
}

// PrintHistory renders the grade history table.
func (t *TerminalPrinter) PrintHistory(grades []model.GradeReport) error {
	var b bytes.Buffer
	if err := NewMarkdownPrinter(&b).PrintHistory(grades); err != nil {
		return err
	}
	return t.render(b.String())
}

func (t *TerminalPrinter) render(md string) error {
	out, err := t.renderer.Render(md)
	if err != nil {
		return fmt.Errorf("could not render markdown: %w", err)
	}

	_, err = io.WriteString(t.writer, out)
	return err
}
