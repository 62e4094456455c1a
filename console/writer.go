package console

import (
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Writer is an [Output] rendering to a stream.
type Writer struct {
	w     io.Writer
	style styles
	mu    sync.Mutex
}

// NewWriter returns a Writer on w. Styles degrade to plain text when w is not
// a color-capable terminal.
func NewWriter(w io.Writer) *Writer {
	if w == nil {
		w = io.Discard
	}

	return &Writer{w: w, style: newStyles(lipgloss.NewRenderer(w))}
}

// WriteLine writes s followed by a newline.
func (w *Writer) WriteLine(s string) {
	w.write(strings.TrimSuffix(s, "\n") + "\n")
}

// Prompt writes s without a trailing newline.
func (w *Writer) Prompt(s string) {
	w.write(w.style.prompt.Render(s))
}

// Result writes s as a successful outcome.
func (w *Writer) Result(s string) {
	w.write(w.style.result.Render(s) + "\n")
}

// Error writes err on a single line. A nil error writes nothing.
func (w *Writer) Error(err error) {
	if err == nil {
		return
	}

	w.write(w.style.err.Render("error: "+oneLine(err.Error())) + "\n")
}

func (w *Writer) write(s string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	_, _ = io.WriteString(w.w, s)
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
