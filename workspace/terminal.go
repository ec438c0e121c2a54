package workspace

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/styles"
)

// RenderTerminal formata a nota para o terminal. Usa estilo fixo porque o
// WithAutoStyle consulta o terminal e pode travar fora de um TTY.
func RenderTerminal(markdown string, width int, color bool) (string, error) {
	if width < 20 {
		width = 20
	}
	style := styles.NoTTYStyle
	if color {
		style = styles.DarkStyle
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(markdown)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}
