package output

import "github.com/charmbracelet/glamour"

// TerminalFormatter renders the markdown report with ANSI styling.
type TerminalFormatter struct {
	Width int
	Style string
}

func (t TerminalFormatter) Name() string { return "terminal" }

func (t TerminalFormatter) Format(r *Report) ([]byte, error) {
	style := t.Style
	if style == "" {
		style = "dark"
	}
	opts := []glamour.TermRendererOption{glamour.WithStandardStyle(style)}
	if t.Width > 0 {
		opts = append(opts, glamour.WithWordWrap(t.Width))
	}
	renderer, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return nil, err
	}
	out, err := renderer.Render(Markdown(r))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}
