package output

import (
	"fmt"
	"os"
	"sort"
	"strings"
)

// Formatter renders a report into bytes.
type Formatter interface {
	Name() string
	Format(r *Report) ([]byte, error)
}

// FormatterFunc adapts a function to the Formatter interface.
type FormatterFunc struct {
	ID string
	F  func(r *Report) ([]byte, error)
}

func (f FormatterFunc) Name() string                     { return f.ID }
func (f FormatterFunc) Format(r *Report) ([]byte, error) { return f.F(r) }

var registry = map[string]Formatter{}

var aliases = map[string]string{
	"md":       "markdown",
	"text":     "console",
	"table":    "console",
	"pretty":   "terminal",
	"glamour":  "terminal",
	"htm":      "html",
	"detailed": "console",
}

// Register adds f to the registry under its name.
func Register(f Formatter) { registry[f.Name()] = f }

func init() {
	Register(ConsoleFormatter{})
	Register(CSVSummarizer{})
	Register(JSONFormatter{Pretty: true})
	Register(MarkdownFormatter{})
	Register(HTMLFormatter{})
	Register(TerminalFormatter{Width: 100})
}

// GetFormatterByName resolves a formatter by name or alias; nil when unknown.
func GetFormatterByName(name string) Formatter {
	name = strings.ToLower(strings.TrimSpace(name))
	if target, ok := aliases[name]; ok {
		name = target
	}
	return registry[name]
}

// AvailableFormatterNames lists registered formatter names, sorted.
func AvailableFormatterNames() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// AvailableFormatAliases lists accepted aliases, sorted.
func AvailableFormatAliases() []string {
	out := make([]string, 0, len(aliases))
	for a := range aliases {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// WriteFormatted renders r with f into a timestamped file in the working
// directory and returns the file name.
func WriteFormatted(f Formatter, r *Report, ext string) (string, error) {
	data, err := f.Format(r)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("tax_report_%s.%s", r.GeneratedAt.Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return "", err
	}
	return filename, nil
}
