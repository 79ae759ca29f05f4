package output

import (
	"bytes"
	"html/template"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// HTMLFormatter converts the markdown report to a standalone HTML page.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string { return "html" }

var markdownToHTML = goldmark.New(goldmark.WithExtensions(extension.Table))

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Title}} {{.TaxYear}}</title>
<style>
body { font-family: Arial, sans-serif; margin: 20px; max-width: 960px; }
table { border-collapse: collapse; margin: 10px 0; }
th, td { border: 1px solid #ddd; padding: 6px 10px; }
th { background-color: #f2f2f2; }
blockquote { background: #fff8e1; border-left: 4px solid #f0ad4e; margin: 0; padding: 6px 12px; }
</style>
</head>
<body>
{{.Body}}
</body>
</html>
`))

func (h HTMLFormatter) Format(r *Report) ([]byte, error) {
	var body bytes.Buffer
	if err := markdownToHTML.Convert([]byte(Markdown(r)), &body); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	data := struct {
		Title   string
		TaxYear int
		Body    template.HTML
	}{r.Title, r.TaxYear, template.HTML(body.String())}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
