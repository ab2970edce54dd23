// Package report builds investment memos and renders stored reports.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/infraflow-ai/infraflow/pkg/model"
)

// Report types.
const (
	TypeInvestmentMemo = "investment_memo"
	TypeCompliance     = "compliance"
)

// Format is an output representation of a report.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatHTML     Format = "html"
)

// ParseFormat accepts "markdown", "md" and "html". Empty means markdown.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "markdown", "md":
		return FormatMarkdown, nil
	case "html":
		return FormatHTML, nil
	}
	return "", fmt.Errorf("unsupported report format %q", s)
}

var (
	printer = message.NewPrinter(language.English)
	md      = goldmark.New(goldmark.WithExtensions(extension.GFM))
)

// Render converts markdown to f.
func Render(markdown string, f Format) (string, error) {
	switch f {
	case FormatMarkdown, "":
		return markdown, nil
	case FormatHTML:
		var buf bytes.Buffer
		if err := md.Convert([]byte(markdown), &buf); err != nil {
			return "", fmt.Errorf("render html: %w", err)
		}
		return buf.String(), nil
	}
	return "", fmt.Errorf("unsupported report format %q", f)
}

// Money formats amount with thousands separators, prefixed by currency.
func Money(amount float64, currency string) string {
	if currency == "" {
		currency = "USD"
	}
	return printer.Sprintf("%s %.0f", currency, amount)
}

// Compact renders large amounts with an SI suffix, e.g. "12.5 M".
func Compact(amount float64) string {
	return strings.TrimSpace(humanize.SIWithDigits(amount, 1, ""))
}

// Content is the JSON stored in reports.content.
type Content struct {
	Markdown string `json:"markdown"`
}

// New wraps rendered markdown as a Report row.
func New(project model.Project, reportType, title, markdown, generatedBy string) model.Report {
	return model.Report{
		ProjectChild: model.ProjectChild{ProjectID: project.ID},
		Title:        title,
		ReportType:   reportType,
		Content:      model.JSON(Content{Markdown: markdown}),
		Format:       string(FormatMarkdown),
		TemplateUsed: reportType,
		GeneratedBy:  generatedBy,
	}
}

// Markdown extracts the stored markdown from a report row.
func Markdown(r model.Report) (string, error) {
	var c Content
	if err := model.DecodeJSON(r.Content, &c); err != nil {
		return "", fmt.Errorf("report %s content: %w", r.ID, err)
	}
	return c.Markdown, nil
}
