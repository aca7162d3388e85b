// Package report renders a pipeline Summary for people and for downstream
// tools.
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/storm-impact-etl/internal/domain"
	"github.com/dustin/go-humanize"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by Render.
const (
	FormatTable    = "table"
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatHTML     = "html"
)

var md = goldmark.New(goldmark.WithExtensions(extension.Table))

var htmlPage = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Storm impact report</title>
<style>
body { font-family: sans-serif; margin: 2rem auto; max-width: 60rem; }
table { border-collapse: collapse; margin-bottom: 1.5rem; }
th, td { border: 1px solid #ccc; padding: 0.25rem 0.6rem; }
</style>
</head>
<body>
{{.}}
</body>
</html>
`))

// Render writes s to w in the given format.
func Render(w io.Writer, s domain.Summary, format string) error {
	switch format {
	case FormatTable:
		return renderText(w, s, false)
	case FormatMarkdown:
		return renderText(w, s, true)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("encode yaml report: %w", err)
		}
		return enc.Close()
	case FormatHTML:
		return renderHTML(w, s)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

// RankedHealth orders health rows by fatalities plus injuries, descending.
// Ties keep group order.
func RankedHealth(s domain.Summary) []domain.HealthImpact {
	rows := s.Health()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total() > rows[j].Total() })
	return rows
}

// RankedEconomic orders economic rows by property plus crop damage,
// descending. Ties keep group order.
func RankedEconomic(s domain.Summary) []domain.EconomicImpact {
	rows := s.Economic()
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Total() > rows[j].Total() })
	return rows
}

func renderHTML(w io.Writer, s domain.Summary) error {
	var src bytes.Buffer
	if err := renderText(&src, s, true); err != nil {
		return err
	}
	var body bytes.Buffer
	if err := md.Convert(src.Bytes(), &body); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return htmlPage.Execute(w, template.HTML(body.String())) //nolint:gosec // goldmark escapes raw HTML by default
}

func renderText(w io.Writer, s domain.Summary, markdown bool) error {
	var lines []string
	heading := func(level int, title string) {
		if markdown {
			lines = append(lines, strings.Repeat("#", level)+" "+title, "")
			return
		}
		lines = append(lines, title, strings.Repeat("=", len(title)), "")
	}
	emit := func(t *table) {
		if markdown {
			lines = append(lines, t.markdown()...)
		} else {
			lines = append(lines, t.plain()...)
		}
		lines = append(lines, "")
	}

	heading(1, "Storm impact report")
	lines = append(lines, overview(s, markdown)...)
	lines = append(lines, "")

	heading(2, "Population health")
	emit(healthTable(RankedHealth(s)))

	heading(2, "Economic damage (millions USD)")
	emit(economicTable(RankedEconomic(s)))

	if len(s.Warnings) > 0 {
		heading(2, "Unrecognized exponent codes")
		emit(warningTable(s.Warnings))
	}

	_, err := io.WriteString(w, strings.Join(lines, "\n"))
	return err
}

func overview(s domain.Summary, markdown bool) []string {
	bullet := ""
	if markdown {
		bullet = "- "
	}
	out := []string{
		bullet + "Run: " + s.RunID,
		bullet + "Generated: " + s.GeneratedAt.UTC().Format(time.RFC3339),
		bullet + "Source: " + s.Source,
		bullet + "Rows loaded: " + humanize.Comma(int64(s.RowsLoaded)),
		bullet + "Records with impact: " + humanize.Comma(int64(s.Retained)),
		bullet + "Records without impact: " + humanize.Comma(int64(s.Dropped)),
	}
	if s.FirstYear != 0 {
		out = append(out, fmt.Sprintf("%sYears: %d-%d", bullet, s.FirstYear, s.LastYear))
	}
	return out
}

func healthTable(rows []domain.HealthImpact) *table {
	t := &table{
		header:  []string{"Group", "Events", "Fatalities", "Injuries", "Mean fatalities", "Mean injuries"},
		numeric: []bool{false, true, true, true, true, true},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			string(r.Group),
			humanize.Comma(int64(r.Count)),
			humanize.Comma(int64(r.FatalitiesSum)),
			humanize.Comma(int64(r.InjuriesSum)),
			formatMean(r.FatalitiesMean),
			formatMean(r.InjuriesMean),
		})
	}
	return t
}

func economicTable(rows []domain.EconomicImpact) *table {
	t := &table{
		header:  []string{"Group", "Events", "Property", "Crop", "Mean property", "Mean crop"},
		numeric: []bool{false, true, true, true, true, true},
	}
	for _, r := range rows {
		t.rows = append(t.rows, []string{
			string(r.Group),
			humanize.Comma(int64(r.Count)),
			formatMillions(r.PropertyDamageSum),
			formatMillions(r.CropDamageSum),
			formatMean(r.PropertyDamageMean),
			formatMean(r.CropDamageMean),
		})
	}
	return t
}

func warningTable(warnings map[string]int) *table {
	keys := make([]string, 0, len(warnings))
	for k := range warnings {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	t := &table{
		header:  []string{"Field", "Code", "Records"},
		numeric: []bool{false, false, true},
	}
	for _, k := range keys {
		field, token, _ := strings.Cut(k, ":")
		t.rows = append(t.rows, []string{field, strconv.Quote(token), humanize.Comma(int64(warnings[k]))})
	}
	return t
}

func formatMillions(v float64) string {
	return humanize.CommafWithDigits(v, 2)
}

func formatMean(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
