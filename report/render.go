package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/c360studio/semcheck/alignment"
	"github.com/c360studio/semcheck/rules"
)

// Artifact file names written by Write.
const (
	ReportJSON     = "validation-report.json"
	ReportMarkdown = "validation-report.md"
)

// VerdictLine is the final line of every rendering.
func (r *Report) VerdictLine() string {
	if r.Category != "" && len(r.Results) == 1 {
		res := r.Results[0]
		return fmt.Sprintf("RESULT: %s (%s %d%%, threshold %d%%, %d errors)",
			status(r.Passed), r.Category, res.Score(), res.Threshold, len(res.Errors))
	}
	if r.Passed {
		return fmt.Sprintf("RESULT: PASS (overall %d%% >= %d%%)", r.OverallScore, PassScore)
	}
	return fmt.Sprintf("RESULT: FAIL (overall %d%% < %d%%)", r.OverallScore, PassScore)
}

func status(passed bool) string {
	if passed {
		return "PASS"
	}
	return "FAIL"
}

// WriteText renders the console report: the category table, every finding,
// the overall assessment, recommendations and the verdict line.
func (r *Report) WriteText(w io.Writer) error {
	var b strings.Builder

	b.WriteString("COMPREHENSIVE VALIDATION REPORT\n")
	b.WriteString("===============================\n")
	fmt.Fprintf(&b, "Schema root: %s\n", r.SchemaRoot)
	fmt.Fprintf(&b, "Run: %s (%s)\n\n", r.RunID, r.Timestamp.Format("2006-01-02T15:04:05Z07:00"))

	table := tablewriter.NewWriter(&b)
	table.SetHeader([]string{"Status", "Category", "Score", "Errors", "Warnings"})
	table.SetAutoFormatHeaders(false)
	table.SetAutoWrapText(false)
	for _, res := range r.Results {
		table.Append([]string{
			status(res.Passed()),
			res.Title,
			strconv.Itoa(res.Score()) + "%",
			strconv.Itoa(len(res.Errors)),
			strconv.Itoa(len(res.Warnings)),
		})
	}
	table.Render()

	for _, res := range r.Results {
		if len(res.Errors) == 0 && len(res.Warnings) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n%s:\n", res.Title)
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "  ERROR   %s\n", e)
		}
		for _, wn := range res.Warnings {
			fmt.Fprintf(&b, "  WARNING %s\n", wn)
		}
	}

	b.WriteString("\nOverall Assessment\n")
	b.WriteString("------------------\n")
	fmt.Fprintf(&b, "Overall Score: %d%%\n", r.OverallScore)
	fmt.Fprintf(&b, "Validation Duration: %.2fs\n", r.Duration.Seconds())
	fmt.Fprintf(&b, "Quality Level: %s\n", r.Tier)
	fmt.Fprintf(&b, "Files: %d, %.1fKB total, %.1fKB average\n",
		r.Corpus.Files, float64(r.Corpus.TotalBytes)/1024, r.Corpus.AverageBytes/1024)

	if r.Sync != nil {
		fmt.Fprintf(&b, "Global Alignment: %s%%\n", alignment.FormatPercent(r.Sync.Alignment.GlobalAlignmentPercent))
		fmt.Fprintf(&b, "Systemic Alignment: %s%%\n", alignment.FormatPercent(r.Sync.Alignment.SystemicAlignmentPercent))
	}

	if len(r.Recommendations) > 0 {
		b.WriteString("\nRecommendations\n")
		b.WriteString("---------------\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}

	b.WriteString("\n")
	b.WriteString(r.VerdictLine())
	b.WriteString("\n")

	_, err := io.WriteString(w, b.String())
	return err
}

// JSON returns the indented JSON form of the report.
func (r *Report) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode report: %w", err)
	}
	return buf.Bytes(), nil
}

// Markdown returns the markdown form of the report.
func (r *Report) Markdown() string {
	var sb strings.Builder

	sb.WriteString("# Validation Report\n\n")
	fmt.Fprintf(&sb, "- **Run:** %s\n", r.RunID)
	fmt.Fprintf(&sb, "- **Timestamp:** %s\n", r.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
	fmt.Fprintf(&sb, "- **Schema root:** %s\n", r.SchemaRoot)
	fmt.Fprintf(&sb, "- **Overall score:** %d%% (%s)\n", r.OverallScore, r.Tier)
	fmt.Fprintf(&sb, "- **Files:** %d\n\n", r.Corpus.Files)

	sb.WriteString("## Categories\n\n")
	sb.WriteString("| Category | Score | Threshold | Errors | Warnings | Status |\n")
	sb.WriteString("|---|---|---|---|---|---|\n")
	for _, res := range r.Results {
		fmt.Fprintf(&sb, "| %s | %d%% | %d%% | %d | %d | %s |\n",
			res.Title, res.Score(), res.Threshold, len(res.Errors), len(res.Warnings), status(res.Passed()))
	}

	for _, res := range r.Results {
		writeFindings(&sb, res)
	}

	if len(r.Recommendations) > 0 {
		sb.WriteString("\n## Recommendations\n\n")
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&sb, "- %s\n", rec)
		}
	}

	sb.WriteString("\n---\n\n")
	fmt.Fprintf(&sb, "**%s**\n", r.VerdictLine())
	return sb.String()
}

func writeFindings(sb *strings.Builder, res rules.Result) {
	if len(res.Errors) == 0 && len(res.Warnings) == 0 {
		return
	}
	fmt.Fprintf(sb, "\n### %s\n\n", res.Title)
	for _, e := range res.Errors {
		fmt.Fprintf(sb, "- **Error:** %s\n", e)
	}
	for _, w := range res.Warnings {
		fmt.Fprintf(sb, "- Warning: %s\n", w)
	}
}

// Write stores the JSON and markdown renderings in dir.
func (r *Report) Write(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}
	data, err := r.JSON()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, ReportJSON), data, 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ReportMarkdown), []byte(r.Markdown()), 0644); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}
