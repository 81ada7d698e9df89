package alignment

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Artifact file names written by Summary.Write.
const (
	ReportJSON     = "sync-report.json"
	ReportMarkdown = "sync-report.md"
)

// DefaultTarget is the alignment target printed in sync reports.
const DefaultTarget = ">98%"

// IDCounts holds identifier set sizes.
type IDCounts struct {
	SchemaCount  int `json:"schemaCount"`
	ProjectCount int `json:"projectCount"`
	UnionCount   int `json:"unionCount"`
	SharedCount  int `json:"sharedCount"`
}

// Alignment holds both alignment percentages with their targets.
type Alignment struct {
	GlobalAlignmentPercent   float64 `json:"globalAlignmentPercent"`
	SystemicAlignmentPercent float64 `json:"systemicAlignmentPercent"`
	TargetGlobal             string  `json:"targetGlobal"`
	TargetSystemic           string  `json:"targetSystemic"`
}

// Summary is the machine-readable sync report.
type Summary struct {
	Timestamp      time.Time `json:"timestamp"`
	SchemaRoot     string    `json:"schemaRoot"`
	ProjectRoots   []string  `json:"projectRoots"`
	FilesProcessed int       `json:"filesProcessed"`
	FilesSorted    int       `json:"filesSorted"`
	FilesErrors    int       `json:"filesErrors"`
	IDs            IDCounts  `json:"ids"`
	Alignment      Alignment `json:"alignment"`
}

// NewSummary builds a sync report from the two identifier sets. The schema
// set plays A and the project set plays B in Compare.
func NewSummary(schemaRoot string, projectRoots []string, schema, project Set) *Summary {
	cmp := Compare(schema, project)
	if projectRoots == nil {
		projectRoots = []string{}
	}
	return &Summary{
		Timestamp:    time.Now().UTC(),
		SchemaRoot:   schemaRoot,
		ProjectRoots: projectRoots,
		IDs: IDCounts{
			SchemaCount:  schema.Len(),
			ProjectCount: project.Len(),
			UnionCount:   cmp.Union.Len(),
			SharedCount:  cmp.Intersection.Len(),
		},
		Alignment: Alignment{
			GlobalAlignmentPercent:   cmp.GlobalAlignment,
			SystemicAlignmentPercent: cmp.SystemicAlignment,
			TargetGlobal:             DefaultTarget,
			TargetSystemic:           DefaultTarget,
		},
	}
}

// JSON returns the indented JSON form with a trailing newline.
func (s *Summary) JSON() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Markdown returns the human-readable form.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("# JSON-LD Sync Report\n\n")
	fmt.Fprintf(&b, "- Timestamp: %s\n", s.Timestamp.Format(time.RFC3339))
	fmt.Fprintf(&b, "- Schema root: %s\n", s.SchemaRoot)
	if len(s.ProjectRoots) > 0 {
		fmt.Fprintf(&b, "- Project roots: %s\n", strings.Join(s.ProjectRoots, ", "))
	}
	fmt.Fprintf(&b, "- Files processed: %d\n", s.FilesProcessed)
	fmt.Fprintf(&b, "- Files sorted: %d\n", s.FilesSorted)
	fmt.Fprintf(&b, "- Errors: %d\n", s.FilesErrors)
	fmt.Fprintf(&b, "- Schema @id count: %d\n", s.IDs.SchemaCount)
	fmt.Fprintf(&b, "- Project @id count: %d\n", s.IDs.ProjectCount)
	fmt.Fprintf(&b, "- Union @id count: %d\n", s.IDs.UnionCount)
	fmt.Fprintf(&b, "- Shared @id count: %d\n", s.IDs.SharedCount)
	fmt.Fprintf(&b, "- Global alignment: %s%% (target %s)\n", FormatPercent(s.Alignment.GlobalAlignmentPercent), s.Alignment.TargetGlobal)
	fmt.Fprintf(&b, "- Systemic alignment: %s%% (target %s)\n", FormatPercent(s.Alignment.SystemicAlignmentPercent), s.Alignment.TargetSystemic)
	return b.String()
}

// Write stores the JSON and markdown reports in dir.
func (s *Summary) Write(dir string) error {
	data, err := s.JSON()
	if err != nil {
		return fmt.Errorf("marshal sync report: %w", err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create report dir: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, ReportJSON), data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", ReportJSON, err)
	}
	if err := os.WriteFile(filepath.Join(dir, ReportMarkdown), []byte(s.Markdown()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", ReportMarkdown, err)
	}
	return nil
}

// FormatPercent prints a two-decimal percentage without trailing zeros.
func FormatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
