package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// -----------------------------------------------------------------------------
// Load Diagnostics
// -----------------------------------------------------------------------------
//
// Malformed optional metadata (waveform EVLR, descriptor VLRs, extra bytes
// remainder, unmatched extra columns) does not abort a load. The affected
// feature is disabled and a Diagnostic is recorded on the result.

// Severity classifies how serious a diagnostic issue is.
type Severity int

const (
	SevInfo    Severity = iota // Informational (unusual but valid)
	SevWarning                 // Optional metadata ignored, feature disabled
	SevError                   // Data for a feature was lost
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// MarshalText renders the severity by name in JSON output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Diagnostic is a single recovered issue.
type Diagnostic struct {
	Severity  Severity `json:"severity"`
	Structure string   `json:"structure"`        // "VLR", "EVLR", "ExtraBytes", "WavePacket", ...
	Offset    int64    `json:"offset,omitempty"` // absolute byte offset when known
	Issue     string   `json:"issue"`
	Feature   string   `json:"feature,omitempty"` // the feature that was disabled
}

// DiagnosticReport collects diagnostics found during an operation.
type DiagnosticReport struct {
	FilePath    string       `json:"file_path,omitempty"`
	Diagnostics []Diagnostic `json:"diagnostics"`
	Summary     DiagSummary  `json:"summary"`
}

// DiagSummary provides quick statistics.
type DiagSummary struct {
	Errors   int `json:"errors"`
	Warnings int `json:"warnings"`
	Info     int `json:"info"`
}

// NewDiagnosticReport creates an empty report.
func NewDiagnosticReport(path string) *DiagnosticReport {
	return &DiagnosticReport{FilePath: path}
}

// Add appends d and updates the summary.
func (r *DiagnosticReport) Add(d Diagnostic) {
	r.Diagnostics = append(r.Diagnostics, d)
	switch d.Severity {
	case SevError:
		r.Summary.Errors++
	case SevWarning:
		r.Summary.Warnings++
	case SevInfo:
		r.Summary.Info++
	}
}

// Warn records a warning about structure.
func (r *DiagnosticReport) Warn(structure, feature, format string, args ...any) {
	r.Add(Diagnostic{
		Severity:  SevWarning,
		Structure: structure,
		Feature:   feature,
		Issue:     fmt.Sprintf(format, args...),
	})
}

// HasErrors returns true if any errors were found.
func (r *DiagnosticReport) HasErrors() bool {
	return r.Summary.Errors > 0
}

// HasAnyIssues returns true if any issues were found.
func (r *DiagnosticReport) HasAnyIssues() bool {
	return len(r.Diagnostics) > 0
}

// FormatJSON returns the report as formatted JSON (2-space indentation).
func (r *DiagnosticReport) FormatJSON() (string, error) {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// FormatTextCompact returns one line per issue.
func (r *DiagnosticReport) FormatTextCompact() string {
	var b strings.Builder
	for _, d := range r.Diagnostics {
		fmt.Fprintf(&b, "[%s/%s] %s", d.Severity, d.Structure, d.Issue)
		if d.Feature != "" {
			fmt.Fprintf(&b, " (%s disabled)", d.Feature)
		}
		b.WriteString("\n")
	}
	if len(r.Diagnostics) == 0 {
		b.WriteString("No issues found.\n")
	}
	return b.String()
}
