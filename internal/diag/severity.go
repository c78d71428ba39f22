package diag

import "strings"

// Severity orders diagnostics from least to most serious.
type Severity uint8

const (
	SevInfo Severity = iota
	SevWarning
	SevError
)

var severityLabels = [...]string{SevInfo: "info", SevWarning: "warning", SevError: "error"}

// Label is the lower-case name used in documents and golden output.
func (s Severity) Label() string {
	if int(s) < len(severityLabels) {
		return severityLabels[s]
	}
	return "unknown"
}

// String is the upper-case form shown in headers.
func (s Severity) String() string { return strings.ToUpper(s.Label()) }

// ParseSeverity accepts a label in any case.
func ParseSeverity(label string) (Severity, bool) {
	label = strings.ToLower(strings.TrimSpace(label))
	for sev, l := range severityLabels {
		if l == label {
			return Severity(sev), true
		}
	}
	return 0, false
}
