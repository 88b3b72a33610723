package rpminspect

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
)

// Status is the aggregated outcome of one inspection.
type Status int

const (
	StatusPassed Status = 0
	StatusFailed Status = 1
)

func (s Status) String() string {
	return strconv.Itoa(int(s))
}

// Transformer splits an rpminspect report into one text result and one
// status file per inspection.
type Transformer struct {
	names          map[string]string
	exempt         map[string]bool
	includePassing bool
}

func NewTransformer(config Config) *Transformer {
	t := &Transformer{
		names:          make(map[string]string, len(config.Names)),
		exempt:         make(map[string]bool, len(config.ExemptOutcomes)),
		includePassing: config.IncludePassingFindings,
	}
	for k, v := range config.Names {
		t.names[k] = v
	}
	for _, outcome := range config.ExemptOutcomes {
		t.exempt[outcome] = true
	}
	return t
}

// DisplayName returns the name the inspection is published under.
func (t *Transformer) DisplayName(name string) string {
	if display, ok := t.names[name]; ok {
		return display
	}
	return name
}

func (t *Transformer) shown(finding Finding) bool {
	if t.includePassing {
		return true
	}
	return finding.Result != OutcomeOK && finding.Result != OutcomeInfo
}

// Format renders the human readable result body of an inspection.
func (t *Transformer) Format(inspection Inspection) string {
	name := t.DisplayName(inspection.Name)

	var b strings.Builder
	fmt.Fprintf(&b, "\n%s:\n", name)
	b.WriteString(strings.Repeat("-", len(name)+1))
	b.WriteString("\n\n")

	for i, finding := range inspection.Findings {
		// numbering counts hidden findings too
		if !t.shown(finding) {
			continue
		}

		if finding.Result != "" {
			fmt.Fprintf(&b, "Result: %s\n", finding.Result)
		}
		if finding.Message != "" {
			fmt.Fprintf(&b, "%d) %s\n\n", i+1, finding.Message)
		}
		if finding.WaiverAuthorization != "" {
			fmt.Fprintf(&b, "Waiver Authorization: %s\n", finding.WaiverAuthorization)
		}
		if finding.Details != "" {
			fmt.Fprintf(&b, "\nDetails:\n%s\n", finding.Details)
		}
		if finding.Remedy != "" {
			fmt.Fprintf(&b, "\nSuggested Remedy:\n%s\n", finding.Remedy)
		}
		b.WriteString("\n\n")
	}

	return b.String()
}

// Status fails the inspection when any finding carries a result outside
// the exempt outcomes. Hidden findings count as well.
func (t *Transformer) Status(inspection Inspection) Status {
	for _, finding := range inspection.Findings {
		if finding.Result != "" && !t.exempt[finding.Result] {
			return StatusFailed
		}
	}
	return StatusPassed
}

// outputNames maps every inspection to the name its files are written
// under. Two inspections publishing under one name, or a name that would
// leave outputDir, make the report unusable.
func (t *Transformer) outputNames(report *Report) ([]string, error) {
	names := make([]string, len(report.Inspections))
	owners := make(map[string]string, len(report.Inspections))
	for i, inspection := range report.Inspections {
		name := t.DisplayName(inspection.Name)
		if strings.ContainsAny(name, "/\x00") || strings.ContainsRune(name, filepath.Separator) {
			return nil, malformed("inspection %q cannot be written as %q", inspection.Name, name)
		}
		if owner, ok := owners[name]; ok {
			return nil, malformed("inspections %q and %q are both written as %q", owner, inspection.Name, name)
		}
		owners[name] = inspection.Name
		names[i] = name
	}
	return names, nil
}

// Write stores <name>_result and <name>_status for every inspection of the
// report into outputDir, which must already exist. Names are checked before
// anything is written. The first failing write aborts the run; files written
// before it are left in place.
func (t *Transformer) Write(report *Report, outputDir string) error {
	names, err := t.outputNames(report)
	if err != nil {
		return err
	}

	for i, inspection := range report.Inspections {
		name := names[i]
		status := t.Status(inspection)

		resultPath := filepath.Join(outputDir, name+"_result")
		if err := os.WriteFile(resultPath, []byte(t.Format(inspection)), 0644); err != nil {
			return fmt.Errorf("%w: cannot write %s: %w", ErrIO, resultPath, err)
		}

		statusPath := filepath.Join(outputDir, name+"_status")
		if err := os.WriteFile(statusPath, []byte(status.String()), 0644); err != nil {
			return fmt.Errorf("%w: cannot write %s: %w", ErrIO, statusPath, err)
		}

		logrus.WithFields(logrus.Fields{
			"inspection": inspection.Name,
			"name":       name,
			"findings":   len(inspection.Findings),
			"status":     status.String(),
		}).Debug("inspection written")
	}

	return nil
}

// Transform loads the report at reportPath and writes its inspections into
// outputDir. A report that fails to load produces no output at all.
func (t *Transformer) Transform(reportPath, outputDir string) error {
	report, err := LoadReport(reportPath)
	if err != nil {
		return err
	}
	if report.DroppedBytes > 0 {
		logrus.Warnf("Dropped %d invalid UTF-8 bytes while reading %s", report.DroppedBytes, reportPath)
	}

	return t.Write(report, outputDir)
}
