package rpminspect

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrIO is returned when the report cannot be read or an output file
	// cannot be written.
	ErrIO = errors.New("i/o failure")
	// ErrMalformedReport is returned when the report is not an object
	// mapping inspection names to arrays of findings.
	ErrMalformedReport = errors.New("malformed report")
)

// SkippedInspection is always appended to a loaded report so every results
// directory carries at least one result/status pair.
const SkippedInspection = "skipped"

// Finding is one entry reported by an inspection. Every field is optional.
type Finding struct {
	Message             string `json:"message"`
	Result              string `json:"result"`
	WaiverAuthorization string `json:"waiver authorization"`
	Details             string `json:"details"`
	Remedy              string `json:"remedy"`
}

type Inspection struct {
	Name     string
	Findings []Finding
}

// Report holds the inspections in the order they appear in the document.
type Report struct {
	Inspections []Inspection
	// DroppedBytes counts the invalid UTF-8 bytes discarded while decoding.
	DroppedBytes int
}

func skippedInspection() Inspection {
	return Inspection{
		Name: SkippedInspection,
		Findings: []Finding{
			{
				Message: "This inspection did not run.",
				Result:  OutcomeInfo,
			},
		},
	}
}

// LoadReport reads and parses the rpminspect JSON document at path.
func LoadReport(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot open report: %w", ErrIO, err)
	}
	defer f.Close()

	return ParseReport(f)
}

// ParseReport decodes an rpminspect JSON document. Invalid UTF-8 sequences
// are dropped instead of failing the decode.
func ParseReport(r io.Reader) (*Report, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot read report: %w", ErrIO, err)
	}

	clean, dropped := dropInvalidUTF8(raw)

	report, err := decodeReport(clean)
	if err != nil {
		return nil, err
	}
	report.DroppedBytes = dropped
	report.set(skippedInspection())

	return report, nil
}

// set appends the inspection, or replaces it when the name is already
// present. The skipped inspection is always moved to the end.
func (r *Report) set(inspection Inspection) {
	for i := range r.Inspections {
		if r.Inspections[i].Name != inspection.Name {
			continue
		}
		if inspection.Name == SkippedInspection {
			r.Inspections = append(r.Inspections[:i], r.Inspections[i+1:]...)
			break
		}
		r.Inspections[i] = inspection
		return
	}
	r.Inspections = append(r.Inspections, inspection)
}

func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedReport, fmt.Sprintf(format, args...))
}

// decodeReport walks the top-level object token by token, since the key
// order of the document decides the output order.
func decodeReport(data []byte) (*Report, error) {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return nil, malformed("%v", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, malformed("top-level value is not an object")
	}

	report := &Report{}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, malformed("%v", err)
		}
		name, ok := tok.(string)
		if !ok {
			return nil, malformed("unexpected token %v", tok)
		}

		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, malformed("inspection %q: %v", name, err)
		}
		findings, err := decodeFindings(value)
		if err != nil {
			return nil, malformed("inspection %q: %v", name, err)
		}

		report.set(Inspection{Name: name, Findings: findings})
	}

	// closing brace
	if _, err := dec.Token(); err != nil {
		return nil, malformed("%v", err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, malformed("unexpected data after the top-level object")
	}

	return report, nil
}

func decodeFindings(value json.RawMessage) ([]Finding, error) {
	if !startsWith(value, '[') {
		return nil, errors.New("value is not an array")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, err
	}

	findings := make([]Finding, 0, len(items))
	for i, item := range items {
		finding, err := decodeFinding(item)
		if err != nil {
			return nil, fmt.Errorf("finding %d: %v", i+1, err)
		}
		findings = append(findings, *finding)
	}

	return findings, nil
}

// decodeFinding looks fields up by their exact key. Unmarshalling into a
// tagged struct would also accept "Result" or "RESULT".
func decodeFinding(item json.RawMessage) (*Finding, error) {
	if !startsWith(item, '{') {
		return nil, errors.New("not an object")
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(item, &fields); err != nil {
		return nil, err
	}

	var finding Finding
	targets := []struct {
		key   string
		value *string
	}{
		{"message", &finding.Message},
		{"result", &finding.Result},
		{"waiver authorization", &finding.WaiverAuthorization},
		{"details", &finding.Details},
		{"remedy", &finding.Remedy},
	}
	for _, target := range targets {
		raw, ok := fields[target.key]
		if !ok {
			continue
		}
		// null leaves the field empty
		if err := json.Unmarshal(raw, target.value); err != nil {
			return nil, fmt.Errorf("field %q: %v", target.key, err)
		}
	}

	return &finding, nil
}

func startsWith(value json.RawMessage, c byte) bool {
	trimmed := bytes.TrimLeft(value, " \t\r\n")
	return len(trimmed) > 0 && trimmed[0] == c
}

// dropInvalidUTF8 returns data with every byte that is not part of a valid
// UTF-8 sequence removed, along with the number of bytes removed.
func dropInvalidUTF8(data []byte) ([]byte, int) {
	clean := bytes.ToValidUTF8(data, nil)
	return clean, len(data) - len(clean)
}
