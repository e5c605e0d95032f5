package blockfilter

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrCoefficientFile indicates an unreadable or malformed coefficient file.
var ErrCoefficientFile = errors.New("invalid coefficient file")

// coefficientFile is the on-disk form of a FilterSpec:
//
//	b: [0.25, 0.5, 0.25]
//	a: [1, -0.5]
//	fir_only: false
type coefficientFile struct {
	B       []float64 `yaml:"b"`
	A       []float64 `yaml:"a"`
	FIROnly bool      `yaml:"fir_only"`
}

// LoadFilterSpec reads a YAML coefficient document from r. Unknown keys are
// rejected so that typos such as "fir-only" do not silently change the
// filter.
func LoadFilterSpec(r io.Reader) (*FilterSpec, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc coefficientFile
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrCoefficientFile)
		}
		return nil, fmt.Errorf("%w: %w", ErrCoefficientFile, err)
	}

	var opts []SpecOption
	if doc.FIROnly {
		opts = append(opts, WithFIROnly())
	}
	return NewFilterSpec(doc.B, doc.A, opts...)
}

// LoadFilterSpecFile reads a coefficient file from disk.
func LoadFilterSpecFile(path string) (*FilterSpec, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path is provided by the caller
	if err != nil {
		return nil, fmt.Errorf("open coefficient file: %w", err)
	}
	defer func() { _ = f.Close() }()

	spec, err := LoadFilterSpec(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return spec, nil
}

// MarshalYAML returns the spec in the format read by LoadFilterSpec.
func (s *FilterSpec) MarshalYAML() (any, error) {
	return coefficientFile{B: s.b, A: s.a, FIROnly: s.firOnly}, nil
}

// WriteYAML writes the spec as a coefficient document.
func (s *FilterSpec) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode coefficients: %w", err)
	}
	return enc.Close()
}

// WriteTo writes a human-readable listing of the coefficients, one per line
// with its index, first the feed-forward set and then the feedback set.
func (s *FilterSpec) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer

	buf.WriteString("FIR coefficients:\n")
	for i, v := range s.b {
		_, _ = fmt.Fprintf(&buf, coefficientLineFormat, i, v)
	}
	buf.WriteString("IIR coefficients:\n")
	for i, v := range s.a {
		_, _ = fmt.Fprintf(&buf, coefficientLineFormat, i, v)
	}

	return buf.WriteTo(w)
}
