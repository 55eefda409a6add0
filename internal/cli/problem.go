package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"

	apperrors "github.com/mbeaulieu/rrcalc/internal/errors"
	"github.com/mbeaulieu/rrcalc/internal/orchestration"
)

// problemDoc is the JSON representation of one flash problem.
// A file holds either a single object or an array of objects.
type problemDoc struct {
	Zs    []float64 `json:"zs"`
	Ks    []float64 `json:"ks"`
	Guess *float64  `json:"guess,omitempty"`
}

// ParseProblems decodes a JSON problem document into a slice of problems.
// The document is either a single object {"zs": [...], "ks": [...]} or an
// array of such objects. The optional "guess" field seeds the solver's
// initial vapor fraction.
//
// Parameters:
//   - r: The reader holding the JSON document.
//
// Returns:
//   - []orchestration.Problem: The decoded problems, in document order.
//   - error: A ValidationError for malformed or inconsistent input.
func ParseProblems(r io.Reader) ([]orchestration.Problem, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.WrapError(err, "reading problem input")
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, apperrors.ValidationError{Field: "input", Message: "empty problem document"}
	}

	var docs []problemDoc
	if trimmed[0] == '[' {
		if err := json.Unmarshal(data, &docs); err != nil {
			return nil, apperrors.ValidationError{Field: "input", Message: fmt.Sprintf("invalid JSON array: %v", err)}
		}
	} else {
		var doc problemDoc
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, apperrors.ValidationError{Field: "input", Message: fmt.Sprintf("invalid JSON object: %v", err)}
		}
		docs = []problemDoc{doc}
	}

	problems := make([]orchestration.Problem, 0, len(docs))
	for i, doc := range docs {
		if err := validateProblemDoc(i, doc); err != nil {
			return nil, err
		}
		guess := math.NaN()
		if doc.Guess != nil {
			guess = *doc.Guess
		}
		problems = append(problems, orchestration.Problem{
			Zs:    doc.Zs,
			Ks:    doc.Ks,
			Guess: guess,
		})
	}
	return problems, nil
}

// validateProblemDoc checks structural consistency of one decoded problem.
func validateProblemDoc(index int, doc problemDoc) error {
	switch {
	case len(doc.Zs) == 0:
		return apperrors.ValidationError{
			Field:   fmt.Sprintf("problem[%d].zs", index),
			Message: "missing or empty",
		}
	case len(doc.Zs) < 2:
		return apperrors.ValidationError{
			Field:   fmt.Sprintf("problem[%d].zs", index),
			Message: "at least two components are required",
		}
	case len(doc.Ks) != len(doc.Zs):
		return apperrors.ValidationError{
			Field:   fmt.Sprintf("problem[%d].ks", index),
			Message: fmt.Sprintf("length %d does not match zs length %d", len(doc.Ks), len(doc.Zs)),
		}
	}
	for j, z := range doc.Zs {
		if math.IsNaN(z) || math.IsInf(z, 0) || z < 0 {
			return apperrors.ValidationError{
				Field:   fmt.Sprintf("problem[%d].zs[%d]", index, j),
				Message: "must be a finite non-negative number",
			}
		}
	}
	for j, k := range doc.Ks {
		if math.IsNaN(k) || math.IsInf(k, 0) || k < 0 {
			return apperrors.ValidationError{
				Field:   fmt.Sprintf("problem[%d].ks[%d]", index, j),
				Message: "must be a finite non-negative number",
			}
		}
	}
	return nil
}

// ReadProblems loads problems from the named file, or from stdin when the
// path is "-" or empty.
//
// Parameters:
//   - path: The problem file path, "-" for stdin.
//
// Returns:
//   - []orchestration.Problem: The decoded problems.
//   - error: A file access error or a ValidationError.
func ReadProblems(path string) ([]orchestration.Problem, error) {
	if path == "" || path == "-" {
		return ParseProblems(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.WrapError(err, "opening problem file")
	}
	defer f.Close()
	return ParseProblems(f)
}
