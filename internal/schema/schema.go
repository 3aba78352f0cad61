// Package schema checks HAR documents against the HAR 1.2 structure.
//
// The structure is a CUE definition embedded in the binary. A document is
// valid when it unifies with #HAR and every required field is present.
package schema

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	cuejson "cuelang.org/go/encoding/json"
)

//go:embed har.cue
var harSchema string

// Error codes reported in ValidationError.Code.
const (
	CodeSyntax = "E002"
	CodeSchema = "E005"
)

// ValidationError is one problem found in a document.
type ValidationError struct {
	Path    string `json:"path" yaml:"path"`
	Message string `json:"message" yaml:"message"`
	Code    string `json:"code" yaml:"code"`
	Line    int    `json:"line,omitempty" yaml:"line,omitempty"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	switch {
	case e.Path != "" && e.Line > 0:
		return fmt.Sprintf("[%s] line %d: %s: %s", e.Code, e.Line, e.Path, e.Message)
	case e.Path != "":
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Path, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Validate checks data, a JSON HAR document, and returns every problem
// found. An empty result means the document is valid.
func Validate(data []byte) []ValidationError {
	cctx := cuecontext.New()
	compiled := cctx.CompileString(harSchema, cue.Filename("har.cue"))
	if err := compiled.Err(); err != nil {
		return []ValidationError{{Message: fmt.Sprintf("compile har schema: %v", err), Code: CodeSchema}}
	}
	def := compiled.LookupPath(cue.ParsePath("#HAR"))

	expr, err := cuejson.Extract("input.har", data)
	if err != nil {
		return convert(err, CodeSyntax)
	}
	doc := cctx.BuildExpr(expr)
	if err := doc.Err(); err != nil {
		return convert(err, CodeSyntax)
	}

	unified := def.Unify(doc)
	if err := unified.Validate(cue.Concrete(true), cue.All()); err != nil {
		return convert(err, CodeSchema)
	}
	return nil
}

// convert flattens a CUE error list into ValidationErrors sorted by
// path, dropping duplicates reported through several definitions.
func convert(err error, code string) []ValidationError {
	var out []ValidationError
	seen := make(map[string]bool)
	for _, e := range errors.Errors(err) {
		format, args := e.Msg()
		ve := ValidationError{
			Path:    strings.Join(e.Path(), "."),
			Message: fmt.Sprintf(format, args...),
			Code:    code,
		}
		for _, pos := range errors.Positions(e) {
			if pos.Filename() == "input.har" {
				ve.Line = pos.Line()
				break
			}
		}
		key := ve.Path + "\x00" + ve.Message
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, ve)
	}
	if len(out) == 0 {
		out = append(out, ValidationError{Message: err.Error(), Code: code})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
