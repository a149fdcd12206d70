// annotations.go defines the directive types and parser for effect metadata. Directives are
// single-line WGSL comments prefixed with @oxy: that attach UI annotations to uniform members
// and declare the techniques an effect exposes. Plain comments and WGSL code are ignored here;
// the WGSL itself is parsed separately by naga.
//
// Syntax:
//
//	//@oxy:annotation <key> <value...>
//	//@oxy:technique <name> [<key>=<value> ...]
//
// Annotation directives bind to the uniform member (or var<uniform> declaration) on the first
// line below the contiguous block of directives they belong to.
package effect

import (
	"fmt"
	"strconv"
	"strings"
)

// directivePrefix is the marker that identifies an effect directive within a WGSL comment line.
const directivePrefix = "@oxy:"

// DirectiveType identifies the kind of directive parsed from a WGSL comment line.
type DirectiveType string

const (
	// DirectiveTypeAnnotation attaches a key/value annotation to the uniform declared below it.
	//
	// Syntax: //@oxy:annotation <key> <value...>
	//
	// Example: //@oxy:annotation ui_type slider
	DirectiveTypeAnnotation DirectiveType = "annotation"

	// DirectiveTypeTechnique declares a technique with optional key=value annotations.
	//
	// Syntax: //@oxy:technique <name> [<key>=<value> ...]
	//
	// Example: //@oxy:technique Vignette enabled=1
	DirectiveTypeTechnique DirectiveType = "technique"
)

// Directive represents a single parsed @oxy: directive.
type Directive struct {
	// Type identifies which directive was parsed.
	Type DirectiveType

	// Name is the annotation key for annotation directives and the technique name for technique directives.
	Name string

	// Value is the raw annotation value for annotation directives. Empty for techniques.
	Value string

	// Annotations holds the key=value pairs of a technique directive.
	Annotations map[string]string

	// Line is the 1-based source line the directive was found on.
	Line int
}

// parseDirective attempts to parse a single line of WGSL source as an @oxy: directive.
// Returns nil with no error for lines that are not directive comments.
//
// Parameters:
//   - line: the raw source line
//   - lineNum: the 1-based line number for error reporting
//
// Returns:
//   - *Directive: the parsed directive, or nil if the line is not a directive
//   - error: a descriptive error if the directive is malformed
func parseDirective(line string, lineNum int) (*Directive, error) {
	comment, ok := strings.CutPrefix(strings.TrimSpace(line), "//")
	if !ok {
		return nil, nil
	}
	after, ok := strings.CutPrefix(strings.TrimSpace(comment), directivePrefix)
	if !ok {
		return nil, nil
	}

	kind, rest, _ := strings.Cut(strings.TrimSpace(after), " ")
	rest = strings.TrimSpace(rest)
	if kind == "" {
		return nil, fmt.Errorf("line %d: empty @oxy directive", lineNum)
	}

	switch kind {
	case string(DirectiveTypeAnnotation):
		key, value, _ := strings.Cut(rest, " ")
		value = strings.TrimSpace(value)
		if key == "" || value == "" {
			return nil, fmt.Errorf("line %d: @oxy annotation requires a key and a value", lineNum)
		}
		return &Directive{
			Type:  DirectiveTypeAnnotation,
			Name:  key,
			Value: value,
			Line:  lineNum,
		}, nil
	case string(DirectiveTypeTechnique):
		fields := strings.Fields(rest)
		if len(fields) == 0 {
			return nil, fmt.Errorf("line %d: @oxy technique requires a name", lineNum)
		}
		annotations := make(map[string]string, len(fields)-1)
		for _, field := range fields[1:] {
			key, value, ok := strings.Cut(field, "=")
			if !ok || key == "" {
				return nil, fmt.Errorf("line %d: invalid technique annotation %q, expected key=value", lineNum, field)
			}
			annotations[key] = value
		}
		return &Directive{
			Type:        DirectiveTypeTechnique,
			Name:        fields[0],
			Annotations: annotations,
			Line:        lineNum,
		}, nil
	default:
		return nil, fmt.Errorf("line %d: unknown @oxy directive type %q", lineNum, kind)
	}
}

// parseDirectives scans every line of source and returns the directives keyed by line number.
//
// Parameters:
//   - source: the raw effect source
//
// Returns:
//   - map[int]*Directive: directives keyed by 1-based line number
//   - error: the first malformed directive encountered
func parseDirectives(source string) (map[int]*Directive, error) {
	directives := make(map[int]*Directive)
	for i, line := range strings.Split(source, "\n") {
		d, err := parseDirective(line, i+1)
		if err != nil {
			return nil, err
		}
		if d != nil {
			directives[i+1] = d
		}
	}
	return directives, nil
}

// annotationsAbove collects the annotation directives in the contiguous directive block ending on the
// line directly above declLine. Later directives win when a key repeats.
//
// Parameters:
//   - directives: all directives keyed by line number
//   - declLine: the 1-based line of the declaration the annotations belong to
//
// Returns:
//   - map[string]string: the annotations, never nil
func annotationsAbove(directives map[int]*Directive, declLine int) map[string]string {
	annotations := make(map[string]string)
	start := declLine
	for start > 1 {
		if _, ok := directives[start-1]; !ok {
			break
		}
		start--
	}
	for line := start; line < declLine; line++ {
		if d := directives[line]; d.Type == DirectiveTypeAnnotation {
			annotations[d.Name] = d.Value
		}
	}
	return annotations
}

// parseNumbers splits an annotation value on whitespace and commas and parses each field with parse.
//
// Parameters:
//   - value: the raw annotation value
//   - parse: the per-field parser
//
// Returns:
//   - []T: the parsed values
//   - bool: false if the value is empty or any field fails to parse
func parseNumbers[T any](value string, parse func(string) (T, error)) ([]T, bool) {
	fields := strings.FieldsFunc(value, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		return nil, false
	}
	out := make([]T, 0, len(fields))
	for _, f := range fields {
		v, err := parse(f)
		if err != nil {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

func parseFloat32(s string) (float32, error) {
	v, err := strconv.ParseFloat(s, 32)
	return float32(v), err
}

func parseInt32(s string) (int32, error) {
	v, err := strconv.ParseInt(s, 0, 32)
	if err != nil {
		// Annotations such as ui_min on float uniforms are written as floats but may be read as ints.
		f, ferr := strconv.ParseFloat(s, 64)
		if ferr != nil {
			return 0, err
		}
		return int32(f), nil
	}
	return int32(v), nil
}
