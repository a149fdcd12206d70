package effect

import (
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Carmen-Shannon/oxy-addons/common"
	"github.com/gogpu/naga"
	"github.com/gogpu/naga/ir"
)

// variableDesc is a uniform variable discovered in an effect source.
type variableDesc struct {
	name        string
	typ         uniformType
	annotations map[string]string
	block       int    // index into effectDesc.blocks
	offset      uint64 // byte offset inside the block
	initial     [common.MaxComponents]uint32
}

// blockDesc is a var<uniform> declaration backing one GPU uniform buffer.
type blockDesc struct {
	name string
	size uint64
	// layoutValid is false when the block contains members whose layout cannot be computed.
	layoutValid bool
}

// techniqueDesc is a technique declared with an @oxy:technique directive.
type techniqueDesc struct {
	name        string
	annotations map[string]string
}

// effectDesc is the parsed, runtime independent description of an effect.
type effectDesc struct {
	variables  []variableDesc
	blocks     []blockDesc
	techniques []techniqueDesc
}

// parseEffect parses WGSL effect source with naga and collects its uniform variables, their
// annotations and the techniques declared through directives. Every var<uniform> whose type is a
// struct exposes each editable member as a variable; a var<uniform> of scalar, vector or matrix
// type is exposed directly. Member offsets and block sizes are the ones naga computes, so @align
// and @size attributes are honored.
//
// Parameters:
//   - source: the WGSL effect source
//
// Returns:
//   - *effectDesc: the parsed effect
//   - error: a parse error from naga or a malformed directive
func parseEffect(source string) (*effectDesc, error) {
	directives, err := parseDirectives(source)
	if err != nil {
		return nil, fmt.Errorf("parse effect directives: %w", err)
	}

	ast, err := naga.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("parse effect source: %w", err)
	}
	module, err := naga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fmt.Errorf("lower effect source: %w", err)
	}

	lines := scanDeclarations(source)
	globals := make([]ir.GlobalVariable, 0, len(module.GlobalVariables))
	for _, global := range module.GlobalVariables {
		if global.Space == ir.SpaceUniform {
			globals = append(globals, global)
		}
	}
	// naga orders globals by dependency; variables are exposed in declaration order.
	slices.SortStableFunc(globals, func(a, b ir.GlobalVariable) int {
		return lines.globals[a.Name] - lines.globals[b.Name]
	})

	desc := &effectDesc{}
	for _, global := range globals {
		blockIndex := len(desc.blocks)
		block := blockDesc{name: global.Name, layoutValid: true}
		declared := module.Types[global.Type]

		if st, ok := declared.Inner.(ir.StructType); ok {
			memberLines := lines.members[declared.Name]
			for _, member := range st.Members {
				typ, ok := resolveUniformType(module.Types[member.Type].Inner)
				if !ok {
					// Nested structs and arrays are not editable.
					block.layoutValid = false
					continue
				}
				if typ.base == common.BaseTypeBool {
					// bool is not host-shareable, so the block has no defined buffer layout.
					block.layoutValid = false
				}
				line := memberLines[member.Name]
				v, err := newVariableDesc(member.Name, typ, annotationsAbove(directives, line))
				if err != nil {
					return nil, fmt.Errorf("line %d: %w", line, err)
				}
				v.block, v.offset = blockIndex, uint64(member.Offset)
				desc.variables = append(desc.variables, v)
			}
			block.size = uint64(st.Span)
		} else if typ, ok := resolveUniformType(declared.Inner); ok {
			line := lines.globals[global.Name]
			v, err := newVariableDesc(global.Name, typ, annotationsAbove(directives, line))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			v.block = blockIndex
			desc.variables = append(desc.variables, v)
			block.size = roundUpAlign(typ.align, typ.size)
			block.layoutValid = typ.base != common.BaseTypeBool
		} else {
			continue
		}
		desc.blocks = append(desc.blocks, block)
	}

	techniqueLines := make([]int, 0, len(directives))
	for line, d := range directives {
		if d.Type == DirectiveTypeTechnique {
			techniqueLines = append(techniqueLines, line)
		}
	}
	slices.Sort(techniqueLines)
	for _, line := range techniqueLines {
		d := directives[line]
		if slices.ContainsFunc(desc.techniques, func(t techniqueDesc) bool { return t.name == d.Name }) {
			return nil, fmt.Errorf("line %d: duplicate technique %q", line, d.Name)
		}
		desc.techniques = append(desc.techniques, techniqueDesc{name: d.Name, annotations: d.Annotations})
	}

	return desc, nil
}

var (
	structDeclPattern  = regexp.MustCompile(`^\s*struct\s+([A-Za-z_][A-Za-z0-9_]*)`)
	memberDeclPattern  = regexp.MustCompile(`^\s*(?:@[A-Za-z_]+(?:\s*\([^)]*\))?\s*)*([A-Za-z_][A-Za-z0-9_]*)\s*:`)
	uniformDeclPattern = regexp.MustCompile(`\bvar\s*<\s*uniform\s*>\s*([A-Za-z_][A-Za-z0-9_]*)`)
)

// declarationLines records the 1-based source line of each uniform global and struct member.
type declarationLines struct {
	globals map[string]int
	members map[string]map[string]int // struct name -> member name -> line
}

// scanDeclarations locates declarations in source that naga has already accepted. naga's IR
// carries no member spans, and annotations bind by line. Members sharing a line, including the
// line that opens or closes their struct, all get that line.
func scanDeclarations(source string) declarationLines {
	lines := declarationLines{globals: make(map[string]int), members: make(map[string]map[string]int)}
	var current map[string]int
	for i, text := range strings.Split(source, "\n") {
		if code, _, found := strings.Cut(text, "//"); found {
			text = code
		}
		if current == nil {
			m := structDeclPattern.FindStringSubmatch(text)
			if m == nil {
				if m := uniformDeclPattern.FindStringSubmatch(text); m != nil {
					if _, seen := lines.globals[m[1]]; !seen {
						lines.globals[m[1]] = i + 1
					}
				}
				continue
			}
			current = make(map[string]int)
			lines.members[m[1]] = current
			_, text, _ = strings.Cut(text, "{")
		} else if body, ok := strings.CutPrefix(strings.TrimSpace(text), "{"); ok {
			text = body
		}

		body, _, closed := strings.Cut(text, "}")
		for _, field := range strings.Split(body, ",") {
			if m := memberDeclPattern.FindStringSubmatch(field); m != nil {
				if _, seen := current[m[1]]; !seen {
					current[m[1]] = i + 1
				}
			}
		}
		if closed {
			current = nil
		}
	}
	return lines
}

// newVariableDesc builds a variable description and decodes its "default" annotation, if any,
// into the initial component values.
func newVariableDesc(name string, typ uniformType, annotations map[string]string) (variableDesc, error) {
	v := variableDesc{name: name, typ: typ, annotations: annotations}
	def, ok := annotations["default"]
	if !ok {
		return v, nil
	}
	fields := strings.FieldsFunc(def, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) > typ.components() {
		return v, fmt.Errorf("default for %q has %d values, type holds %d", name, len(fields), typ.components())
	}
	for i, f := range fields {
		bits, err := parseComponent(typ.base, f)
		if err != nil {
			return v, fmt.Errorf("default for %q: %w", name, err)
		}
		v.initial[i] = bits
	}
	return v, nil
}

// parseComponent parses a literal into the raw 32-bit representation of base.
func parseComponent(base common.BaseType, s string) (uint32, error) {
	switch base {
	case common.BaseTypeBool:
		b, err := strconv.ParseBool(s)
		if err != nil {
			return 0, err
		}
		return boolBits(b), nil
	case common.BaseTypeFloat:
		f, err := parseFloat32(s)
		if err != nil {
			return 0, err
		}
		return floatBits(f), nil
	case common.BaseTypeInt:
		i, err := strconv.ParseInt(s, 0, 32)
		if err != nil {
			return 0, err
		}
		return uint32(int32(i)), nil
	case common.BaseTypeUint:
		u, err := strconv.ParseUint(s, 0, 32)
		if err != nil {
			return 0, err
		}
		return uint32(u), nil
	default:
		return 0, fmt.Errorf("unsupported base type %s", base)
	}
}
