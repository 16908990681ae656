package bmff

import (
	"fmt"
	"strings"
)

// Format renders a box tree for diagnostics: "[type] (byteLength)" per box,
// indented two spaces per nesting level, followed by per-field lines. This
// is diagnostic only; it is never part of the wire format and never fails —
// on any internal inconsistency it emits "<?>" in place of the offending
// value rather than returning an error.
func Format(b boxLike) string {
	var sb strings.Builder
	formatBox(&sb, b, 0)
	return sb.String()
}

func formatBox(sb *strings.Builder, b boxLike, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(sb, "%s[%s] (%d)\n", pad, safeType(b), b.ByteLength())

	switch v := b.(type) {
	case *Container:
		for i, el := range v.Box.elements {
			formatField(sb, v.Box.names[i], el, indent+2)
		}
		for _, child := range v.children {
			formatBox(sb, child, indent+2)
		}
	case *Box:
		for i, el := range v.elements {
			formatField(sb, v.names[i], el, indent+2)
		}
	}
}

func formatField(sb *strings.Builder, name string, el Element, indent int) {
	pad := strings.Repeat(" ", indent)
	fmt.Fprintf(sb, "%s%s = %s (%d)\n", pad, name, safeValue(el), el.ByteLength())
}

func safeType(b boxLike) (s string) {
	defer func() {
		if recover() != nil {
			s = "<?>"
		}
	}()
	return b.Type()
}

func safeValue(el Element) (s string) {
	defer func() {
		if recover() != nil {
			s = "<?>"
		}
	}()
	return fmt.Sprintf("%v", el.Value())
}
