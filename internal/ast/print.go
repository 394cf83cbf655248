package ast

import (
	"fmt"
	"io"
	"reflect"
	"strings"

	"incan/internal/source"
)

var spanType = reflect.TypeOf(source.Span{})

// Fprint writes an indented dump of the tree rooted at node. Span fields are
// omitted so dumps compare cleanly across whitespace-only edits.
func Fprint(w io.Writer, node any) {
	p := printer{w: w}
	p.value(reflect.ValueOf(node))
	fmt.Fprintln(w)
}

type printer struct {
	w      io.Writer
	indent int
}

func (p *printer) printf(format string, args ...any) {
	fmt.Fprintf(p.w, format, args...)
}

func (p *printer) newline() {
	p.printf("\n%s", strings.Repeat("  ", p.indent))
}

func (p *printer) value(v reflect.Value) {
	switch v.Kind() {
	case reflect.Interface, reflect.Pointer:
		if v.IsNil() {
			p.printf("nil")
			return
		}
		p.value(v.Elem())
	case reflect.Slice:
		if v.Len() == 0 {
			p.printf("[]")
			return
		}
		p.printf("[")
		p.indent++
		for i := 0; i < v.Len(); i++ {
			p.newline()
			p.value(v.Index(i))
		}
		p.indent--
		p.newline()
		p.printf("]")
	case reflect.Struct:
		t := v.Type()
		p.printf("%s{", t.Name())
		p.indent++
		printed := 0
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			if !f.IsExported() || f.Type == spanType {
				continue
			}
			p.newline()
			p.printf("%s: ", f.Name)
			p.value(v.Field(i))
			printed++
		}
		p.indent--
		if printed > 0 {
			p.newline()
		}
		p.printf("}")
	case reflect.String:
		p.printf("%q", v.String())
	default:
		p.printf("%v", v.Interface())
	}
}
