package manifest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/christophertubbs/erdantic/pkg/typeexpr"
)

// parseType parses the compact field type syntax:
//
//	expr  := term ("|" term)*
//	term  := "?" term | "[]" term | "map[" expr "]" term | name
//	name  := letter (letter | digit | "_" | ".")*
//
// Every name parses to an unbound ForwardRef; binding against declared
// models and primitives is the schema's job.
func parseType(s string) (typeexpr.Expr, error) {
	p := &typeParser{input: s}
	expr, err := p.union()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos != len(p.input) {
		return nil, fmt.Errorf("unexpected %q at offset %d in type %q", p.input[p.pos:], p.pos, s)
	}
	return expr, nil
}

type typeParser struct {
	input string
	pos   int
}

func (p *typeParser) union() (typeexpr.Expr, error) {
	first, err := p.term()
	if err != nil {
		return nil, err
	}
	members := []typeexpr.Expr{first}
	for {
		p.skipSpace()
		if !p.consume("|") {
			break
		}
		next, err := p.term()
		if err != nil {
			return nil, err
		}
		members = append(members, next)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return typeexpr.Union{Members: members}, nil
}

func (p *typeParser) term() (typeexpr.Expr, error) {
	p.skipSpace()
	switch {
	case p.consume("?"):
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		return typeexpr.Optional{Elem: elem}, nil
	case p.consume("[]"):
		elem, err := p.term()
		if err != nil {
			return nil, err
		}
		return typeexpr.List{Elem: elem}, nil
	case p.consume("map["):
		key, err := p.union()
		if err != nil {
			return nil, err
		}
		p.skipSpace()
		if !p.consume("]") {
			return nil, fmt.Errorf("missing ] in map type %q", p.input)
		}
		value, err := p.term()
		if err != nil {
			return nil, err
		}
		return typeexpr.Map{Key: key, Value: value}, nil
	default:
		return p.name()
	}
}

func (p *typeParser) name() (typeexpr.Expr, error) {
	start := p.pos
	for p.pos < len(p.input) {
		r := rune(p.input[p.pos])
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '.' {
			p.pos++
			continue
		}
		break
	}
	if p.pos == start {
		return nil, fmt.Errorf("expected type name at offset %d in %q", start, p.input)
	}
	name := p.input[start:p.pos]
	if !unicode.IsLetter(rune(name[0])) {
		return nil, fmt.Errorf("invalid type name %q in %q", name, p.input)
	}
	return typeexpr.ForwardRef{Name: name}, nil
}

func (p *typeParser) consume(prefix string) bool {
	if strings.HasPrefix(p.input[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *typeParser) skipSpace() {
	for p.pos < len(p.input) && (p.input[p.pos] == ' ' || p.input[p.pos] == '\t') {
		p.pos++
	}
}
