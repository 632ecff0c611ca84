package gimp

import (
	"fmt"
	"strconv"
	"strings"
)

// Symbol is an unquoted Script-Fu atom that is neither a number nor a
// boolean, such as RUN-NONINTERACTIVE in an echoed call.
type Symbol string

// parseSexp reads the first value from a printed Script-Fu result.
func parseSexp(s string) (any, error) {
	p := &sexpParser{src: s}
	v, err := p.value()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	return v, nil
}

type sexpParser struct {
	src string
	pos int
}

func (p *sexpParser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t' || p.src[p.pos] == '\n' || p.src[p.pos] == '\r') {
		p.pos++
	}
}

func (p *sexpParser) value() (any, error) {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return nil, fmt.Errorf("unexpected end of input at %d", p.pos)
	}

	switch c := p.src[p.pos]; {
	case c == '(':
		p.pos++
		return p.sequence(')')

	case c == '#' && p.pos+1 < len(p.src) && p.src[p.pos+1] == '(':
		p.pos += 2
		return p.sequence(')')

	case c == '#' && p.pos+1 < len(p.src) && (p.src[p.pos+1] == 't' || p.src[p.pos+1] == 'f'):
		p.pos += 2
		return p.src[p.pos-1] == 't', nil

	case c == '"':
		return p.quoted()

	default:
		return p.atom()
	}
}

func (p *sexpParser) sequence(close byte) ([]any, error) {
	items := []any{}
	for {
		p.skipSpace()
		if p.pos >= len(p.src) {
			return nil, fmt.Errorf("unterminated list at %d", p.pos)
		}
		if p.src[p.pos] == close {
			p.pos++
			return items, nil
		}
		v, err := p.value()
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
}

func (p *sexpParser) quoted() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch c {
		case '"':
			p.pos++
			return b.String(), nil
		case '\\':
			p.pos++
			if p.pos >= len(p.src) {
				return "", fmt.Errorf("unterminated escape at %d", p.pos)
			}
			switch e := p.src[p.pos]; e {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			default:
				b.WriteByte(e)
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", fmt.Errorf("unterminated string at %d", p.pos)
}

func (p *sexpParser) atom() (any, error) {
	start := p.pos
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		if c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '(' || c == ')' || c == '"' {
			break
		}
		p.pos++
	}
	if p.pos == start {
		return nil, fmt.Errorf("unexpected byte %q at %d", p.src[start], start)
	}

	tok := p.src[start:p.pos]
	if n, err := strconv.Atoi(tok); err == nil {
		return n, nil
	}
	if f, err := strconv.ParseFloat(tok, 64); err == nil {
		return f, nil
	}
	return Symbol(tok), nil
}
