package types

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/pkg/errors"
)

// Parse reads a type in the canonical textual form produced by String:
//
//	Clock  Reset  AsyncReset  UInt  UInt<8>  SInt<3>  Analog<2>
//	{a: UInt<4>, flip b: {x: UInt<1>}}
//	UInt<4>[3]  (flip UInt<1>)[2]  flip {a: Clock}
func Parse(src string) (Type, error) {
	p := &typeParser{toks: lexType(src), src: src}
	t, err := p.parseType()
	if err != nil {
		return nil, err
	}
	if !p.done() {
		return nil, p.errorf("unexpected %q after type", p.peek())
	}
	return t, nil
}

// MustParse is Parse for statically known types; it panics on error.
func MustParse(src string) Type {
	t, err := Parse(src)
	if err != nil {
		panic(err)
	}
	return t
}

func lexType(src string) []string {
	var toks []string
	rs := []rune(src)
	for i := 0; i < len(rs); {
		r := rs[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case isNameRune(r):
			j := i
			for j < len(rs) && isNameRune(rs[j]) {
				j++
			}
			toks = append(toks, string(rs[i:j]))
			i = j
		default:
			toks = append(toks, string(r))
			i++
		}
	}
	return toks
}

func isNameRune(r rune) bool {
	return r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

type typeParser struct {
	toks []string
	pos  int
	src  string
}

func (p *typeParser) done() bool { return p.pos >= len(p.toks) }

func (p *typeParser) peek() string {
	if p.done() {
		return ""
	}
	return p.toks[p.pos]
}

func (p *typeParser) peekAt(n int) string {
	if p.pos+n >= len(p.toks) {
		return ""
	}
	return p.toks[p.pos+n]
}

func (p *typeParser) next() string {
	tok := p.peek()
	p.pos++
	return tok
}

func (p *typeParser) expect(tok string) error {
	if got := p.next(); got != tok {
		if got == "" {
			return p.errorf("expected %q, found end of input", tok)
		}
		return p.errorf("expected %q, found %q", tok, got)
	}
	return nil
}

func (p *typeParser) errorf(format string, args ...any) error {
	return errors.Wrapf(errors.Errorf(format, args...), "parsing type %q", p.src)
}

func (p *typeParser) parseType() (Type, error) {
	if p.peek() == "flip" {
		p.next()
		inner, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return Flip(inner), nil
	}
	return p.parsePostfix()
}

func (p *typeParser) parsePostfix() (Type, error) {
	t, err := p.parsePrimary()
	if err != nil {
		return nil, err
	}
	for p.peek() == "[" {
		p.next()
		n, err := p.parseInt()
		if err != nil {
			return nil, err
		}
		if err := p.expect("]"); err != nil {
			return nil, err
		}
		t = Vector(t, n)
	}
	return t, nil
}

func (p *typeParser) parsePrimary() (Type, error) {
	switch tok := p.next(); tok {
	case "(":
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		return t, p.expect(")")
	case "{":
		return p.parseBundle()
	case "Clock":
		return Clock(), nil
	case "Reset":
		return Reset(), nil
	case "AsyncReset":
		return AsyncReset(), nil
	case "UInt", "SInt", "Analog":
		width := UnknownWidth
		if p.peek() == "<" {
			p.next()
			w, err := p.parseInt()
			if err != nil {
				return nil, err
			}
			if err := p.expect(">"); err != nil {
				return nil, err
			}
			width = w
		}
		switch tok {
		case "UInt":
			return UInt(width), nil
		case "SInt":
			return SInt(width), nil
		default:
			return Analog(width), nil
		}
	case "":
		return nil, p.errorf("unexpected end of input")
	default:
		return nil, p.errorf("unknown type %q", tok)
	}
}

func (p *typeParser) parseBundle() (Type, error) {
	var fields []BundleField
	for p.peek() != "}" {
		if len(fields) > 0 {
			if err := p.expect(","); err != nil {
				return nil, err
			}
		}
		flipped := false
		if p.peek() == "flip" && p.peekAt(1) != ":" {
			p.next()
			flipped = true
		}
		name := p.next()
		if name == "" || !isName(name) {
			return nil, p.errorf("expected field name, found %q", name)
		}
		if err := p.expect(":"); err != nil {
			return nil, err
		}
		t, err := p.parseType()
		if err != nil {
			return nil, err
		}
		if flipped {
			t = Flip(t)
		}
		fields = append(fields, BundleField{Name: name, Type: t})
	}
	p.next()
	if err := validateFields(fields); err != nil {
		return nil, errors.Wrapf(err, "parsing type %q", p.src)
	}
	return Bundle(fields...), nil
}

func (p *typeParser) parseInt() (int, error) {
	tok := p.next()
	n, err := strconv.Atoi(tok)
	if err != nil || n < 0 {
		return 0, p.errorf("expected non-negative integer, found %q", tok)
	}
	return n, nil
}

func isName(tok string) bool {
	return strings.IndexFunc(tok, func(r rune) bool { return !isNameRune(r) }) < 0
}
