package loader

import (
	"strconv"

	"github.com/pkg/errors"
)

type segKind int

const (
	segField segKind = iota
	segIndex
	segDynamic
)

// segment is one access step of a reference: .name, [3] or [ref].
type segment struct {
	kind  segKind
	field string
	index int
	dyn   *reference
}

// reference is a parsed value reference such as io.a[2] or mem.r.data[idx].
type reference struct {
	root string
	segs []segment
}

func parseReference(text string) (*reference, error) {
	p := &refParser{src: text}
	ref, err := p.reference()
	if err != nil {
		return nil, err
	}
	if p.pos != len(p.src) {
		return nil, p.errorf("unexpected %q", p.src[p.pos:])
	}
	return ref, nil
}

type refParser struct {
	src string
	pos int
}

func (p *refParser) errorf(format string, args ...any) error {
	return errors.Wrapf(errors.Errorf(format, args...), "reference %q at offset %d", p.src, p.pos)
}

func (p *refParser) peek() byte {
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *refParser) reference() (*reference, error) {
	root, err := p.ident()
	if err != nil {
		return nil, err
	}
	ref := &reference{root: root}
	for {
		switch p.peek() {
		case '.':
			p.pos++
			name, err := p.ident()
			if err != nil {
				return nil, err
			}
			ref.segs = append(ref.segs, segment{kind: segField, field: name})
		case '[':
			p.pos++
			seg, err := p.bracket()
			if err != nil {
				return nil, err
			}
			ref.segs = append(ref.segs, seg)
		default:
			return ref, nil
		}
	}
}

func (p *refParser) bracket() (segment, error) {
	var seg segment
	if isDigit(p.peek()) {
		start := p.pos
		for isDigit(p.peek()) {
			p.pos++
		}
		n, err := strconv.Atoi(p.src[start:p.pos])
		if err != nil {
			return seg, p.errorf("bad index: %v", err)
		}
		seg = segment{kind: segIndex, index: n}
	} else {
		dyn, err := p.reference()
		if err != nil {
			return seg, err
		}
		seg = segment{kind: segDynamic, dyn: dyn}
	}
	if p.peek() != ']' {
		return seg, p.errorf("expected ']'")
	}
	p.pos++
	return seg, nil
}

func (p *refParser) ident() (string, error) {
	start := p.pos
	for p.pos < len(p.src) && isNameByte(p.src[p.pos], p.pos == start) {
		p.pos++
	}
	if p.pos == start {
		return "", p.errorf("expected a name")
	}
	return p.src[start:p.pos], nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isNameByte(c byte, first bool) bool {
	switch {
	case c == '_', c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		return true
	case c == '$' || isDigit(c):
		return !first
	default:
		return false
	}
}
