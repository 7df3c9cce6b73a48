// Package filter implements the query language accepted by the list endpoint:
//
//	(date eq '2016-05-01') AND ((distance gt 20) OR (distance lt 10))
//
// Fields are date, distance, time and location; operators are eq, ne, gt and lt.
// AND binds tighter than OR; keywords are case-insensitive.
package filter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/i474232898/jogging-weather/internal/jogging"
)

// ErrSyntax is returned for any malformed filter.
var ErrSyntax = errors.New("filter syntax error")

// Field is a filterable record attribute.
type Field string

const (
	FieldDate     Field = "date"
	FieldDistance Field = "distance"
	FieldTime     Field = "time"
	FieldLocation Field = "location"
)

// Op is a comparison operator.
type Op string

const (
	OpEq Op = "eq"
	OpNe Op = "ne"
	OpGt Op = "gt"
	OpLt Op = "lt"
)

// Expr is a parsed filter.
type Expr interface {
	// Match reports whether rec satisfies the filter.
	Match(rec jogging.Record) bool
}

type logical struct {
	and         bool
	left, right Expr
}

func (l logical) Match(rec jogging.Record) bool {
	if l.and {
		return l.left.Match(rec) && l.right.Match(rec)
	}
	return l.left.Match(rec) || l.right.Match(rec)
}

type comparison struct {
	field Field
	op    Op
	num   float64
	str   string
	date  time.Time
}

func (c comparison) Match(rec jogging.Record) bool {
	var cmp int
	switch c.field {
	case FieldDate:
		cmp = rec.Date.Compare(c.date)
	case FieldDistance:
		cmp = compareFloat(rec.Distance, c.num)
	case FieldTime:
		cmp = compareFloat(float64(rec.Duration), c.num)
	case FieldLocation:
		cmp = strings.Compare(rec.Location, c.str)
	}

	switch c.op {
	case OpEq:
		return cmp == 0
	case OpNe:
		return cmp != 0
	case OpGt:
		return cmp > 0
	case OpLt:
		return cmp < 0
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// Parse compiles src into an Expr.
func Parse(src string) (Expr, error) {
	toks, err := tokenize(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if t := p.peek(); t.kind != tokEOF {
		return nil, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, t, t.pos)
	}
	return expr, nil
}

type parser struct {
	toks []token
	pos  int
}

func (p *parser) peek() token {
	return p.toks[p.pos]
}

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

func (p *parser) keyword(word string) bool {
	t := p.peek()
	if t.kind == tokWord && strings.EqualFold(t.text, word) {
		p.pos++
		return true
	}
	return false
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.keyword("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = logical{and: false, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.keyword("and") {
		right, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		left = logical{and: true, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseFactor() (Expr, error) {
	t := p.next()
	switch t.kind {
	case tokLParen:
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if closing := p.next(); closing.kind != tokRParen {
			return nil, fmt.Errorf("%w: expected ')' at %d, got %s", ErrSyntax, closing.pos, closing)
		}
		return expr, nil
	case tokWord:
		return p.parseComparison(t)
	default:
		return nil, fmt.Errorf("%w: unexpected %s at %d", ErrSyntax, t, t.pos)
	}
}

func (p *parser) parseComparison(fieldTok token) (Expr, error) {
	field := Field(strings.ToLower(fieldTok.text))
	switch field {
	case FieldDate, FieldDistance, FieldTime, FieldLocation:
	default:
		return nil, fmt.Errorf("%w: unknown field %s at %d", ErrSyntax, fieldTok, fieldTok.pos)
	}

	opTok := p.next()
	op := Op(strings.ToLower(opTok.text))
	if opTok.kind != tokWord {
		op = ""
	}
	switch op {
	case OpEq, OpNe, OpGt, OpLt:
	default:
		return nil, fmt.Errorf("%w: expected operator at %d, got %s", ErrSyntax, opTok.pos, opTok)
	}

	valTok := p.next()
	c := comparison{field: field, op: op}
	switch field {
	case FieldDate:
		if valTok.kind != tokString {
			return nil, fmt.Errorf("%w: date needs a quoted 'YYYY-MM-DD' value at %d", ErrSyntax, valTok.pos)
		}
		d, err := time.Parse(jogging.DateLayout, valTok.text)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid date %s at %d", ErrSyntax, valTok, valTok.pos)
		}
		c.date = d
	case FieldDistance, FieldTime:
		if valTok.kind != tokNumber {
			return nil, fmt.Errorf("%w: %s needs a numeric value at %d", ErrSyntax, field, valTok.pos)
		}
		n, err := strconv.ParseFloat(valTok.text, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid number %s at %d", ErrSyntax, valTok, valTok.pos)
		}
		c.num = n
	case FieldLocation:
		if valTok.kind != tokString {
			return nil, fmt.Errorf("%w: location needs a quoted value at %d", ErrSyntax, valTok.pos)
		}
		c.str = valTok.text
	}
	return c, nil
}
