// Package filter parses filter strings into expressions.
//
// Two forms are understood:
//
//	Name LIKE 'text%'
//	Age>25 AND [Name] = 'Al'
//
// The LIKE form keeps records whose text field contains text anywhere.
// The comparison form is one or more clauses joined by " AND ".
package filter

import (
	"regexp"
	"strings"

	"github.com/pkg/errors"

	nt "combosearch/entity"
)

const (
	likeSep = " LIKE "
	andSep  = " AND "
)

// Operator is a comparison operator, valued as its character.
type Operator rune

const (
	EqualTo     Operator = '='
	LessThan    Operator = '<'
	GreaterThan Operator = '>'
	None        Operator = ' '
)

func (op Operator) String() string {
	if op == None {
		return "none"
	}
	return string(op)
}

// Like is a substring predicate on a text field.
type Like struct {
	Field string
	Text  string
}

// Clause is a single field comparison, Value is the unconverted literal.
type Clause struct {
	Field    string
	Operator Operator
	Value    string
}

// Expression is a parsed filter, either Like or Clauses is set.
type Expression struct {
	Like    *Like
	Clauses []Clause
}

var (
	// optional brackets around the name, one operator, then a value that
	// does not lead with another operator
	clauseRx = regexp.MustCompile(`^(\[?[\pL\pN_\s]+\]?)\s?([<>=])\s?('?[^<>=].*)$`)

	equalRx   = regexp.MustCompile(`[^<>]=`)
	lessRx    = regexp.MustCompile(`<[^>=]`)
	greaterRx = regexp.MustCompile(`[^<]>[^=]`)
)

// Parse parses a filter string.
// Failures wrap nt.ErrMalformedFilter.
func Parse(in string) (expr Expression, err error) {

	if strings.TrimSpace(in) == "" {
		err = errors.Wrapf(nt.ErrMalformedFilter, "empty filter")
		return
	}

	if strings.Contains(in, "LIKE") {
		expr.Like, err = parseLike(in)
		return
	}

	for _, part := range splitNonEmpty(in, andSep) {
		var clause Clause
		clause, err = parseClause(part)
		if err != nil {
			return Expression{}, err
		}
		expr.Clauses = append(expr.Clauses, clause)
	}

	if len(expr.Clauses) == 0 {
		err = errors.Wrapf(nt.ErrMalformedFilter, "no clauses in %q", in)
	}
	return
}

// DetermineOperator finds the operator in a clause.
// An operator adjacent to another operator character does not count.
func DetermineOperator(clause string) Operator {

	switch {
	case equalRx.MatchString(clause):
		return EqualTo
	case lessRx.MatchString(clause):
		return LessThan
	case greaterRx.MatchString(clause):
		return GreaterThan
	}
	return None
}

// StripQuotes removes one pair of enclosing single quotes and trims.
func StripQuotes(in string) string {

	trimmed := strings.TrimSpace(in)
	if len(trimmed) >= 2 && strings.HasPrefix(trimmed, "'") && strings.HasSuffix(trimmed, "'") {
		return strings.TrimSpace(trimmed[1 : len(trimmed)-1])
	}
	return in
}

// Continues reports whether next narrows prev, meaning it can be applied to
// the already filtered view rather than starting over from the original.
// The check is textual: next must contain prev.
func Continues(prev, next string) bool {
	return prev != "" && strings.Contains(next, prev)
}

// unexported

func parseLike(in string) (like *Like, err error) {

	parts := splitNonEmpty(in, likeSep)
	if len(parts) != 2 {
		err = errors.Wrapf(nt.ErrMalformedFilter, "expected <field> LIKE '<text>%%', got %q", in)
		return
	}

	literal := parts[1]
	if len(literal) < 3 || !strings.HasPrefix(literal, "'") || !strings.HasSuffix(literal, "%'") {
		err = errors.Wrapf(nt.ErrMalformedFilter, "like value must be quoted as '<text>%%', got %s", literal)
		return
	}

	like = &Like{
		Field: strings.TrimSpace(parts[0]),
		Text:  literal[1 : len(literal)-2],
	}
	return
}

func parseClause(part string) (clause Clause, err error) {

	match := clauseRx.FindStringSubmatch(part)
	if match == nil {
		err = errors.Wrapf(nt.ErrMalformedFilter, "expected <field><op><value> with op one of =<>, got %q", part)
		return
	}

	// operator scan sees the head only so a value like 'a=b' can't confuse it
	head := part[:len(part)-len(match[3])+1]
	op := DetermineOperator(head)
	if op == None || op != Operator(match[2][0]) {
		err = errors.Wrapf(nt.ErrMalformedFilter, "no operator in %q", part)
		return
	}

	name := strings.NewReplacer("[", "", "]", "").Replace(match[1])
	name = strings.TrimSpace(name)
	if name == "" {
		err = errors.Wrapf(nt.ErrMalformedFilter, "no field name in %q", part)
		return
	}

	clause = Clause{
		Field:    name,
		Operator: op,
		Value:    StripQuotes(match[3]),
	}
	return
}

func splitNonEmpty(in, sep string) (parts []string) {

	for _, part := range strings.Split(in, sep) {
		if part != "" {
			parts = append(parts, part)
		}
	}
	return
}
