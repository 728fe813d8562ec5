// Package field resolves record fields by name so that filter and sort
// operands, which arrive as strings, can reach typed values.
package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"

	nt "combosearch/entity"
)

// Kind is the value kind of a field.
type Kind int

const (
	KindOther Kind = iota
	KindText
	KindInt
	KindFloat
	KindBool
	KindTime
)

func (kind Kind) String() string {
	switch kind {
	case KindText:
		return "text"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindTime:
		return "time"
	}
	return "other"
}

// TimeLayouts are tried in order when converting a literal to a Time field.
var TimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	time.DateTime,
	"2006-01-02 15:04:05.999999999",
	time.DateOnly,
}

// Descriptor declares a field of record type T.
// Parse and Compare are consulted only for KindOther fields.
type Descriptor[T any] struct {
	Name    string
	Kind    Kind
	Get     func(T) any
	Parse   func(string) (any, error)
	Compare func(a, b any) int
}

// Text declares a string field.
func Text[T any](name string, get func(T) string) Descriptor[T] {
	return Descriptor[T]{
		Name: name,
		Kind: KindText,
		Get:  func(rec T) any { return get(rec) },
	}
}

// Int declares an integer field, values are carried as int64.
func Int[T any, N constraints.Integer](name string, get func(T) N) Descriptor[T] {
	return Descriptor[T]{
		Name: name,
		Kind: KindInt,
		Get:  func(rec T) any { return int64(get(rec)) },
	}
}

// Float declares a floating point field, values are carried as float64.
func Float[T any, N constraints.Float](name string, get func(T) N) Descriptor[T] {
	return Descriptor[T]{
		Name: name,
		Kind: KindFloat,
		Get:  func(rec T) any { return float64(get(rec)) },
	}
}

// Bool declares a boolean field.
func Bool[T any](name string, get func(T) bool) Descriptor[T] {
	return Descriptor[T]{
		Name: name,
		Kind: KindBool,
		Get:  func(rec T) any { return get(rec) },
	}
}

// Time declares a time field.
func Time[T any](name string, get func(T) time.Time) Descriptor[T] {
	return Descriptor[T]{
		Name: name,
		Kind: KindTime,
		Get:  func(rec T) any { return get(rec) },
	}
}

// Custom declares a field of some other type.
// Without compare it cannot be sorted or filtered by comparison,
// without parse its literals cannot be converted.
func Custom[T any](name string, get func(T) any, parse func(string) (any, error), compare func(a, b any) int) Descriptor[T] {
	return Descriptor[T]{
		Name:    name,
		Kind:    KindOther,
		Get:     get,
		Parse:   parse,
		Compare: compare,
	}
}

// Registry maps field names to accessors for T.
type Registry[T any] struct {
	names  []string
	byName map[string]Accessor[T]
}

// NewRegistry builds a registry from descriptors, in declaration order.
func NewRegistry[T any](descs ...Descriptor[T]) (reg *Registry[T], err error) {

	reg = &Registry[T]{
		byName: map[string]Accessor[T]{},
	}

	for i, desc := range descs {
		name := strings.TrimSpace(desc.Name)
		switch {
		case name == "":
			err = errors.Errorf("field %d has no name", i)
			return nil, err
		case desc.Get == nil:
			err = errors.Errorf("field %q has no getter", name)
			return nil, err
		}

		_, exists := reg.byName[name]
		if exists {
			err = errors.Errorf("field %q declared twice", name)
			return nil, err
		}

		desc.Name = name
		reg.byName[name] = Accessor[T]{desc: desc}
		reg.names = append(reg.names, name)
	}

	return
}

// Resolve returns the accessor for name.
func (reg *Registry[T]) Resolve(name string) (acc Accessor[T], err error) {

	acc, ok := reg.byName[name]
	if !ok {
		err = errors.Wrapf(nt.ErrUnknownField, "no field %q", name)
	}
	return
}

// Names returns field names in declaration order.
func (reg *Registry[T]) Names() []string {
	return append([]string{}, reg.names...)
}

// Accessor is a resolved field.
type Accessor[T any] struct {
	desc Descriptor[T]
}

// Name of the field.
func (acc Accessor[T]) Name() string {
	return acc.desc.Name
}

// Kind of the field.
func (acc Accessor[T]) Kind() Kind {
	return acc.desc.Kind
}

// Value gets the field's value from rec.
func (acc Accessor[T]) Value(rec T) any {
	return acc.desc.Get(rec)
}

// Comparable reports whether values of this field have an ordering.
func (acc Accessor[T]) Comparable() bool {
	return acc.desc.Kind != KindOther || acc.desc.Compare != nil
}

// Compare orders a and b, nil sorting first.
// Values are normalised to the field's kind, ex: any integer to int64.
func (acc Accessor[T]) Compare(a, b any) (cmp int, err error) {

	if !acc.Comparable() {
		err = errors.Wrapf(nt.ErrNotComparable, "field %q", acc.desc.Name)
		return
	}

	switch {
	case a == nil && b == nil:
		return 0, nil
	case a == nil:
		return -1, nil
	case b == nil:
		return 1, nil
	}

	if acc.desc.Kind == KindOther {
		return acc.desc.Compare(a, b), nil
	}

	na, ok := normalize(acc.desc.Kind, a)
	if !ok {
		err = errors.Wrapf(nt.ErrTypeMismatch, "field %q is %s, got %T", acc.desc.Name, acc.desc.Kind, a)
		return
	}
	nb, ok := normalize(acc.desc.Kind, b)
	if !ok {
		err = errors.Wrapf(nt.ErrTypeMismatch, "field %q is %s, got %T", acc.desc.Name, acc.desc.Kind, b)
		return
	}

	cmp = compareNormal(na, nb)
	return
}

// Equal reports whether a and b are the same value for this field.
// Mismatched types are simply not equal.
func (acc Accessor[T]) Equal(a, b any) bool {

	if a == nil || b == nil {
		return a == nil && b == nil
	}

	if acc.desc.Kind == KindOther && acc.desc.Compare == nil {
		return fmt.Sprintf("%T:%v", a, a) == fmt.Sprintf("%T:%v", b, b)
	}

	cmp, err := acc.Compare(a, b)
	return err == nil && cmp == 0
}

// Convert parses a literal into the field's type.
func (acc Accessor[T]) Convert(raw string) (val any, err error) {

	switch acc.desc.Kind {
	case KindText:
		val = raw
	case KindInt:
		val, err = strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	case KindFloat:
		val, err = strconv.ParseFloat(strings.TrimSpace(raw), 64)
	case KindBool:
		val, err = strconv.ParseBool(strings.TrimSpace(raw))
	case KindTime:
		val, err = parseTime(strings.TrimSpace(raw))
	default:
		if acc.desc.Parse == nil {
			err = errors.Errorf("no parser")
			break
		}
		val, err = acc.desc.Parse(raw)
	}

	if err != nil {
		err = errors.Wrapf(nt.ErrValueConversion, "cannot convert %q to %s for field %q: %s",
			raw, acc.desc.Kind, acc.desc.Name, err)
		val = nil
	}
	return
}

// unexported

func parseTime(raw string) (ts time.Time, err error) {

	for _, layout := range TimeLayouts {
		ts, err = time.Parse(layout, raw)
		if err == nil {
			return
		}
	}
	err = errors.Errorf("unrecognized time %q", raw)
	return
}

func normalize(kind Kind, val any) (any, bool) {

	switch kind {
	case KindText:
		str, ok := val.(string)
		return str, ok
	case KindInt:
		return toInt64(val)
	case KindFloat:
		return toFloat64(val)
	case KindBool:
		bl, ok := val.(bool)
		return bl, ok
	case KindTime:
		ts, ok := val.(time.Time)
		return ts, ok
	}
	return nil, false
}

func toInt64(val any) (any, bool) {

	switch num := val.(type) {
	case int:
		return int64(num), true
	case int8:
		return int64(num), true
	case int16:
		return int64(num), true
	case int32:
		return int64(num), true
	case int64:
		return num, true
	case uint:
		return clampUint(uint64(num)), true
	case uint8:
		return int64(num), true
	case uint16:
		return int64(num), true
	case uint32:
		return int64(num), true
	case uint64:
		return clampUint(num), true
	}
	return nil, false
}

// clampUint keeps huge unsigned values at the top of the int64 order
// rather than letting them wrap negative.
func clampUint(num uint64) int64 {

	if num > math.MaxInt64 {
		return math.MaxInt64
	}
	return int64(num)
}

func toFloat64(val any) (any, bool) {

	switch num := val.(type) {
	case float32:
		return float64(num), true
	case float64:
		return num, true
	}

	i, ok := toInt64(val)
	if ok {
		return float64(i.(int64)), true
	}
	return nil, false
}

func compareNormal(a, b any) int {

	switch av := a.(type) {
	case string:
		return strings.Compare(av, b.(string))
	case int64:
		return cmpOrdered(av, b.(int64))
	case float64:
		return cmpOrdered(av, b.(float64))
	case bool:
		bv := b.(bool)
		switch {
		case av == bv:
			return 0
		case !av:
			return -1
		}
		return 1
	case time.Time:
		return av.Compare(b.(time.Time))
	}
	return 0
}

func cmpOrdered[N constraints.Ordered](a, b N) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}
