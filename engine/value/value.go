package value

import (
	"encoding/json"
	"slices"
	"strconv"

	"github.com/shopspring/decimal"
)

// -----------------------------------------------------------------------------
// Kind
// -----------------------------------------------------------------------------

type Kind uint8

const (
	KindAbsent Kind = iota
	KindNull
	KindObject
	KindArray
	KindString
	KindNumber
	KindBool
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindNull:
		return "null"
	case KindObject:
		return "object"
	case KindArray:
		return "array"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	default:
		return "unknown(" + strconv.Itoa(int(k)) + ")"
	}
}

// -----------------------------------------------------------------------------
// Value
// -----------------------------------------------------------------------------

// Value is the canonical representation of a JSON-shaped payload.
//
// The zero Value is absent. Values are immutable once constructed: nothing in
// this package mutates a Value after it is returned, so subtrees can be shared
// freely between the results of different merges.
type Value struct {
	kind Kind
	text string
	flag bool
	obj  *Object
	arr  []Value
}

// Null returns the explicit JSON null.
func Null() Value {
	return Value{kind: KindNull}
}

func String(s string) Value {
	return Value{kind: KindString, text: s}
}

func Bool(b bool) Value {
	return Value{kind: KindBool, flag: b}
}

// Number keeps the decimal text as produced by the encoder so that no
// precision is lost between producers.
func Number(n json.Number) Value {
	return Value{kind: KindNumber, text: n.String()}
}

func Int(i int64) Value {
	return Value{kind: KindNumber, text: strconv.FormatInt(i, 10)}
}

func Float(f float64) Value {
	return Value{kind: KindNumber, text: strconv.FormatFloat(f, 'g', -1, 64)}
}

// Array builds an array value. The items slice is copied.
func Array(items ...Value) Value {
	return Value{kind: KindArray, arr: slices.Clone(items)}
}

// Concat returns an array holding the items of a followed by the items of b.
// Non-array arguments contribute nothing.
func Concat(a, b Value) Value {
	out := make([]Value, 0, len(a.arr)+len(b.arr))
	out = append(out, a.arr...)
	out = append(out, b.arr...)
	return Value{kind: KindArray, arr: out}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// IsNil reports whether v is absent or null. The merge rules treat both the
// same way.
func (v Value) IsNil() bool {
	return v.kind == KindAbsent || v.kind == KindNull
}

// IsZero lets encoding/json omit absent values tagged with omitzero.
func (v Value) IsZero() bool {
	return v.kind == KindAbsent
}

func (v Value) IsObject() bool {
	return v.kind == KindObject
}

func (v Value) IsArray() bool {
	return v.kind == KindArray
}

func (v Value) AsObject() (*Object, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.obj, true
}

func (v Value) AsString() (string, bool) {
	if v.kind != KindString {
		return "", false
	}
	return v.text, true
}

func (v Value) AsBool() (bool, bool) {
	if v.kind != KindBool {
		return false, false
	}
	return v.flag, true
}

func (v Value) AsNumber() (json.Number, bool) {
	if v.kind != KindNumber {
		return "", false
	}
	return json.Number(v.text), true
}

func (v Value) AsDecimal() (decimal.Decimal, bool) {
	if v.kind != KindNumber {
		return decimal.Decimal{}, false
	}
	d, err := decimal.NewFromString(v.text)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return d, true
}

func (v Value) AsInt64() (int64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
		return i, true
	}
	d, ok := v.AsDecimal()
	if !ok || !d.IsInteger() {
		return 0, false
	}
	return d.IntPart(), true
}

func (v Value) AsFloat64() (float64, bool) {
	if v.kind != KindNumber {
		return 0, false
	}
	f, err := strconv.ParseFloat(v.text, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Len returns the number of fields of an object or items of an array.
func (v Value) Len() int {
	switch v.kind {
	case KindObject:
		return v.obj.Len()
	case KindArray:
		return len(v.arr)
	default:
		return 0
	}
}

// Items returns a copy of the array items, or nil for non-arrays.
func (v Value) Items() []Value {
	if v.kind != KindArray {
		return nil
	}
	return slices.Clone(v.arr)
}

// Index returns the i-th array item, or an absent value when out of range.
func (v Value) Index(i int) Value {
	if v.kind != KindArray || i < 0 || i >= len(v.arr) {
		return Value{}
	}
	return v.arr[i]
}

// Get returns the field named key of an object, or an absent value.
func (v Value) Get(key string) Value {
	if v.kind != KindObject {
		return Value{}
	}
	field, _ := v.obj.Get(key)
	return field
}

// Path walks nested object fields.
func (v Value) Path(keys ...string) Value {
	cur := v
	for _, k := range keys {
		cur = cur.Get(k)
		if cur.IsAbsent() {
			return cur
		}
	}
	return cur
}

// Interface converts v into plain Go values: map[string]any, []any, string,
// bool, int64 or float64, and nil for absent and null. Script runtimes and
// expression engines consume this form.
func (v Value) Interface() any {
	switch v.kind {
	case KindObject:
		out := make(map[string]any, v.obj.Len())
		for k, field := range v.obj.All() {
			out[k] = field.Interface()
		}
		return out
	case KindArray:
		out := make([]any, len(v.arr))
		for i, item := range v.arr {
			out[i] = item.Interface()
		}
		return out
	case KindString:
		return v.text
	case KindBool:
		return v.flag
	case KindNumber:
		if i, err := strconv.ParseInt(v.text, 10, 64); err == nil {
			return i
		}
		if f, err := strconv.ParseFloat(v.text, 64); err == nil {
			return f
		}
		return json.Number(v.text)
	default:
		return nil
	}
}

func (v Value) String() string {
	data, err := v.MarshalJSON()
	if err != nil {
		return "<invalid>"
	}
	return string(data)
}
