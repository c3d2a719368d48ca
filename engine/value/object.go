package value

import (
	"iter"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Object is an insertion-ordered mapping of normalized keys to values.
// An *Object reachable from a Value is never modified.
type Object struct {
	fields *orderedmap.OrderedMap[string, Value]
}

// Pair is a single object field used by ObjectOf.
type Pair struct {
	Key   string
	Value Value
}

func Field(key string, v Value) Pair {
	return Pair{Key: key, Value: v}
}

// ObjectOf builds an object from pairs in order. A repeated key keeps its first
// position and takes the last value.
func ObjectOf(pairs ...Pair) Value {
	b := NewObjectBuilder(len(pairs))
	for _, p := range pairs {
		b.Set(p.Key, p.Value)
	}
	return b.Build()
}

// EmptyObject returns an object with no fields.
func EmptyObject() Value {
	return NewObjectBuilder(0).Build()
}

func (o *Object) Len() int {
	if o == nil {
		return 0
	}
	return o.fields.Len()
}

func (o *Object) Get(key string) (Value, bool) {
	if o == nil {
		return Value{}, false
	}
	return o.fields.Get(key)
}

func (o *Object) Has(key string) bool {
	_, ok := o.Get(key)
	return ok
}

// Keys returns the field names in order.
func (o *Object) Keys() []string {
	if o == nil {
		return nil
	}
	keys := make([]string, 0, o.fields.Len())
	for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// All iterates the fields in order.
func (o *Object) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if o == nil {
			return
		}
		for pair := o.fields.Oldest(); pair != nil; pair = pair.Next() {
			if !yield(pair.Key, pair.Value) {
				return
			}
		}
	}
}

// ToBuilder returns a builder seeded with a copy of the fields. Field values
// are shared, which is safe because they are immutable.
func (o *Object) ToBuilder() *ObjectBuilder {
	b := NewObjectBuilder(o.Len())
	for k, v := range o.All() {
		b.Set(k, v)
	}
	return b
}

// -----------------------------------------------------------------------------
// ObjectBuilder
// -----------------------------------------------------------------------------

// ObjectBuilder assembles an Object. It must not be used after Build.
type ObjectBuilder struct {
	fields *orderedmap.OrderedMap[string, Value]
}

func NewObjectBuilder(capacity int) *ObjectBuilder {
	return &ObjectBuilder{
		fields: orderedmap.New[string, Value](orderedmap.WithCapacity[string, Value](capacity)),
	}
}

// Set stores v under key. An existing key keeps its position.
func (b *ObjectBuilder) Set(key string, v Value) *ObjectBuilder {
	b.fields.Set(key, v)
	return b
}

func (b *ObjectBuilder) Get(key string) (Value, bool) {
	return b.fields.Get(key)
}

func (b *ObjectBuilder) Len() int {
	return b.fields.Len()
}

func (b *ObjectBuilder) Build() Value {
	obj := &Object{fields: b.fields}
	b.fields = nil
	return Value{kind: KindObject, obj: obj}
}
