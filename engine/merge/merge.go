// Package merge combines canonical values with incoming-wins precedence.
//
// The rules are applied in this order:
//
//  1. an absent or null source keeps the target
//  2. an absent or null target takes the source
//  3. two objects merge key by key, recursively; target keys keep their order
//     and keys new to the target are appended in source order
//  4. two arrays concatenate, target items first, without deduplication
//  5. anything else (scalars, mismatched shapes) takes the source
//
// Merge never mutates its arguments and never fails on well-formed values.
package merge

import "github.com/compozy/scriptctx/engine/value"

// Merge returns the combination of target and source.
func Merge(target, source value.Value) value.Value {
	if source.IsNil() {
		return target
	}
	if target.IsNil() {
		return source
	}
	targetObj, targetIsObj := target.AsObject()
	sourceObj, sourceIsObj := source.AsObject()
	if targetIsObj && sourceIsObj {
		return mergeObjects(targetObj, sourceObj)
	}
	if target.IsArray() && source.IsArray() {
		return value.Concat(target, source)
	}
	return source
}

// All folds values left to right with Merge, so later values win.
func All(values ...value.Value) value.Value {
	var acc value.Value
	for _, v := range values {
		acc = Merge(acc, v)
	}
	return acc
}

func mergeObjects(target, source *value.Object) value.Value {
	b := target.ToBuilder()
	for key, incoming := range source.All() {
		if existing, ok := b.Get(key); ok {
			b.Set(key, Merge(existing, incoming))
			continue
		}
		b.Set(key, incoming)
	}
	return b.Build()
}
