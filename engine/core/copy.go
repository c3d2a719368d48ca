package core

import (
	"fmt"

	"github.com/mohae/deepcopy"
)

// DeepCopy returns a deep copy of v. A nil map or slice stays nil.
func DeepCopy[T any](v T) (T, error) {
	var zero T
	copied, ok := deepcopy.Copy(v).(T)
	if !ok {
		return zero, fmt.Errorf("failed to cast copied value to type %T", zero)
	}
	return copied, nil
}

// CopyMap deep-copies m, falling back to a shallow copy for values the
// deep copier cannot reproduce.
func CopyMap(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	copied, err := DeepCopy(m)
	if err != nil {
		copied = make(map[string]any, len(m))
		for k, v := range m {
			copied[k] = v
		}
	}
	return copied
}
