package value

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON writes v with object fields in their stored order. Absent values
// encode as null.
func (v Value) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	if err := writeJSON(&b, v); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

func writeJSON(b *bytes.Buffer, v Value) error {
	switch v.kind {
	case KindAbsent, KindNull:
		b.WriteString("null")
	case KindBool:
		if v.flag {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case KindNumber:
		if !json.Valid([]byte(v.text)) {
			return fmt.Errorf("invalid number literal %q", v.text)
		}
		b.WriteString(v.text)
	case KindString:
		return writeString(b, v.text)
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.arr {
			if i > 0 {
				b.WriteByte(',')
			}
			if err := writeJSON(b, item); err != nil {
				return err
			}
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		i := 0
		for k, field := range v.obj.All() {
			if i > 0 {
				b.WriteByte(',')
			}
			i++
			if err := writeString(b, k); err != nil {
				return err
			}
			b.WriteByte(':')
			if err := writeJSON(b, field); err != nil {
				return err
			}
		}
		b.WriteByte('}')
	default:
		return fmt.Errorf("unsupported value kind %s", v.kind)
	}
	return nil
}

func writeString(b *bytes.Buffer, s string) error {
	bs, err := json.Marshal(s)
	if err != nil {
		return err
	}
	b.Write(bs)
	return nil
}
