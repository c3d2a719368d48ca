package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"

	"github.com/compozy/scriptctx/engine/merge"
	"github.com/compozy/scriptctx/engine/naming"
	"github.com/compozy/scriptctx/engine/value"
	"github.com/compozy/scriptctx/pkg/config"
)

const DefaultMaxDepth = 64

var (
	ErrDecode   = errors.New("failed to decode payload")
	ErrMaxDepth = errors.New("payload exceeds maximum nesting depth")
)

// Options configures key normalization and structural limits. Options are
// copied into a Decoder and never change afterwards.
type Options struct {
	Policy   naming.Policy
	MaxDepth int
}

func DefaultOptions() Options {
	return Options{
		Policy:   naming.CamelCase{},
		MaxDepth: DefaultMaxDepth,
	}
}

// OptionsFromConfig builds decoder options from the normalization section.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	opts := DefaultOptions()
	if cfg == nil {
		return opts, nil
	}
	policy, err := naming.ByName(cfg.Normalization.KeyPolicy)
	if err != nil {
		return Options{}, fmt.Errorf("invalid normalization config: %w", err)
	}
	opts.Policy = policy
	if cfg.Normalization.MaxDepth > 0 {
		opts.MaxDepth = cfg.Normalization.MaxDepth
	}
	return opts, nil
}

// Decoder turns raw payloads into canonical values with normalized keys.
type Decoder struct {
	opts Options
}

var defaultDecoder = NewDecoder(DefaultOptions())

// Default returns a decoder using camel-case keys and the default depth limit.
func Default() *Decoder {
	return defaultDecoder
}

func NewDecoder(opts Options) *Decoder {
	if opts.Policy == nil {
		opts.Policy = naming.CamelCase{}
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	return &Decoder{opts: opts}
}

// NewDecoderFromConfig is NewDecoder over OptionsFromConfig.
func NewDecoderFromConfig(cfg *config.Config) (*Decoder, error) {
	opts, err := OptionsFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return NewDecoder(opts), nil
}

func (d *Decoder) Options() Options {
	return d.opts
}

// NormalizeKey applies the key policy to a single name.
func (d *Decoder) NormalizeKey(name string) string {
	return d.opts.Policy.Normalize(name)
}

// Decode normalizes any structurally encodable payload. A nil payload, like
// empty raw JSON, decodes to an absent value. Raw JSON ([]byte, json.RawMessage) is parsed as is;
// existing canonical values are re-keyed; everything else goes through
// encoding/json first.
func (d *Decoder) Decode(payload any) (value.Value, error) {
	switch p := payload.(type) {
	case nil:
		return value.Value{}, nil
	case value.Value:
		return d.normalize(p, 0)
	case *value.Value:
		if p == nil {
			return value.Value{}, nil
		}
		return d.normalize(*p, 0)
	case json.RawMessage:
		if len(p) == 0 {
			return value.Value{}, nil
		}
		return d.DecodeJSON(p)
	case []byte:
		if len(p) == 0 {
			return value.Value{}, nil
		}
		return d.DecodeJSON(p)
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %T: %w", ErrDecode, payload, err)
	}
	return d.DecodeJSON(data)
}

// DecodeJSON parses a JSON document keeping field order and number text.
func (d *Decoder) DecodeJSON(data []byte) (value.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return value.Value{}, fmt.Errorf("%w: empty document", ErrDecode)
	}
	if !gjson.ValidBytes(data) {
		return value.Value{}, fmt.Errorf("%w: invalid JSON", ErrDecode)
	}
	return d.fromResult(gjson.ParseBytes(data), 0)
}

// DecodeYAML converts a YAML document to JSON and decodes it.
func (d *Decoder) DecodeYAML(data []byte) (value.Value, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return value.Value{}, fmt.Errorf("%w: empty document", ErrDecode)
	}
	doc, err := yaml.YAMLToJSON(data)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: invalid YAML: %w", ErrDecode, err)
	}
	return d.DecodeJSON(doc)
}

func (d *Decoder) enter(depth int) (int, error) {
	next := depth + 1
	if next > d.opts.MaxDepth {
		return 0, fmt.Errorf("%w: %w (%d)", ErrDecode, ErrMaxDepth, d.opts.MaxDepth)
	}
	return next, nil
}

func (d *Decoder) fromResult(r gjson.Result, depth int) (value.Value, error) {
	switch r.Type {
	case gjson.Null:
		return value.Null(), nil
	case gjson.False:
		return value.Bool(false), nil
	case gjson.True:
		return value.Bool(true), nil
	case gjson.Number:
		return value.Number(json.Number(r.Raw)), nil
	case gjson.String:
		return value.String(r.Str), nil
	}
	next, err := d.enter(depth)
	if err != nil {
		return value.Value{}, err
	}
	if r.IsArray() {
		var items []value.Value
		r.ForEach(func(_, item gjson.Result) bool {
			var v value.Value
			v, err = d.fromResult(item, next)
			if err != nil {
				return false
			}
			items = append(items, v)
			return true
		})
		if err != nil {
			return value.Value{}, err
		}
		return value.Array(items...), nil
	}
	b := value.NewObjectBuilder(0)
	r.ForEach(func(key, field gjson.Result) bool {
		var v value.Value
		v, err = d.fromResult(field, next)
		if err != nil {
			return false
		}
		d.setField(b, key.Str, v)
		return true
	})
	if err != nil {
		return value.Value{}, err
	}
	return b.Build(), nil
}

func (d *Decoder) normalize(v value.Value, depth int) (value.Value, error) {
	switch v.Kind() {
	case value.KindArray:
		next, err := d.enter(depth)
		if err != nil {
			return value.Value{}, err
		}
		items := v.Items()
		for i, item := range items {
			if items[i], err = d.normalize(item, next); err != nil {
				return value.Value{}, err
			}
		}
		return value.Array(items...), nil
	case value.KindObject:
		next, err := d.enter(depth)
		if err != nil {
			return value.Value{}, err
		}
		obj, _ := v.AsObject()
		b := value.NewObjectBuilder(obj.Len())
		for key, field := range obj.All() {
			field, err = d.normalize(field, next)
			if err != nil {
				return value.Value{}, err
			}
			d.setField(b, key, field)
		}
		return b.Build(), nil
	default:
		return v, nil
	}
}

// setField stores a field under its normalized key. Names that collide after
// normalization are merged in document order, so only one representation of
// a property survives.
func (d *Decoder) setField(b *value.ObjectBuilder, rawKey string, v value.Value) {
	key := d.opts.Policy.Normalize(rawKey)
	if existing, ok := b.Get(key); ok {
		b.Set(key, merge.Merge(existing, v))
		return
	}
	b.Set(key, v)
}
