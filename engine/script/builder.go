package script

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/compozy/scriptctx/engine/codec"
	"github.com/compozy/scriptctx/engine/core"
	"github.com/compozy/scriptctx/engine/merge"
	"github.com/compozy/scriptctx/engine/value"
	"github.com/compozy/scriptctx/engine/workflow"
	"github.com/compozy/scriptctx/pkg/logger"
)

// Builder assembles a Context. Every With method returns a new Builder, so a
// partially configured builder can be shared and extended independently.
type Builder struct {
	decoder *codec.Decoder
	log     logger.Logger

	payloads      []any
	headers       any
	routeValues   any
	taskResponses map[string]*Response
	metadata      map[string]any

	workflow    *workflow.Config
	instance    *workflow.Instance
	transition  *workflow.Transition
	runtime     workflow.RuntimeInfoProvider
	definitions map[string]any
}

func NewBuilder() Builder {
	return Builder{}
}

// WithBody queues payload to be merged into the body. Payloads are merged in
// call order when the context is built.
func (b Builder) WithBody(payload any) Builder {
	b.payloads = append(slices.Clip(b.payloads), payload)
	return b
}

func (b Builder) WithHeaders(headers any) Builder {
	b.headers = headers
	return b
}

func (b Builder) WithRouteValues(routeValues any) Builder {
	b.routeValues = routeValues
	return b
}

func (b Builder) WithWorkflow(wf *workflow.Config) Builder {
	b.workflow = wf
	return b
}

func (b Builder) WithInstance(instance *workflow.Instance) Builder {
	b.instance = instance
	return b
}

// WithTransition sets the current transition. A nil transition keeps the
// previously set one.
func (b Builder) WithTransition(tr *workflow.Transition) Builder {
	if tr != nil {
		b.transition = tr
	}
	return b
}

func (b Builder) WithRuntime(rt workflow.RuntimeInfoProvider) Builder {
	b.runtime = rt
	return b
}

func (b Builder) WithDefinitions(definitions map[string]any) Builder {
	b.definitions = definitions
	return b
}

func (b Builder) WithTaskResponses(responses map[string]*Response) Builder {
	b.taskResponses = maps.Clone(responses)
	return b
}

// WithMetadata sets the metadata. The map is deep-copied so later changes by
// the caller are not observed.
func (b Builder) WithMetadata(metadata map[string]any) Builder {
	b.metadata = core.CopyMap(metadata)
	return b
}

// WithDecoder sets the decoder used for every payload. The default decoder
// uses camel case keys.
func (b Builder) WithDecoder(dec *codec.Decoder) Builder {
	b.decoder = dec
	return b
}

func (b Builder) WithLogger(l logger.Logger) Builder {
	b.log = l
	return b
}

// Build returns the finished context. The workflow, instance and runtime
// are required.
func (b Builder) Build() (*Context, error) {
	var errs []error
	if b.workflow == nil {
		errs = append(errs, ErrMissingWorkflow)
	}
	if b.instance == nil {
		errs = append(errs, ErrMissingInstance)
	}
	if b.runtime == nil {
		errs = append(errs, ErrMissingRuntime)
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return b.BuildPartial()
}

// BuildPartial is Build without the required field checks. Missing host
// references are left nil.
func (b Builder) BuildPartial() (*Context, error) {
	dec := b.decoder
	if dec == nil {
		dec = codec.Default()
	}
	log := b.log
	if log == nil {
		log = logger.FromContext(context.Background())
	}
	execID, err := core.NewID()
	if err != nil {
		return nil, err
	}
	c := &Context{
		execID:      execID,
		decoder:     dec,
		log:         log.With("exec_id", execID.String()),
		metrics:     defaultMetrics(),
		workflow:    b.workflow,
		instance:    b.instance,
		transition:  b.transition,
		runtime:     b.runtime,
		definitions: b.definitions,
	}
	if c.headers, err = decodeHeaders(dec, b.headers); err != nil {
		return nil, fmt.Errorf("failed to decode headers: %w", err)
	}
	if c.routeValues, err = dec.Decode(b.routeValues); err != nil {
		return nil, fmt.Errorf("failed to decode route values: %w", err)
	}
	// Ids that collide after normalization resolve in sorted order, so the
	// last id in byte order wins.
	for _, id := range slices.Sorted(maps.Keys(b.taskResponses)) {
		c.SetTaskResponse(id, b.taskResponses[id])
	}
	if b.metadata != nil {
		if err := c.AddMetadata(b.metadata); err != nil {
			return nil, err
		}
	}
	for _, payload := range b.payloads {
		if err := c.SetBody(payload); err != nil {
			return nil, err
		}
	}
	c.log.Debug("Built script context",
		"workflow_id", c.workflowID(),
		"headers", RedactHeaders(c.headers).String(),
		"task_responses", len(c.taskResponses),
	)
	return c, nil
}

// decodeHeaders decodes headers and lower-cases the header names.
func decodeHeaders(dec *codec.Decoder, headers any) (value.Value, error) {
	v, err := dec.Decode(headers)
	if err != nil {
		return value.Value{}, err
	}
	obj, ok := v.AsObject()
	if !ok {
		return v, nil
	}
	lowered := value.NewObjectBuilder(obj.Len())
	for name, field := range obj.All() {
		key := strings.ToLower(name)
		if prev, ok := lowered.Get(key); ok {
			field = merge.Merge(prev, field)
		}
		lowered.Set(key, field)
	}
	return lowered.Build(), nil
}
