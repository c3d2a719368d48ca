// Package script holds the per-invocation context handed to workflow
// mapping handlers and the handler contracts themselves.
//
// A Context is built once per handler invocation with a Builder. Its body is
// the only field that changes afterwards, and only through SetBody,
// SetStandardResponse and MergeResponse, each of which merges a payload into
// the body with incoming-wins precedence.
package script

import (
	"fmt"
	"maps"

	"dario.cat/mergo"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"github.com/compozy/scriptctx/engine/codec"
	"github.com/compozy/scriptctx/engine/core"
	"github.com/compozy/scriptctx/engine/merge"
	"github.com/compozy/scriptctx/engine/value"
	"github.com/compozy/scriptctx/engine/workflow"
	"github.com/compozy/scriptctx/pkg/logger"
)

// Context is owned by a single handler invocation and is not safe for
// concurrent mutation.
type Context struct {
	execID  core.ID
	decoder *codec.Decoder
	log     logger.Logger
	metrics *bodyMetrics

	body          value.Value
	headers       value.Value
	routeValues   value.Value
	taskResponses map[string]*Response
	metadata      map[string]any

	workflow    *workflow.Config
	instance    *workflow.Instance
	transition  *workflow.Transition
	runtime     workflow.RuntimeInfoProvider
	definitions map[string]any
}

// SetBody decodes payload and merges it into the body. A nil payload is a
// no-op. When decoding fails the body is left untouched.
func (c *Context) SetBody(payload any) error {
	if payload == nil {
		return nil
	}
	v, err := c.decoder.Decode(payload)
	if err != nil {
		c.metrics.recordDecodeFailure("body")
		c.log.Warn("Failed to decode body payload", "payload_type", fmt.Sprintf("%T", payload), "error", err)
		return fmt.Errorf("failed to set body: %w", err)
	}
	c.mergeBody(v)
	return nil
}

// SetStandardResponse projects resp into an object and merges it into the
// body like any other payload.
func (c *Context) SetStandardResponse(resp *StandardResponse) error {
	if resp == nil {
		return nil
	}
	v, err := resp.Project(c.decoder)
	if err != nil {
		c.metrics.recordDecodeFailure("standard_response")
		c.log.Warn("Failed to project standard response", "error", err)
		return fmt.Errorf("failed to set standard response: %w", err)
	}
	c.mergeBody(v)
	return nil
}

// MergeResponse merges the data of a handler response into the body.
func (c *Context) MergeResponse(resp *Response) error {
	if resp == nil {
		return nil
	}
	return c.SetBody(resp.Data)
}

func (c *Context) mergeBody(v value.Value) {
	if v.IsNil() {
		return
	}
	c.body = merge.Merge(c.body, v)
	c.metrics.recordMerge(v.Kind().String())
	c.log.Debug("Merged payload into body", "kind", v.Kind().String(), "fields", c.body.Len())
}

// SetTaskResponse registers the response of a completed step. The step id is
// normalized like an object key.
func (c *Context) SetTaskResponse(stepID string, resp *Response) {
	if c.taskResponses == nil {
		c.taskResponses = make(map[string]*Response)
	}
	c.taskResponses[c.decoder.NormalizeKey(stepID)] = resp
}

func (c *Context) TaskResponse(stepID string) (*Response, bool) {
	resp, ok := c.taskResponses[c.decoder.NormalizeKey(stepID)]
	return resp, ok
}

// TaskResponses returns a copy of the step response registry.
func (c *Context) TaskResponses() map[string]*Response {
	return maps.Clone(c.taskResponses)
}

// AddMetadata merges entries into the metadata, overriding existing keys.
func (c *Context) AddMetadata(entries map[string]any) error {
	if len(entries) == 0 {
		return nil
	}
	src := core.CopyMap(entries)
	if len(c.metadata) == 0 {
		c.metadata = src
		return nil
	}
	if err := mergo.Merge(&c.metadata, src, mergo.WithOverride); err != nil {
		return fmt.Errorf("failed to merge metadata: %w", err)
	}
	return nil
}

func (c *Context) ExecID() core.ID {
	return c.execID
}

func (c *Context) Body() value.Value {
	return c.body
}

// BodyMap returns the body as plain Go values, or nil when the body is not an
// object.
func (c *Context) BodyMap() map[string]any {
	m, _ := c.body.Interface().(map[string]any)
	return m
}

// Lookup queries the body with a gjson path such as "customer.address.city"
// or "items.#.sku".
func (c *Context) Lookup(path string) gjson.Result {
	if c.body.IsNil() {
		return gjson.Result{}
	}
	data, err := c.body.MarshalJSON()
	if err != nil {
		return gjson.Result{}
	}
	return gjson.GetBytes(data, path)
}

// PrettyBody returns the body as indented JSON for diagnostics.
func (c *Context) PrettyBody() string {
	data, err := c.body.MarshalJSON()
	if err != nil {
		return ""
	}
	return string(pretty.Pretty(data))
}

func (c *Context) Headers() value.Value {
	return c.headers
}

func (c *Context) RouteValues() value.Value {
	return c.routeValues
}

func (c *Context) Metadata() map[string]any {
	return maps.Clone(c.metadata)
}

func (c *Context) Workflow() *workflow.Config {
	return c.workflow
}

func (c *Context) workflowID() string {
	if c.workflow == nil {
		return ""
	}
	return c.workflow.ID
}

func (c *Context) Instance() *workflow.Instance {
	return c.instance
}

// Transition returns the transition being processed, or nil outside of one.
func (c *Context) Transition() *workflow.Transition {
	return c.transition
}

func (c *Context) Runtime() workflow.RuntimeInfoProvider {
	return c.runtime
}

func (c *Context) Definitions() map[string]any {
	return c.definitions
}

func (c *Context) Decoder() *codec.Decoder {
	return c.decoder
}

func (c *Context) Logger() logger.Logger {
	return c.log
}

// Respond decodes data with the context decoder and wraps it in a Response.
func (c *Context) Respond(data any) (*Response, error) {
	v, err := c.decoder.Decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to build response: %w", err)
	}
	return NewResponse(v), nil
}

// Variables exposes the context to expression engines. Absent objects are
// exposed as empty maps so field tests do not fail on a missing body.
func (c *Context) Variables() map[string]any {
	responses := make(map[string]any, len(c.taskResponses))
	for id, resp := range c.taskResponses {
		if resp == nil {
			responses[id] = nil
			continue
		}
		responses[id] = resp.Interface()
	}
	metadata := c.metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	return map[string]any{
		"body":          objectOrEmpty(c.body),
		"headers":       objectOrEmpty(c.headers),
		"routeValues":   objectOrEmpty(c.routeValues),
		"taskResponses": responses,
		"metadata":      metadata,
	}
}

func objectOrEmpty(v value.Value) any {
	if v.IsNil() {
		return map[string]any{}
	}
	return v.Interface()
}
