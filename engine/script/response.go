package script

import (
	"slices"
	"time"

	"github.com/compozy/scriptctx/engine/codec"
	"github.com/compozy/scriptctx/engine/value"
)

// Response is the envelope returned by mapping handlers. Its Data is merged
// into instance data by output handlers and used as the initial payload by
// subflow and subprocess input handlers.
type Response struct {
	Key         string      `json:"key,omitempty"`
	Data        value.Value `json:"data"`
	Headers     value.Value `json:"headers"`
	RouteValues value.Value `json:"routeValues"`
	Tags        []string    `json:"tags"`
}

func NewResponse(data value.Value) *Response {
	return &Response{Data: data, Tags: []string{}}
}

func (r *Response) WithKey(key string) *Response {
	r.Key = key
	return r
}

func (r *Response) WithTags(tags ...string) *Response {
	r.Tags = append(r.Tags, tags...)
	return r
}

func (r *Response) HasTag(tag string) bool {
	return slices.Contains(r.Tags, tag)
}

// Interface returns the envelope as plain Go values for expression engines.
func (r *Response) Interface() map[string]any {
	tags := r.Tags
	if tags == nil {
		tags = []string{}
	}
	return map[string]any{
		"key":         r.Key,
		"data":        r.Data.Interface(),
		"headers":     r.Headers.Interface(),
		"routeValues": r.RouteValues.Interface(),
		"tags":        slices.Clone(tags),
	}
}

// StandardResponse is the uniform outcome of a task execution.
type StandardResponse struct {
	Data                any               `json:"data"`
	StatusCode          *int              `json:"statusCode,omitempty"`
	IsSuccess           bool              `json:"isSuccess"`
	ErrorMessage        *string           `json:"errorMessage,omitempty"`
	Headers             map[string]string `json:"headers,omitempty"`
	Metadata            map[string]any    `json:"metadata,omitempty"`
	ExecutionDurationMs *int64            `json:"executionDurationMs,omitempty"`
	TaskType            *string           `json:"taskType,omitempty"`
}

// NewStandardResponse returns a successful outcome carrying data.
func NewStandardResponse(data any) *StandardResponse {
	return &StandardResponse{Data: data, IsSuccess: true}
}

func (r *StandardResponse) WithStatusCode(code int) *StandardResponse {
	r.StatusCode = &code
	return r
}

// WithError marks the outcome as failed.
func (r *StandardResponse) WithError(msg string) *StandardResponse {
	r.IsSuccess = false
	r.ErrorMessage = &msg
	return r
}

func (r *StandardResponse) WithHeaders(headers map[string]string) *StandardResponse {
	r.Headers = headers
	return r
}

func (r *StandardResponse) WithMetadata(metadata map[string]any) *StandardResponse {
	r.Metadata = metadata
	return r
}

func (r *StandardResponse) WithDuration(d time.Duration) *StandardResponse {
	ms := d.Milliseconds()
	r.ExecutionDurationMs = &ms
	return r
}

func (r *StandardResponse) WithTaskType(taskType string) *StandardResponse {
	r.TaskType = &taskType
	return r
}

// Project converts the outcome into an object with one field per set
// property, in declaration order. Unset optional properties are omitted.
func (r *StandardResponse) Project(dec *codec.Decoder) (value.Value, error) {
	b := value.NewObjectBuilder(8)
	set := func(name string, v value.Value) {
		if !v.IsAbsent() {
			b.Set(dec.NormalizeKey(name), v)
		}
	}
	data, err := dec.Decode(r.Data)
	if err != nil {
		return value.Value{}, err
	}
	set("data", data)
	if r.StatusCode != nil {
		set("statusCode", value.Int(int64(*r.StatusCode)))
	}
	set("isSuccess", value.Bool(r.IsSuccess))
	if r.ErrorMessage != nil {
		set("errorMessage", value.String(*r.ErrorMessage))
	}
	if r.Headers != nil {
		headers, err := dec.Decode(r.Headers)
		if err != nil {
			return value.Value{}, err
		}
		set("headers", headers)
	}
	if r.Metadata != nil {
		metadata, err := dec.Decode(r.Metadata)
		if err != nil {
			return value.Value{}, err
		}
		set("metadata", metadata)
	}
	if r.ExecutionDurationMs != nil {
		set("executionDurationMs", value.Int(*r.ExecutionDurationMs))
	}
	if r.TaskType != nil {
		set("taskType", value.String(*r.TaskType))
	}
	return b.Build(), nil
}
