package workflow

import (
	"maps"
)

type TaskType string

const (
	TaskTypeHTTP        TaskType = "http"
	TaskTypeDaprService TaskType = "dapr_service"
	TaskTypeScript      TaskType = "script"
	TaskTypeSubProcess  TaskType = "subprocess"
)

// TaskConfig binds a task to a state or transition in a definition.
type TaskConfig struct {
	Key    string         `json:"key"              yaml:"key"              validate:"required"`
	Order  int            `json:"order,omitempty"  yaml:"order,omitempty"`
	Type   TaskType       `json:"type"             yaml:"type"             validate:"required"`
	Config map[string]any `json:"config,omitempty" yaml:"config,omitempty"`
}

// Task is the runtime form of a task handed to an input handler. Handlers may
// change it in place before the host executes it.
type Task struct {
	Key     string            `json:"key"`
	Type    TaskType          `json:"type"`
	URL     string            `json:"url,omitempty"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    any               `json:"body,omitempty"`
	Config  map[string]any    `json:"config,omitempty"`
}

func NewTask(tc *TaskConfig) *Task {
	task := &Task{
		Key:     tc.Key,
		Type:    tc.Type,
		Headers: make(map[string]string),
		Config:  maps.Clone(tc.Config),
	}
	if url, ok := tc.Config["url"].(string); ok {
		task.URL = url
	}
	if method, ok := tc.Config["method"].(string); ok {
		task.Method = method
	}
	return task
}

func (t *Task) SetHeader(key, value string) {
	if t.Headers == nil {
		t.Headers = make(map[string]string)
	}
	t.Headers[key] = value
}
