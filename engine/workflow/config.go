package workflow

import (
	"errors"
	"fmt"
	"io"
	"os"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

type StateType string

const (
	StateInitial      StateType = "initial"
	StateIntermediate StateType = "intermediate"
	StateFinish       StateType = "finish"
	StateSubFlow      StateType = "subflow"
)

// Config is a workflow definition: its states and the transitions between
// them. It is owned by the host and never mutated by a script context.
type Config struct {
	ID          string        `json:"id"                    yaml:"id"                    validate:"required"`
	Version     string        `json:"version,omitempty"     yaml:"version,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string      `json:"tags,omitempty"        yaml:"tags,omitempty"`
	States      []StateConfig `json:"states"                yaml:"states"                validate:"required,min=1,dive"`
}

type StateConfig struct {
	Key         string       `json:"key"                   yaml:"key"                   validate:"required"`
	Type        StateType    `json:"type"                  yaml:"type"                  validate:"oneof=initial intermediate finish subflow"`
	SubFlow     string       `json:"subflow,omitempty"     yaml:"subflow,omitempty"`
	OnEntries   []TaskConfig `json:"on_entries,omitempty"  yaml:"on_entries,omitempty"  validate:"dive"`
	OnExits     []TaskConfig `json:"on_exits,omitempty"    yaml:"on_exits,omitempty"    validate:"dive"`
	Transitions []Transition `json:"transitions,omitempty" yaml:"transitions,omitempty" validate:"dive"`
}

func Load(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workflow file: %w", err)
	}
	defer file.Close()
	return Decode(file)
}

// Decode reads a YAML workflow definition and validates it.
func Decode(r io.Reader) (*Config, error) {
	var config Config
	if err := yaml.NewDecoder(r).Decode(&config); err != nil {
		return nil, fmt.Errorf("failed to decode workflow definition: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (w *Config) Validate() error {
	if err := validator.New().Struct(w); err != nil {
		return fmt.Errorf("workflow %q validation error: %w", w.ID, err)
	}
	initial := 0
	seen := make(map[string]struct{}, len(w.States))
	for i := range w.States {
		state := &w.States[i]
		if _, ok := seen[state.Key]; ok {
			return fmt.Errorf("workflow %q: duplicate state %q", w.ID, state.Key)
		}
		seen[state.Key] = struct{}{}
		if state.Type == StateInitial {
			initial++
		}
		if state.Type == StateSubFlow && state.SubFlow == "" {
			return fmt.Errorf("workflow %q: subflow state %q has no subflow reference", w.ID, state.Key)
		}
	}
	if initial != 1 {
		return fmt.Errorf("workflow %q: expected exactly one initial state, found %d", w.ID, initial)
	}
	for i := range w.States {
		for _, tr := range w.States[i].Transitions {
			if _, ok := seen[tr.Target]; !ok {
				return fmt.Errorf("workflow %q: transition %q targets unknown state %q", w.ID, tr.Key, tr.Target)
			}
		}
	}
	return nil
}

func (w *Config) Merge(other any) error {
	otherConfig, ok := other.(*Config)
	if !ok {
		return fmt.Errorf("failed to merge workflow configs: %w", errors.New("invalid type for merge"))
	}
	return mergo.Merge(w, otherConfig, mergo.WithOverride)
}

func (w *Config) GetID() string {
	return w.ID
}

func (w *Config) InitialState() *StateConfig {
	for i := range w.States {
		if w.States[i].Type == StateInitial {
			return &w.States[i]
		}
	}
	return nil
}

func (w *Config) FindState(key string) (*StateConfig, error) {
	for i := range w.States {
		if w.States[i].Key == key {
			return &w.States[i], nil
		}
	}
	return nil, fmt.Errorf("state %q not found in workflow %q", key, w.ID)
}

// FindTransition looks a transition up by key across all states.
func (w *Config) FindTransition(key string) (*Transition, error) {
	for i := range w.States {
		if tr := w.States[i].FindTransition(key); tr != nil {
			return tr, nil
		}
	}
	return nil, fmt.Errorf("transition %q not found in workflow %q", key, w.ID)
}

func (s *StateConfig) FindTransition(key string) *Transition {
	for i := range s.Transitions {
		if s.Transitions[i].Key == key {
			return &s.Transitions[i]
		}
	}
	return nil
}
