package workflow

type TriggerType string

const (
	TriggerManual    TriggerType = "manual"
	TriggerAutomatic TriggerType = "automatic"
	TriggerScheduled TriggerType = "scheduled"
	TriggerEvent     TriggerType = "event"
)

// Transition moves an instance from its current state to Target. Condition is
// an optional expression evaluated against the script context for automatic
// transitions; Timer is the schedule source for scheduled ones.
type Transition struct {
	Key       string         `json:"key"                 yaml:"key"                 validate:"required"`
	Target    string         `json:"target"              yaml:"target"              validate:"required"`
	Trigger   TriggerType    `json:"trigger"             yaml:"trigger"             validate:"oneof=manual automatic scheduled event"`
	Condition string         `json:"condition,omitempty" yaml:"condition,omitempty"`
	Timer     map[string]any `json:"timer,omitempty"     yaml:"timer,omitempty"`
	OnExecute []TaskConfig   `json:"on_execute,omitempty" yaml:"on_execute,omitempty" validate:"dive"`
}

func (t *Transition) IsAutomatic() bool {
	return t.Trigger == TriggerAutomatic
}

func (t *Transition) IsScheduled() bool {
	return t.Trigger == TriggerScheduled
}
