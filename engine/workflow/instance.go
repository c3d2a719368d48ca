package workflow

import (
	"fmt"
	"time"

	"github.com/compozy/scriptctx/engine/core"
	"github.com/compozy/scriptctx/engine/merge"
	"github.com/compozy/scriptctx/engine/value"
)

// Instance is a running workflow. Data holds the accumulated instance data
// that output handlers contribute to.
type Instance struct {
	ID         core.ID         `json:"id"`
	Key        string          `json:"key,omitempty"`
	WorkflowID string          `json:"workflow_id"`
	State      string          `json:"state"`
	Status     core.StatusType `json:"status"`
	Data       value.Value     `json:"data"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewInstance(wf *Config, key string) (*Instance, error) {
	id, err := core.NewID()
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	instance := &Instance{
		ID:         id,
		Key:        key,
		WorkflowID: wf.ID,
		Status:     core.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if initial := wf.InitialState(); initial != nil {
		instance.State = initial.Key
	}
	return instance, nil
}

// MergeData merges data into the instance data with the same rules as a
// script context body.
func (i *Instance) MergeData(data value.Value) {
	if data.IsNil() {
		return
	}
	i.Data = merge.Merge(i.Data, data)
	i.UpdatedAt = time.Now().UTC()
}

func (i *Instance) UpdateStatus(status core.StatusType) {
	i.Status = status
	i.UpdatedAt = time.Now().UTC()
}

// MoveTo enters state and marks the instance running. Instances in a terminal
// status cannot move.
func (i *Instance) MoveTo(state string) error {
	if i.Status.IsTerminal() {
		return fmt.Errorf("instance %s is %s and cannot move to state %q", i.ID, i.Status, state)
	}
	i.State = state
	i.Status = core.StatusRunning
	i.UpdatedAt = time.Now().UTC()
	return nil
}
