package workflow

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const loanWorkflow = `
id: loan-application
version: "1.0.0"
states:
  - key: draft
    type: initial
    transitions:
      - key: submit
        target: review
        trigger: manual
  - key: review
    type: intermediate
    on_entries:
      - key: score-customer
        type: http
        config:
          url: https://scoring.internal/score
          method: POST
    transitions:
      - key: approve
        target: approved
        trigger: automatic
        condition: body.score > 700
      - key: expire
        target: approved
        trigger: scheduled
        timer:
          type: duration
          delay: 2d
  - key: approved
    type: finish
`

func TestDecode(t *testing.T) {
	t.Run("Should decode and validate a workflow definition", func(t *testing.T) {
		wf, err := Decode(strings.NewReader(loanWorkflow))
		require.NoError(t, err)
		assert.Equal(t, "loan-application", wf.GetID())
		require.Len(t, wf.States, 3)
		assert.Equal(t, "draft", wf.InitialState().Key)
		tr, err := wf.FindTransition("approve")
		require.NoError(t, err)
		assert.True(t, tr.IsAutomatic())
		assert.Equal(t, "body.score > 700", tr.Condition)
		expire, err := wf.FindTransition("expire")
		require.NoError(t, err)
		assert.True(t, expire.IsScheduled())
		assert.Equal(t, "2d", expire.Timer["delay"])
	})

	t.Run("Should reject transitions to unknown states", func(t *testing.T) {
		doc := strings.Replace(loanWorkflow, "target: review", "target: nowhere", 1)
		_, err := Decode(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown state")
	})

	t.Run("Should require exactly one initial state", func(t *testing.T) {
		doc := strings.Replace(loanWorkflow, "type: finish", "type: initial", 1)
		_, err := Decode(strings.NewReader(doc))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "initial state")
	})

	t.Run("Should fail struct validation when id is missing", func(t *testing.T) {
		doc := strings.Replace(loanWorkflow, "id: loan-application", "", 1)
		_, err := Decode(strings.NewReader(doc))
		require.Error(t, err)
	})
}

func TestConfig_Merge(t *testing.T) {
	t.Run("Should override non-empty fields", func(t *testing.T) {
		base := &Config{ID: "wf", Version: "1"}
		err := base.Merge(&Config{Version: "2", Description: "updated"})
		require.NoError(t, err)
		assert.Equal(t, "wf", base.ID)
		assert.Equal(t, "2", base.Version)
		assert.Equal(t, "updated", base.Description)
	})

	t.Run("Should reject other types", func(t *testing.T) {
		err := (&Config{}).Merge("not a config")
		require.Error(t, err)
	})
}

func TestConfig_FindState(t *testing.T) {
	t.Run("Should return an error for unknown states", func(t *testing.T) {
		wf, err := Decode(strings.NewReader(loanWorkflow))
		require.NoError(t, err)
		_, err = wf.FindState("missing")
		require.Error(t, err)
		state, err := wf.FindState("review")
		require.NoError(t, err)
		require.Len(t, state.OnEntries, 1)
		task := NewTask(&state.OnEntries[0])
		assert.Equal(t, "https://scoring.internal/score", task.URL)
		assert.Equal(t, "POST", task.Method)
	})
}
