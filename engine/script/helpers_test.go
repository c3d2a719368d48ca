package script

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/compozy/scriptctx/engine/workflow"
	"github.com/compozy/scriptctx/pkg/logger"
)

func newTestBuilder(t *testing.T) Builder {
	t.Helper()
	wf := &workflow.Config{
		ID:     "loan-application",
		States: []workflow.StateConfig{{Key: "draft", Type: workflow.StateInitial}},
	}
	instance, err := workflow.NewInstance(wf, "loan-1")
	require.NoError(t, err)
	return NewBuilder().
		WithWorkflow(wf).
		WithInstance(instance).
		WithRuntime(workflow.NewStaticRuntime("test", "1.0.0", nil)).
		WithLogger(logger.NewForTests())
}

func newTestContext(t *testing.T) *Context {
	t.Helper()
	sc, err := newTestBuilder(t).Build()
	require.NoError(t, err)
	return sc
}
