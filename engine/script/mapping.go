package script

import (
	"context"

	"github.com/compozy/scriptctx/engine/timer"
	"github.com/compozy/scriptctx/engine/workflow"
)

// Mapping binds data around a task execution. InputHandler runs before the
// task and may modify it in place; its response is kept for audit.
// OutputHandler runs after the task; its response data is merged into the
// instance data.
type Mapping interface {
	InputHandler(ctx context.Context, task *workflow.Task, sc *Context) (*Response, error)
	OutputHandler(ctx context.Context, sc *Context) (*Response, error)
}

// SubFlowMapping prepares the input of a subflow and folds its result back
// into the parent instance.
type SubFlowMapping interface {
	InputHandler(ctx context.Context, sc *Context) (*Response, error)
	OutputHandler(ctx context.Context, sc *Context) (*Response, error)
}

// SubProcessMapping prepares the input of a subprocess. Subprocesses run
// independently, so there is no output handler.
type SubProcessMapping interface {
	InputHandler(ctx context.Context, sc *Context) (*Response, error)
}

// ConditionMapping decides whether an automatic transition may fire.
type ConditionMapping interface {
	Handler(ctx context.Context, sc *Context) (bool, error)
}

// TimerMapping computes the schedule of a timer transition.
type TimerMapping interface {
	Handler(ctx context.Context, sc *Context) (timer.Schedule, error)
}

// TransitionMapping shapes the payload of a transition.
type TransitionMapping interface {
	Handler(ctx context.Context, sc *Context) (any, error)
}

type ConditionFunc func(ctx context.Context, sc *Context) (bool, error)

func (f ConditionFunc) Handler(ctx context.Context, sc *Context) (bool, error) {
	return f(ctx, sc)
}

type TimerFunc func(ctx context.Context, sc *Context) (timer.Schedule, error)

func (f TimerFunc) Handler(ctx context.Context, sc *Context) (timer.Schedule, error) {
	return f(ctx, sc)
}

type TransitionFunc func(ctx context.Context, sc *Context) (any, error)

func (f TransitionFunc) Handler(ctx context.Context, sc *Context) (any, error) {
	return f(ctx, sc)
}

// DefaultTransition is the pass-through transition handler.
type DefaultTransition struct{}

func (DefaultTransition) Handler(context.Context, *Context) (any, error) {
	return map[string]any{}, nil
}

// TimerFromBody reads the schedule descriptor stored at path in the body.
func TimerFromBody(path ...string) TimerMapping {
	return TimerFunc(func(_ context.Context, sc *Context) (timer.Schedule, error) {
		return timer.FromValue(sc.Body().Path(path...))
	})
}
