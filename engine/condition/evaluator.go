// Package condition evaluates transition conditions written as CEL
// expressions against a script context.
//
// Expressions see the context through five variables: body, headers,
// routeValues, taskResponses and metadata. For example:
//
//	body.score >= 700 && headers["x-channel"] == "mobile"
//	has(taskResponses.scoreCustomer) && taskResponses.scoreCustomer.data.approved
package condition

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/cel-go/cel"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/compozy/scriptctx/engine/script"
	"github.com/compozy/scriptctx/pkg/config"
)

const DefaultCacheSize = 256

var (
	ErrCompile    = errors.New("failed to compile condition")
	ErrEvaluate   = errors.New("failed to evaluate condition")
	ErrNotBoolean = errors.New("condition did not evaluate to a boolean")
)

// Evaluator compiles and runs condition expressions. Compiled programs are
// cached by expression text; an Evaluator is safe for concurrent use.
type Evaluator struct {
	env     *cel.Env
	cache   *lru.Cache[string, cel.Program]
	metrics *evaluatorMetrics
}

func NewEvaluator(cacheSize int) (*Evaluator, error) {
	if cacheSize <= 0 {
		return nil, fmt.Errorf("condition cache size must be greater than zero: got %d", cacheSize)
	}
	env, err := cel.NewEnv(
		cel.Variable("body", cel.DynType),
		cel.Variable("headers", cel.DynType),
		cel.Variable("routeValues", cel.DynType),
		cel.Variable("taskResponses", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("metadata", cel.MapType(cel.StringType, cel.DynType)),
		cel.CrossTypeNumericComparisons(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition environment: %w", err)
	}
	cache, err := lru.New[string, cel.Program](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create condition cache: %w", err)
	}
	return &Evaluator{env: env, cache: cache, metrics: defaultMetrics()}, nil
}

func NewEvaluatorFromConfig(cfg *config.Config) (*Evaluator, error) {
	if cfg == nil {
		return NewEvaluator(DefaultCacheSize)
	}
	return NewEvaluator(cfg.Condition.CacheSize)
}

// Compile checks expr and caches its program.
func (e *Evaluator) Compile(expr string) error {
	_, err := e.program(context.Background(), expr)
	return err
}

// Evaluate runs expr against sc.
func (e *Evaluator) Evaluate(ctx context.Context, expr string, sc *script.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	prg, err := e.program(ctx, expr)
	if err != nil {
		return false, err
	}
	start := time.Now()
	out, _, err := prg.ContextEval(ctx, sc.Variables())
	elapsed := time.Since(start)
	if err != nil {
		e.metrics.recordEvaluation(ctx, elapsed, "error")
		sc.Logger().Debug("Condition evaluation failed", "expression", expr, "error", err)
		return false, fmt.Errorf("%w %q: %w", ErrEvaluate, expr, err)
	}
	result, ok := out.Value().(bool)
	if !ok {
		e.metrics.recordEvaluation(ctx, elapsed, "error")
		return false, fmt.Errorf("%w: %q returned %s", ErrNotBoolean, expr, out.Type().TypeName())
	}
	e.metrics.recordEvaluation(ctx, elapsed, strconv.FormatBool(result))
	return result, nil
}

// Condition binds expr to a ConditionMapping. An empty expression always
// holds.
func (e *Evaluator) Condition(expr string) script.ConditionMapping {
	expr = strings.TrimSpace(expr)
	return script.ConditionFunc(func(ctx context.Context, sc *script.Context) (bool, error) {
		if expr == "" {
			return true, nil
		}
		return e.Evaluate(ctx, expr, sc)
	})
}

func (e *Evaluator) program(ctx context.Context, expr string) (cel.Program, error) {
	if prg, ok := e.cache.Get(expr); ok {
		e.metrics.recordCompile(ctx, 0, true)
		return prg, nil
	}
	start := time.Now()
	defer func() { e.metrics.recordCompile(ctx, time.Since(start), false) }()
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrCompile, expr, issues.Err())
	}
	prg, err := e.env.Program(ast, cel.InterruptCheckFrequency(100))
	if err != nil {
		return nil, fmt.Errorf("%w %q: %w", ErrCompile, expr, err)
	}
	e.cache.Add(expr, prg)
	return prg, nil
}

// Len reports how many compiled programs are cached.
func (e *Evaluator) Len() int {
	return e.cache.Len()
}
