package core

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"sarpras/internal/availability"
	"sarpras/internal/dashboard/validator"
	"sarpras/pkg/client"
	"sarpras/pkg/logger"
	"sarpras/pkg/model"
)

const (
	// MaxConcurrentCalls bounds the backend calls one step fans out.
	MaxConcurrentCalls = 8

	defaultFetchRows = 1000
)

// Deps are the collaborators a flow run needs. Backend and Actor belong to
// the session that started the run.
type Deps struct {
	Backend   *client.Backend
	Checker   *availability.Checker
	Validator *validator.Validator
	Log       *logger.Logger
	Actor     model.User
	FetchRows int
	PageRows  int
}

// FlowContext is shared by the steps of one run. Ctx is the originating
// request's context.
type FlowContext struct {
	Deps

	Ctx     context.Context
	Input   map[string]any
	Process map[string]any
	Output  map[string]any

	mu sync.Mutex
}

func NewFlowContext(ctx context.Context, input map[string]any, deps Deps) *FlowContext {
	if input == nil {
		input = map[string]any{}
	}
	if deps.Log == nil {
		deps.Log = logger.Discard()
	}
	if deps.FetchRows <= 0 {
		deps.FetchRows = defaultFetchRows
	}
	return &FlowContext{
		Deps:    deps,
		Ctx:     ctx,
		Input:   input,
		Process: make(map[string]any),
		Output:  make(map[string]any),
	}
}

// Put stores a process value. Safe to call from Parallel tasks.
func (c *FlowContext) Put(key string, v any) {
	c.mu.Lock()
	c.Process[key] = v
	c.mu.Unlock()
}

// Parallel runs tasks with at most MaxConcurrentCalls in flight. The first
// failure cancels the context handed to the others.
func (c *FlowContext) Parallel(tasks ...func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(c.Ctx)
	g.SetLimit(MaxConcurrentCalls)
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

// Get reads a process value stored by an earlier step.
func Get[T any](c *FlowContext, key string) (T, error) {
	c.mu.Lock()
	raw, ok := c.Process[key]
	c.mu.Unlock()

	var zero T
	if !ok {
		return zero, MissingParamErr(key)
	}
	v, ok := raw.(T)
	if !ok {
		return zero, fmt.Errorf("process value [%v] has type %T", key, raw)
	}
	return v, nil
}

func MissingParamErr(paramName string) error {
	return fmt.Errorf("required param [%v] is missing", paramName)
}
