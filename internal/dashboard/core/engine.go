package core

import (
	"errors"
	"fmt"
)

var ErrUnknownFlow = errors.New("unsupported flow")

// Recorder receives one outcome per flow run.
type Recorder interface {
	FlowRun(flow string, err error)
}

type Engine struct {
	flows    map[string]*Flow
	order    []string
	recorder Recorder
}

func NewEngine(flows ...*Flow) *Engine {
	e := &Engine{flows: map[string]*Flow{}}
	for _, f := range flows {
		if _, dup := e.flows[f.Name()]; !dup {
			e.order = append(e.order, f.Name())
		}
		e.flows[f.Name()] = f
	}
	return e
}

func (e *Engine) WithRecorder(r Recorder) *Engine {
	e.recorder = r
	return e
}

// Run executes the named flow step by step and stops at the first failure.
// Step errors keep their chain so callers can still match typed errors.
func (e *Engine) Run(flowName string, ctx *FlowContext) (err error) {
	f, exists := e.flows[flowName]
	if !exists {
		return fmt.Errorf("%w: %v", ErrUnknownFlow, flowName)
	}
	if e.recorder != nil {
		defer func() { e.recorder.FlowRun(flowName, err) }()
	}

	for _, step := range f.Steps() {
		if cerr := ctx.Ctx.Err(); cerr != nil {
			return fmt.Errorf("%s step not started: %w", step.Name, cerr)
		}
		if err := step.Execute(ctx); err != nil {
			return fmt.Errorf("%s step failed: %w", step.Name, err)
		}
	}
	return nil
}

type FlowInfo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Steps       []string `json:"steps"`
}

// Flows lists the registered flows in registration order.
func (e *Engine) Flows() []FlowInfo {
	out := make([]FlowInfo, 0, len(e.order))
	for _, name := range e.order {
		f := e.flows[name]
		info := FlowInfo{Name: f.Name(), Description: f.Description()}
		for _, s := range f.Steps() {
			info.Steps = append(info.Steps, s.Name)
		}
		out = append(out, info)
	}
	return out
}

func (e *Engine) Has(flowName string) bool {
	_, ok := e.flows[flowName]
	return ok
}
