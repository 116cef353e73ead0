package core

type Step struct {
	Name    string
	Execute func(ctx *FlowContext) error
}

func NewStep(name string, execute func(ctx *FlowContext) error) *Step {
	return &Step{
		Name:    name,
		Execute: execute,
	}
}

type Flow struct {
	name        string
	description string
	steps       []*Step
}

func NewFlow(name, description string, steps ...*Step) *Flow {
	return &Flow{name: name, description: description, steps: steps}
}

func (f *Flow) Name() string        { return f.name }
func (f *Flow) Description() string { return f.description }
func (f *Flow) Steps() []*Step      { return f.steps }
