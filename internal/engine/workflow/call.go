package workflow

import "go.trai.ch/fileflow/internal/core/domain"

// Call carries the arguments bound for one task invocation.
// Only the fields the definition binds are populated.
type Call struct {
	// Task is the function name.
	Task string
	// Inputs are the input artifacts in invocation order.
	Inputs []domain.Artifact
	// Outputs mirrors the declared output shape.
	Outputs domain.Tree[domain.Artifact]
	// Params are the invocation parameters merged over any bound by Partial.
	Params Params
	// Config is the workflow configuration.
	Config domain.Config
}

// Input returns the i-th input artifact, or nil if there is none.
func (c Call) Input(i int) domain.Artifact {
	if i < 0 || i >= len(c.Inputs) {
		return nil
	}
	return c.Inputs[i]
}

// Output returns the output artifact at index. With no index it returns the single output.
func (c Call) Output(index ...int) domain.Artifact {
	a, _ := c.Outputs.Get(index...)
	return a
}

// Param returns the named parameter.
func (c Call) Param(key string) (any, bool) {
	v, ok := c.Params[key]
	return v, ok
}
