package workflow

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"go.trai.ch/fileflow/internal/core/domain"
	"go.trai.ch/zerr"
)

// Func is a task function. It reads its inputs and writes its outputs through the handles in call.
type Func func(ctx context.Context, call Call) error

// Arg names an argument a task function asks the engine to bind into its Call.
type Arg int

const (
	// ArgInputs binds the input artifacts.
	ArgInputs Arg = iota + 1
	// ArgOutput binds the output artifact handles.
	ArgOutput
	// ArgParams binds the free-form parameters.
	ArgParams
	// ArgConfig binds the workflow configuration.
	ArgConfig
)

// String returns the argument name.
func (a Arg) String() string {
	switch a {
	case ArgInputs:
		return "inputs"
	case ArgOutput:
		return "output"
	case ArgParams:
		return "params"
	case ArgConfig:
		return "config"
	default:
		return fmt.Sprintf("arg(%d)", int(a))
	}
}

// Params are free-form task parameters.
type Params map[string]any

// Definition describes a task function: its name, declared input and output datatypes and the
// arguments it wants bound. Definitions are built with Define and are immutable once registered.
type Definition struct {
	name      string
	fn        Func
	inputs    []domain.Datatype
	output    domain.Tree[domain.Datatype]
	hasOutput bool
	args      []Arg
	params    Params
}

// Define starts a definition for fn under name. The name becomes the output directory of every
// task created from the definition, so it must be stable and unique per distinct computation.
func Define(name string, fn Func) *Definition {
	return &Definition{name: name, fn: fn}
}

// DeclareInputs declares the datatypes of the positional inputs. Without a declaration any
// number of inputs of any type is accepted.
func (d *Definition) DeclareInputs(datatypes ...domain.Datatype) *Definition {
	d.inputs = slices.Clone(datatypes)
	return d
}

// DeclareOutput declares the output shape: a single datatype or a nested tuple of datatypes.
func (d *Definition) DeclareOutput(shape domain.Tree[domain.Datatype]) *Definition {
	d.output = shape
	d.hasOutput = true
	return d
}

// Bind declares which arguments the function reads from its Call.
func (d *Definition) Bind(args ...Arg) *Definition {
	d.args = append(d.args, args...)
	return d
}

// Name returns the function name.
func (d *Definition) Name() string {
	return d.name
}

// Output returns the declared output shape.
func (d *Definition) Output() domain.Tree[domain.Datatype] {
	return d.output
}

// Binds reports whether the function asked for arg.
func (d *Definition) Binds(arg Arg) bool {
	return slices.Contains(d.args, arg)
}

// Partial returns a copy of def renamed to name with params bound. Invocation params are
// merged over the bound ones, so variants with different settings get distinct, stable names.
func Partial(def *Definition, name string, params Params) *Definition {
	clone := *def
	clone.name = name
	clone.inputs = slices.Clone(def.inputs)
	clone.args = slices.Clone(def.args)
	clone.params = maps.Clone(def.params)
	if clone.params == nil {
		clone.params = Params{}
	}
	maps.Copy(clone.params, params)
	return &clone
}

func (d *Definition) validate() error {
	if d == nil {
		return zerr.Wrap(domain.ErrTaskValidation, "definition is nil")
	}
	if err := validateName(d.name); err != nil {
		return err
	}
	fail := func(msg string) error {
		return zerr.With(zerr.Wrap(domain.ErrTaskValidation, msg), "task", d.name)
	}

	if d.fn == nil {
		return fail("task function is nil")
	}
	if !d.hasOutput {
		return fail("no output declared")
	}
	if len(d.output.Values()) == 0 {
		return fail("output shape has no datatypes")
	}
	if !d.Binds(ArgOutput) {
		return fail("function does not bind its output handles")
	}
	if len(d.inputs) > 0 && !d.Binds(ArgInputs) {
		return fail("inputs declared but not bound")
	}

	seen := make(map[Arg]bool, len(d.args))
	for _, arg := range d.args {
		if arg < ArgInputs || arg > ArgConfig {
			return zerr.With(fail("unknown argument"), "arg", arg.String())
		}
		if seen[arg] {
			return zerr.With(fail("argument bound twice"), "arg", arg.String())
		}
		seen[arg] = true
	}
	return nil
}

func validateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return zerr.Wrap(domain.ErrTaskValidation, "task name must not be empty")
	case name == "." || name == "..", strings.ContainsAny(name, `/\`):
		return zerr.With(zerr.Wrap(domain.ErrTaskValidation, "task name must be a single path segment"), "task", name)
	default:
		return nil
	}
}
