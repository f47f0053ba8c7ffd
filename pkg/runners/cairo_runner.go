// Package runners hosts the memory-side initialization a run needs
// before its first step: allocating the program, execution and builtin
// segments, loading the program data, and laying out the entrypoint
// stack. The instruction decoder that would then step through the
// program is out of scope; hints are driven directly by the host.
package runners

import (
	"github.com/pkg/errors"

	"github.com/quadratic-labs/cairovm-go/pkg/builtins"
	"github.com/quadratic-labs/cairovm-go/pkg/vm"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// Program is the preloaded form of a program: its memory image and the
// builtins it declares. There is no parser here; callers build the data
// vector themselves.
type Program struct {
	Data     []memory.MaybeRelocatable
	Builtins []string
}

// CairoRunner wires a program to a fresh VM and performs segment and
// entrypoint initialization.
type CairoRunner struct {
	Program       Program
	Vm            *vm.VirtualMachine
	ProgramBase   memory.Relocatable
	ExecutionBase memory.Relocatable
}

// NewCairoRunner checks the program's declared builtins and builds the
// runner around a fresh VM.
func NewCairoRunner(program Program) (*CairoRunner, error) {
	machine := vm.NewVirtualMachine()
	for _, name := range program.Builtins {
		switch name {
		case builtins.RangeCheckName:
			machine.BuiltinRunners = append(machine.BuiltinRunners, builtins.NewRangeCheckBuiltinRunner(8))
		default:
			return nil, errors.Errorf("runner: unknown builtin %q", name)
		}
	}
	return &CairoRunner{Program: program, Vm: machine}, nil
}

// Initialize creates the run's segments and entrypoint state, returning
// the address execution must reach to halt.
func (r *CairoRunner) Initialize() (memory.Relocatable, error) {
	r.initializeSegments()
	return r.initializeMainEntrypoint()
}

// initializeSegments allocates the program and execution segments, then
// one segment per builtin, registering each builtin's validation rule.
func (r *CairoRunner) initializeSegments() {
	r.ProgramBase = r.Vm.Segments.Add()
	r.ExecutionBase = r.Vm.Segments.Add()
	for _, runner := range r.Vm.BuiltinRunners {
		runner.InitializeSegments(&r.Vm.Segments)
		runner.AddValidationRule(r.Vm.Segments.Memory)
	}
}

// initializeMainEntrypoint builds the entrypoint stack: each builtin's
// initial stack, then a fresh segment for the final FP.
func (r *CairoRunner) initializeMainEntrypoint() (memory.Relocatable, error) {
	stack := make([]memory.MaybeRelocatable, 0, len(r.Vm.BuiltinRunners)+2)
	for _, runner := range r.Vm.BuiltinRunners {
		stack = append(stack, runner.InitialStack()...)
	}
	returnFp := r.Vm.Segments.Add()
	return r.initializeFunctionEntrypoint(0, stack, returnFp)
}

// initializeFunctionEntrypoint appends the return FP and end pointers to
// the stack, positions AP/FP one past it, and loads the initial state.
func (r *CairoRunner) initializeFunctionEntrypoint(entrypoint uint, stack []memory.MaybeRelocatable, returnFp memory.Relocatable) (memory.Relocatable, error) {
	end := r.Vm.Segments.Add()
	stack = append(stack,
		*memory.NewMaybeRelocatableRelocatable(returnFp),
		*memory.NewMaybeRelocatableRelocatable(end),
	)
	r.Vm.RunContext.Fp = r.ExecutionBase.AddUint(uint(len(stack)))
	r.Vm.RunContext.Ap = r.Vm.RunContext.Fp
	if err := r.initializeState(entrypoint, stack); err != nil {
		return memory.Relocatable{}, err
	}
	return end, nil
}

// initializeState loads the program data at the program base and the
// entrypoint stack at the execution base, then points PC at the
// entrypoint.
func (r *CairoRunner) initializeState(entrypoint uint, stack []memory.MaybeRelocatable) error {
	if _, err := r.Vm.Segments.LoadData(r.ProgramBase, r.Program.Data); err != nil {
		return errors.Wrap(err, "runner: loading program data")
	}
	if _, err := r.Vm.Segments.LoadData(r.ExecutionBase, stack); err != nil {
		return errors.Wrap(err, "runner: loading entrypoint stack")
	}
	r.Vm.RunContext.Pc = r.ProgramBase.AddUint(entrypoint)
	return nil
}
