package vm

import (
	"github.com/quadratic-labs/cairovm-go/pkg/builtins"
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// RunContext holds the three registers a running program and its hints
// read through: the next instruction pointer, and the allocation/frame
// pointers used to resolve symbolic variable names. The step-by-step
// instruction decoder that would otherwise advance these registers is
// out of scope.
type RunContext struct {
	Pc memory.Relocatable
	Ap memory.Relocatable
	Fp memory.Relocatable
}

// VirtualMachine ties the memory subsystem to the registers and builtins
// a hint needs to resolve variable names and mutate cells. It carries no
// instruction decoder or trace recorder.
type VirtualMachine struct {
	RunContext      RunContext
	Segments        memory.MemorySegmentManager
	BuiltinRunners  []builtins.BuiltinRunner
	RelocatedMemory map[uint]felt.Felt
}

func NewVirtualMachine() *VirtualMachine {
	return &VirtualMachine{
		Segments:       memory.NewMemorySegmentManager(),
		BuiltinRunners: make([]builtins.BuiltinRunner, 0, 9),
	}
}

// Relocate computes effective sizes, builds the relocation table, and
// flattens the segmented memory into RelocatedMemory.
func (v *VirtualMachine) Relocate() error {
	v.Segments.ComputeEffectiveSizes()

	relocationTable, err := v.Segments.RelocateSegments()
	if err != nil {
		return err
	}

	relocatedMemory, err := v.Segments.RelocateMemory(relocationTable)
	if err != nil {
		return err
	}

	v.RelocatedMemory = relocatedMemory
	return nil
}
