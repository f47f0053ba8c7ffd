package main

import (
	"github.com/sirupsen/logrus"

	"github.com/quadratic-labs/cairovm-go/pkg/builtins"
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/hintrunner"
	"github.com/quadratic-labs/cairovm-go/pkg/hintrunner/hints"
	"github.com/quadratic-labs/cairovm-go/pkg/runners"
	"github.com/quadratic-labs/cairovm-go/pkg/vm"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// demoResult carries everything the run/inspect subcommands need to
// report on, gathered from one end-to-end pass over the memory
// subsystem: runner initialization, a range_check builtin, the set_add
// hint, and relocation.
type demoResult struct {
	VM              *vm.VirtualMachine
	IsElmInSet      felt.Felt
	Index           *felt.Felt
	RelocationTable []uint
	Holes           uint
	ValidationErr   error
}

// runDemo exercises every component of the memory subsystem in one
// pass: a CairoRunner initializes the program, execution and builtin
// segments, then a hint frame is laid out by hand and set_add searches
// a two-row set. It is the CLI's only scenario; there is no program
// loader or instruction decoder to drive a real .cairo binary.
func runDemo(segmentHint uint, log *logrus.Entry) (*demoResult, error) {
	program := runners.Program{
		Data:     []memory.MaybeRelocatable{*memory.NewMaybeRelocatableFelt(felt.One())},
		Builtins: []string{builtins.RangeCheckName},
	}
	runner, err := runners.NewCairoRunner(program)
	if err != nil {
		return nil, err
	}
	if _, err := runner.Initialize(); err != nil {
		return nil, err
	}
	machine := runner.Vm
	executionSegment := runner.ExecutionBase
	rangeCheck := machine.BuiltinRunners[0]

	setSegment := machine.Segments.Add()
	elmSegment := machine.Segments.Add()

	// Feed the range_check builtin one in-bound cell so the inspect
	// report's ValidateExistingMemory pass has something to validate.
	boundedValue := *memory.NewMaybeRelocatableFelt(felt.FromUint64(uint64(segmentHint)))
	if err := machine.Segments.Memory.Insert(rangeCheck.Base(), &boundedValue); err != nil {
		return nil, err
	}

	log.WithField("program_base", runner.ProgramBase.String()).Debug("initialized runner segments")

	// The hint frame sits above the entrypoint stack: fp-6 .. fp-1 hold
	// is_elm_in_set, index, set_ptr, elm_size, elm_ptr, set_end_ptr.
	fp := executionSegment.AddUint(9)
	felt_ := func(v int64) memory.MaybeRelocatable { return *memory.NewMaybeRelocatableFelt(felt.FromInt64(v)) }
	ptr := func(r memory.Relocatable) memory.MaybeRelocatable { return *memory.NewMaybeRelocatableRelocatable(r) }

	setPtr := setSegment
	setEndPtr := setSegment.AddUint(4)
	elmPtr := elmSegment

	writes := map[uint]memory.MaybeRelocatable{
		5: ptr(setPtr),
		6: felt_(2),
		7: ptr(elmPtr),
		8: ptr(setEndPtr),
	}
	for offset, v := range writes {
		v := v
		if err := machine.Segments.Memory.Insert(executionSegment.AddUint(offset), &v); err != nil {
			return nil, err
		}
	}

	rows := [][2]int64{{1, 3}, {5, 7}}
	for i, row := range rows {
		for j, v := range row {
			val := felt_(v)
			addr := setSegment.AddUint(uint(i*2 + j))
			if err := machine.Segments.Memory.Insert(addr, &val); err != nil {
				return nil, err
			}
		}
	}
	elmA, elmB := felt_(1), felt_(3)
	if err := machine.Segments.Memory.Insert(elmSegment, &elmA); err != nil {
		return nil, err
	}
	if err := machine.Segments.Memory.Insert(elmSegment.AddUint(1), &elmB); err != nil {
		return nil, err
	}

	idsData := map[string]hintrunner.HintReference{
		"is_elm_in_set": hintrunner.NewReference(hintrunner.RegisterFP, -6, hintrunner.ApTracking{}),
		"index":         hintrunner.NewReference(hintrunner.RegisterFP, -5, hintrunner.ApTracking{}),
		"set_ptr":       hintrunner.NewReference(hintrunner.RegisterFP, -4, hintrunner.ApTracking{}),
		"elm_size":      hintrunner.NewReference(hintrunner.RegisterFP, -3, hintrunner.ApTracking{}),
		"elm_ptr":       hintrunner.NewReference(hintrunner.RegisterFP, -2, hintrunner.ApTracking{}),
		"set_end_ptr":   hintrunner.NewReference(hintrunner.RegisterFP, -1, hintrunner.ApTracking{}),
	}
	bindings := hintrunner.NewBindings(idsData, hintrunner.ApTracking{}, fp, machine.RunContext.Ap)

	log.Info("running set_add hint")
	if err := hints.SetAdd(machine.Segments.Memory, bindings); err != nil {
		return nil, err
	}

	isElmInSetCell, err := machine.Segments.Memory.Get(executionSegment.AddUint(3))
	if err != nil {
		return nil, err
	}
	isElmInSet, _ := isElmInSetCell.GetFelt()

	var index *felt.Felt
	if indexCell, err := machine.Segments.Memory.Get(executionSegment.AddUint(4)); err == nil && indexCell != nil {
		f, _ := indexCell.GetFelt()
		index = &f
	}

	touched := []memory.Relocatable{
		runner.ProgramBase,
		rangeCheck.Base(),
	}
	for _, offset := range []uint{0, 1, 2, 3, 5, 6, 7, 8} {
		touched = append(touched, executionSegment.AddUint(offset))
	}
	if index != nil {
		touched = append(touched, executionSegment.AddUint(4))
	}
	for offset := uint(0); offset < 4; offset++ {
		touched = append(touched, setSegment.AddUint(offset))
	}
	touched = append(touched, elmSegment, elmSegment.AddUint(1))

	if err := machine.Relocate(); err != nil {
		return nil, err
	}
	holes, err := machine.Segments.GetMemoryHoles(touched)
	if err != nil {
		return nil, err
	}
	table, err := machine.Segments.RelocateSegments()
	if err != nil {
		return nil, err
	}

	// Re-run every builtin's validation rule across the cells already
	// written, the way the inspect report double-checks a finished run
	// before trusting its relocation table.
	log.Debug("validating existing memory")
	validationErr := machine.Segments.Memory.ValidateExistingMemory()

	return &demoResult{
		VM:              machine,
		IsElmInSet:      isElmInSet,
		Index:           index,
		RelocationTable: table,
		Holes:           holes,
		ValidationErr:   validationErr,
	}, nil
}
