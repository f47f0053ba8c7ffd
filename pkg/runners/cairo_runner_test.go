package runners_test

import (
	"testing"

	"github.com/quadratic-labs/cairovm-go/pkg/builtins"
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/runners"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

func TestNewCairoRunnerInvalidBuiltin(t *testing.T) {
	program := runners.Program{Builtins: []string{"fake_builtin"}}
	_, err := runners.NewCairoRunner(program)
	if err == nil {
		t.Errorf("Expected creating a CairoRunner with fake builtin to fail")
	}
}

func TestInitializeRunnerNoBuiltinsEmptyProgram(t *testing.T) {
	program := runners.Program{}
	runner, err := runners.NewCairoRunner(program)
	if err != nil {
		t.Fatalf("NewCairoRunner error in test: %s", err)
	}

	endPtr, err := runner.Initialize()
	if err != nil {
		t.Fatalf("Initialize error in test: %s", err)
	}
	if endPtr.SegmentIndex != 3 || endPtr.Offset != 0 {
		t.Errorf("Wrong end ptr value, got %+v", endPtr)
	}

	if runner.ProgramBase.SegmentIndex != 0 || runner.ProgramBase.Offset != 0 {
		t.Errorf("Wrong ProgramBase value, got %+v", runner.ProgramBase)
	}

	if runner.Vm.RunContext.Pc.SegmentIndex != 0 || runner.Vm.RunContext.Pc.Offset != 0 {
		t.Errorf("Wrong Pc value, got %+v", runner.Vm.RunContext.Pc)
	}
	if runner.Vm.RunContext.Ap.SegmentIndex != 1 || runner.Vm.RunContext.Ap.Offset != 2 {
		t.Errorf("Wrong Ap value, got %+v", runner.Vm.RunContext.Ap)
	}
	if runner.Vm.RunContext.Fp.SegmentIndex != 1 || runner.Vm.RunContext.Fp.Offset != 2 {
		t.Errorf("Wrong Fp value, got %+v", runner.Vm.RunContext.Fp)
	}

	// Program segment stays empty for an empty program.
	value, err := runner.Vm.Segments.Memory.Get(memory.Relocatable{SegmentIndex: 0, Offset: 0})
	if err != nil {
		t.Fatalf("Memory Get error in test: %s", err)
	}
	if value != nil {
		t.Errorf("Expected addr 0:0 to be empty for empty program, got: %+v", value)
	}

	// Execution segment holds [return_fp, end].
	value, err = runner.Vm.Segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 0})
	if err != nil {
		t.Fatalf("Memory Get error in test: %s", err)
	}
	rel, ok := value.GetRelocatable()
	if !ok || rel.SegmentIndex != 2 || rel.Offset != 0 {
		t.Errorf("Wrong value for address 1:0: %v", rel)
	}
	value, err = runner.Vm.Segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 1})
	if err != nil {
		t.Fatalf("Memory Get error in test: %s", err)
	}
	rel, ok = value.GetRelocatable()
	if !ok || rel.SegmentIndex != 3 || rel.Offset != 0 {
		t.Errorf("Wrong value for address 1:1: %v", rel)
	}
}

func TestInitializeRunnerNoBuiltinsNonEmptyProgram(t *testing.T) {
	programData := []memory.MaybeRelocatable{*memory.NewMaybeRelocatableFelt(felt.FromUint64(1))}
	program := runners.Program{Data: programData}
	runner, err := runners.NewCairoRunner(program)
	if err != nil {
		t.Fatalf("NewCairoRunner error in test: %s", err)
	}

	endPtr, err := runner.Initialize()
	if err != nil {
		t.Fatalf("Initialize error in test: %s", err)
	}
	if endPtr.SegmentIndex != 3 || endPtr.Offset != 0 {
		t.Errorf("Wrong end ptr value, got %+v", endPtr)
	}

	value, err := runner.Vm.Segments.Memory.Get(memory.Relocatable{SegmentIndex: 0, Offset: 0})
	if err != nil {
		t.Fatalf("Memory Get error in test: %s", err)
	}
	got, ok := value.GetFelt()
	if !ok || !got.Equal(felt.FromUint64(1)) {
		t.Errorf("Wrong value for address 0:0: %v", got)
	}
}

func TestInitializeRunnerWithRangeCheckBuiltin(t *testing.T) {
	program := runners.Program{Builtins: []string{builtins.RangeCheckName}}
	runner, err := runners.NewCairoRunner(program)
	if err != nil {
		t.Fatalf("NewCairoRunner error in test: %s", err)
	}

	endPtr, err := runner.Initialize()
	if err != nil {
		t.Fatalf("Initialize error in test: %s", err)
	}
	// Segments: 0 program, 1 execution, 2 range_check, 3 return_fp, 4 end.
	if endPtr.SegmentIndex != 4 || endPtr.Offset != 0 {
		t.Errorf("Wrong end ptr value, got %+v", endPtr)
	}
	if runner.Vm.RunContext.Ap.SegmentIndex != 1 || runner.Vm.RunContext.Ap.Offset != 3 {
		t.Errorf("Wrong Ap value, got %+v", runner.Vm.RunContext.Ap)
	}

	// The builtin's base pointer leads the entrypoint stack.
	value, err := runner.Vm.Segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 0})
	if err != nil {
		t.Fatalf("Memory Get error in test: %s", err)
	}
	rel, ok := value.GetRelocatable()
	if !ok || rel != runner.Vm.BuiltinRunners[0].Base() {
		t.Errorf("Wrong value for address 1:0: %v", rel)
	}

	// The validation rule is live: an out-of-range write into the builtin
	// segment must fail.
	huge := memory.NewMaybeRelocatableFelt(felt.FromDecString("-1"))
	if err := runner.Vm.Segments.Memory.Insert(runner.Vm.BuiltinRunners[0].Base(), huge); err == nil {
		t.Errorf("Expected out-of-range write into the range_check segment to fail")
	}
}
