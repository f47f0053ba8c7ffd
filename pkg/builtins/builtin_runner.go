package builtins

import "github.com/quadratic-labs/cairovm-go/pkg/vm/memory"

// BuiltinRunner is implemented by every builtin that can own a memory
// segment and participate in cell validation.
type BuiltinRunner interface {
	// Base returns the first address of the builtin's memory segment.
	Base() memory.Relocatable
	// Name returns the builtin's name.
	Name() string
	// InitializeSegments allocates the builtin's segment and records its base.
	InitializeSegments(*memory.MemorySegmentManager)
	// InitialStack returns the values pushed onto the stack on program entry.
	InitialStack() []memory.MaybeRelocatable
	// DeduceMemoryCell attempts to deduce the value of a memory cell given
	// its address. A nil pointer and nil error means there is no deduction
	// for that cell.
	DeduceMemoryCell(memory.Relocatable, *memory.Memory) (*memory.MaybeRelocatable, error)
	// AddValidationRule registers this builtin's validation rule on its segment.
	AddValidationRule(*memory.Memory)
	// TODO: Later additions -> Some of them could depend on a Default Implementation
	// // Most of them depend on Layouts being implemented
	// // Use cases:
	// // I. PROOF_MODE
	// // Returns the builtin's ratio, can be nil if the layout is dynamic
	// Ratio() *uint // proof-mode end_run logic
	// // Returns the builtin's allocated memory units
	// GetAllocatedMemoryUnits(*vm.VirtualMachine) (uint, error) // proof-mode end_run logic
	// // Returns the list of memory addresses used by the builtin
	// GetMemoryAccesses(*memory.MemorySegmentManager) ([]memory.Relocatable, error) // proof-mode end_run logic
	// GetUsedCells(*memory.MemorySegmentManager) (uint, error)                      // proof-mode end_run logic
	// GetRangeCheckUsage(*memory.Memory) (*uint, *uint)                             // proof-mode end_run logic
	// GetUsedPermRangeCheckLimits(*vm.VirtualMachine) (uint, error)                 // proof-mode end_run logic
	// GetUsedDilutedCheckUnits(diluted_spacing uint, diluted_n_bits uint) uint      // proof-mode end_run logic
	// GetUsedCellsAndAllocatedSizes(*vm.VirtualMachine) (uint, uint, error)         // proof-mode end_run logic + finalize_segments
	// // II. SECURITY (secure-run flag cairo-run || verify-secure flag run_from_entrypoint)
	// RunSecurityChecks(*vm.VirtualMachine) error // verify_secure_runner logic
	// // Returns the base & stop_ptr, stop_ptr can be nil
	// GetMemorySegmentAddresses() (memory.Relocatable, *memory.Relocatable) //verify_secure_runner logic
	// // III. STARKNET-SPECIFIC
	// GetUsedInstances(*memory.MemorySegmentManager) (uint, error) // get_execution_resources (starknet use case)
	// // IV. GENERAL CASE (but not critical)
	// FinalStack(*memory.MemorySegmentManager, memory.Relocatable) (memory.Relocatable, error) // read_return_values
}
