package builtins

import (
	"fmt"
	"math/big"

	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// RangeCheckName is the builtin's name as programs declare it.
const RangeCheckName = "range_check"

// rangeCheckBound is 2**128. A range-check builtin cell must hold a field
// element whose representative falls in [0, rangeCheckBound).
var rangeCheckBound = new(big.Int).Lsh(big.NewInt(1), 128)

// RangeCheckBuiltinRunner exercises the validation-rule machinery in
// memory.Memory: every value written to its segment must be a field
// element representing an unsigned 128-bit integer.
type RangeCheckBuiltinRunner struct {
	base     memory.Relocatable
	hasBase  bool
	numParts uint
}

// NewRangeCheckBuiltinRunner builds a range-check runner split into
// numParts limbs.
func NewRangeCheckBuiltinRunner(numParts uint) *RangeCheckBuiltinRunner {
	return &RangeCheckBuiltinRunner{numParts: numParts}
}

func (r *RangeCheckBuiltinRunner) Base() memory.Relocatable {
	return r.base
}

func (r *RangeCheckBuiltinRunner) Name() string {
	return RangeCheckName
}

func (r *RangeCheckBuiltinRunner) InitializeSegments(segments *memory.MemorySegmentManager) {
	r.base = segments.Add()
	r.hasBase = true
}

func (r *RangeCheckBuiltinRunner) InitialStack() []memory.MaybeRelocatable {
	if !r.hasBase {
		return nil
	}
	return []memory.MaybeRelocatable{*memory.NewMaybeRelocatableRelocatable(r.base)}
}

// DeduceMemoryCell never deduces a value: range-check cells are always
// supplied by the program, only validated.
func (r *RangeCheckBuiltinRunner) DeduceMemoryCell(memory.Relocatable, *memory.Memory) (*memory.MaybeRelocatable, error) {
	return nil, nil
}

func (r *RangeCheckBuiltinRunner) AddValidationRule(mem *memory.Memory) {
	mem.AddValidationRule(uint(r.base.SegmentIndex), r.validate)
}

func (r *RangeCheckBuiltinRunner) validate(mem *memory.Memory, addr memory.Relocatable) ([]memory.Relocatable, error) {
	cell, err := mem.Get(addr)
	if err != nil {
		return nil, err
	}
	if cell == nil {
		return nil, nil
	}
	value, ok := cell.GetFelt()
	if !ok {
		return nil, &memory.MemoryError{Kind: memory.KindTypeMismatch, Addr: &addr, Detail: "range_check cell must hold a field element"}
	}
	if value.BigInt().Cmp(rangeCheckBound) >= 0 {
		return nil, &memory.MemoryError{
			Kind:   memory.KindValueOutOfRange,
			Addr:   &addr,
			Detail: fmt.Sprintf("%s is outside the range_check bound [0, 2^128)", value),
		}
	}
	return []memory.Relocatable{addr}, nil
}
