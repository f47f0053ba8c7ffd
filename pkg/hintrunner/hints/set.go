// Package hints implements illustrative hint operators. set_add is the
// one worked example here; it exercises every memory-subsystem contract
// (tagged values, address arithmetic, range reads, variable binding,
// write-once insert).
package hints

import (
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/hintrunner"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// SetAdd determines whether the elm_size-word datum at elm_ptr appears
// as a row in the array [set_ptr, set_end_ptr), writing is_elm_in_set
// (and index, on a hit) back through bindings.
func SetAdd(mem *memory.Memory, bindings *hintrunner.Bindings) error {
	setPtr, err := bindings.GetPtrFromVarName(mem, "set_ptr")
	if err != nil {
		return err
	}

	elmSizeValue, err := bindings.GetIntegerFromVarName(mem, "elm_size")
	if err != nil {
		return err
	}
	elmSizeFelt, _ := elmSizeValue.GetFelt()
	if elmSizeFelt.IsZero() {
		return &hintrunner.HintError{Kind: hintrunner.KindValueNotPositive, Name: "elm_size", Detail: "0"}
	}
	elmSize, err := elmSizeFelt.ToUsize()
	if err != nil {
		return &hintrunner.HintError{Kind: hintrunner.KindBigintToUsizeFail, Name: "elm_size", Detail: err.Error()}
	}

	elmPtr, err := bindings.GetPtrFromVarName(mem, "elm_ptr")
	if err != nil {
		return err
	}
	setEndPtr, err := bindings.GetPtrFromVarName(mem, "set_end_ptr")
	if err != nil {
		return err
	}

	elm, err := mem.GetRange(elmPtr, elmSize)
	if err != nil {
		return err
	}

	rangeLen, err := setEndPtr.Sub(setPtr)
	if err != nil {
		return &hintrunner.HintError{
			Kind:   hintrunner.KindInvalidSetRange,
			Detail: setPtr.String() + " > " + setEndPtr.String(),
		}
	}

	for i := uint(0); i < rangeLen; i += elmSize {
		row, err := mem.GetRange(setPtr.AddUint(i), elmSize)
		if err != nil {
			return err
		}
		if rangeEqual(row, elm) {
			if err := bindings.InsertValueFromVarName(mem, "index", *memory.NewMaybeRelocatableFelt(felt.FromUint64(uint64(i/elmSize)))); err != nil {
				return err
			}
			return bindings.InsertValueFromVarName(mem, "is_elm_in_set", *memory.NewMaybeRelocatableFelt(felt.One()))
		}
	}

	return bindings.InsertValueFromVarName(mem, "is_elm_in_set", *memory.NewMaybeRelocatableFelt(felt.Zero()))
}

func rangeEqual(a, b []memory.MaybeRelocatable) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].IsEqual(&b[i]) {
			return false
		}
	}
	return true
}
