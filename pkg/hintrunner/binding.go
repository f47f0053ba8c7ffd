package hintrunner

import "github.com/quadratic-labs/cairovm-go/pkg/vm/memory"

// Bindings resolves the symbolic names a hint's Cairo source refers to
// (`ids.foo`) into concrete addresses, and performs the typed reads and
// writes hints use to exchange data with memory.
//
// A Bindings value is built from a snapshot of FP and AP taken once, at
// hint-invocation time; it never stores a back-reference into the VM,
// so resolution stays pure with respect to everything that happens
// after the snapshot was taken.
type Bindings struct {
	idsData    map[string]HintReference
	apTracking ApTracking
	fp, ap     memory.Relocatable
}

// NewBindings captures ids_data, the hint's current ap-tracking record,
// and the FP/AP registers at the moment of invocation.
func NewBindings(idsData map[string]HintReference, apTracking ApTracking, fp, ap memory.Relocatable) *Bindings {
	return &Bindings{idsData: idsData, apTracking: apTracking, fp: fp, ap: ap}
}

// cellAddress computes the address of the ids_data slot itself, before
// any indirection the reference's Dereference flag calls for.
func (b *Bindings) cellAddress(name string) (memory.Relocatable, HintReference, error) {
	ref, ok := b.idsData[name]
	if !ok {
		return memory.Relocatable{}, HintReference{}, newErr(KindUnknownVariable, name, "")
	}

	switch ref.Register {
	case RegisterFP:
		addr, err := offsetAddr(b.fp, ref.Offset)
		return addr, ref, err
	case RegisterAP:
		if ref.ApTrackingData.Group != b.apTracking.Group {
			return memory.Relocatable{}, ref, newErr(KindReferenceUnresolvable, name, "ap tracking group mismatch")
		}
		drift := b.apTracking.Offset - ref.ApTrackingData.Offset
		addr, err := offsetAddr(b.ap, ref.Offset-drift)
		return addr, ref, err
	default:
		return memory.Relocatable{}, ref, newErr(KindReferenceUnresolvable, name, "unknown register")
	}
}

// address resolves name to the address holding its value, following one
// extra level of indirection when the reference is dereferenced.
func (b *Bindings) address(mem *memory.Memory, name string) (memory.Relocatable, error) {
	cellAddr, ref, err := b.cellAddress(name)
	if err != nil {
		return memory.Relocatable{}, err
	}
	if !ref.Dereference {
		return cellAddr, nil
	}

	cell, err := mem.Get(cellAddr)
	if err != nil {
		return memory.Relocatable{}, err
	}
	if cell == nil {
		return memory.Relocatable{}, newErr(KindReferenceUnresolvable, name, "dereferenced cell is a hole")
	}
	rel, ok := cell.GetRelocatable()
	if !ok {
		return memory.Relocatable{}, newErr(KindExpectedRelocatable, name, "dereferenced cell does not hold an address")
	}
	return rel, nil
}

// GetIntegerFromVarName reads name's cell and requires it hold a field
// element, failing with ExpectedInteger otherwise.
func (b *Bindings) GetIntegerFromVarName(mem *memory.Memory, name string) (memory.MaybeRelocatable, error) {
	addr, err := b.address(mem, name)
	if err != nil {
		return memory.MaybeRelocatable{}, err
	}
	cell, err := mem.Get(addr)
	if err != nil {
		return memory.MaybeRelocatable{}, err
	}
	if cell == nil {
		return memory.MaybeRelocatable{}, newErr(KindReferenceUnresolvable, name, "value not yet written")
	}
	if _, ok := cell.GetFelt(); !ok {
		return memory.MaybeRelocatable{}, newErr(KindExpectedInteger, name, "")
	}
	return *cell, nil
}

// GetPtrFromVarName reads name's cell and requires it hold a
// relocatable address, failing with ExpectedRelocatable otherwise.
func (b *Bindings) GetPtrFromVarName(mem *memory.Memory, name string) (memory.Relocatable, error) {
	addr, err := b.address(mem, name)
	if err != nil {
		return memory.Relocatable{}, err
	}
	cell, err := mem.Get(addr)
	if err != nil {
		return memory.Relocatable{}, err
	}
	if cell == nil {
		return memory.Relocatable{}, newErr(KindReferenceUnresolvable, name, "value not yet written")
	}
	rel, ok := cell.GetRelocatable()
	if !ok {
		return memory.Relocatable{}, newErr(KindExpectedRelocatable, name, "")
	}
	return rel, nil
}

// InsertValueFromVarName writes v at name's resolved address, subject to
// the memory store's write-once rule.
func (b *Bindings) InsertValueFromVarName(mem *memory.Memory, name string, v memory.MaybeRelocatable) error {
	addr, err := b.address(mem, name)
	if err != nil {
		return err
	}
	return mem.Insert(addr, &v)
}
