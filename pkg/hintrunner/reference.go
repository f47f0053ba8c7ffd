// Package hintrunner resolves the symbolic variable names a hint uses
// (`ids.foo`) into concrete memory addresses, and ships one worked
// example operator, set_add, that exercises the resolution contract
// end to end.
package hintrunner

import "github.com/quadratic-labs/cairovm-go/pkg/vm/memory"

// Register names which VM register a reference is relative to.
type Register int

const (
	RegisterFP Register = iota
	RegisterAP
)

func (r Register) String() string {
	if r == RegisterFP {
		return "fp"
	}
	return "ap"
}

// ApTracking records how far AP has drifted, within a tracking group,
// since a reference was captured. References captured under a
// different group than the hint's current tracking data cannot be
// corrected and fail to resolve.
type ApTracking struct {
	Group  int
	Offset int
}

// HintReference is the reference descriptor attached to each ids_data
// entry: an offset relative to FP or AP, an indirection flag, an
// optional source-level type tag, and the AP-tracking snapshot captured
// when the reference was built.
//
// When Dereference is false the variable's value lives directly at
// (register + Offset) — the common case for a plain felt or pointer
// id. When Dereference is true, (register + Offset) instead holds a
// pointer to the variable, and one extra memory read is needed to
// reach it; this covers ids reached through an intermediate local
// pointer (e.g. a struct member accessed via a `local` variable).
type HintReference struct {
	Register       Register
	Offset         int
	Dereference    bool
	ValueType      string
	TypeWidth      uint
	ApTrackingData ApTracking
}

// NewReference builds a plain, non-dereferenced reference, the shape
// used by set_add's ids_data entries.
func NewReference(register Register, offset int, apTracking ApTracking) HintReference {
	return HintReference{Register: register, Offset: offset, ApTrackingData: apTracking}
}

// offsetAddr shifts base by a signed delta, failing if the result would
// underflow the segment's offset space. HintReference offsets are
// commonly negative (locals live below FP), unlike the memory
// package's AddUint which only accepts unsigned shifts.
func offsetAddr(base memory.Relocatable, delta int) (memory.Relocatable, error) {
	if delta >= 0 {
		return base.AddUint(uint(delta)), nil
	}
	magnitude := uint(-delta)
	if magnitude > base.Offset {
		return memory.Relocatable{}, newErr(KindReferenceUnresolvable, "", "offset underflows segment start")
	}
	return memory.Relocatable{SegmentIndex: base.SegmentIndex, Offset: base.Offset - magnitude}, nil
}
