package memory

import "fmt"

// Kind enumerates the memory subsystem's error taxonomy. Errors carry a
// Kind rather than an opaque string so callers can branch on them with
// errors.As without string matching.
type Kind int

const (
	KindTypeMismatch Kind = iota
	KindAddressNotRelocatable
	KindInconsistentWrite
	KindOutOfBounds
	KindSegmentNotAllocated
	KindAddressInTemporarySegment
	KindEffectiveSizesNotCalled
	KindSegmentNotFinalized
	KindGenArgInvalidType
	KindValueOutOfRange
	KindValueNotPositive
	KindInvalidSetRange
	KindMissingValue
)

func (k Kind) String() string {
	switch k {
	case KindTypeMismatch:
		return "TypeMismatch"
	case KindAddressNotRelocatable:
		return "AddressNotRelocatable"
	case KindInconsistentWrite:
		return "InconsistentWrite"
	case KindOutOfBounds:
		return "OutOfBounds"
	case KindSegmentNotAllocated:
		return "SegmentNotAllocated"
	case KindAddressInTemporarySegment:
		return "AddressInTemporarySegment"
	case KindEffectiveSizesNotCalled:
		return "EffectiveSizesNotCalled"
	case KindSegmentNotFinalized:
		return "SegmentNotFinalized"
	case KindGenArgInvalidType:
		return "GenArgInvalidType"
	case KindValueOutOfRange:
		return "ValueOutOfRange"
	case KindValueNotPositive:
		return "ValueNotPositive"
	case KindInvalidSetRange:
		return "InvalidSetRange"
	case KindMissingValue:
		return "MissingValue"
	default:
		return "Unknown"
	}
}

// MemoryError is the structured error type returned by the memory store
// and the segment manager (LoadData wraps it with the failing element's
// index). Relocatable and MaybeRelocatable arithmetic return plain errors
// such as ErrSegmentMismatch instead. It always carries a Kind and, where
// relevant, the originating address and the conflicting values.
type MemoryError struct {
	Kind    Kind
	Addr    *Relocatable
	Old     *MaybeRelocatable
	New     *MaybeRelocatable
	Segment int
	Detail  string
}

func (e *MemoryError) Error() string {
	switch e.Kind {
	case KindInconsistentWrite:
		return fmt.Sprintf("memory is write-once: address %s already holds %s, cannot overwrite with %s", e.Addr, e.Old, e.New)
	case KindAddressNotRelocatable:
		return fmt.Sprintf("cannot write at address %s: not a relocatable address", e.Detail)
	case KindOutOfBounds, KindSegmentNotAllocated:
		if e.Kind == KindOutOfBounds && e.Addr != nil {
			return fmt.Sprintf("address %s is beyond the size of segment %d", e.Addr, e.Segment)
		}
		return fmt.Sprintf("segment %d is not allocated", e.Segment)
	case KindAddressInTemporarySegment:
		return fmt.Sprintf("address %s is in a temporary segment", e.Addr)
	case KindEffectiveSizesNotCalled:
		return "effective sizes have not been computed"
	case KindSegmentNotFinalized:
		return fmt.Sprintf("segment %d has no declared or effective size", e.Segment)
	case KindGenArgInvalidType:
		return "argument has an unsupported shape for marshaling"
	case KindValueOutOfRange:
		return fmt.Sprintf("value out of range: %s", e.Detail)
	case KindValueNotPositive:
		return fmt.Sprintf("expected a positive value, got %s", e.Detail)
	case KindInvalidSetRange:
		return fmt.Sprintf("invalid set range: %s > %s", e.Old, e.New)
	case KindMissingValue:
		return fmt.Sprintf("no value stored at address %s", e.Addr)
	case KindTypeMismatch:
		return fmt.Sprintf("type mismatch at address %s: %s", e.Addr, e.Detail)
	default:
		return "memory error"
	}
}

// Is supports errors.Is by comparing Kind only, so callers can write
// errors.Is(err, &MemoryError{Kind: KindInconsistentWrite}).
func (e *MemoryError) Is(target error) bool {
	other, ok := target.(*MemoryError)
	if !ok {
		return false
	}
	return e.Kind == other.Kind
}

func newAddrErr(kind Kind, addr Relocatable) *MemoryError {
	a := addr
	return &MemoryError{Kind: kind, Addr: &a}
}

func newSegmentErr(kind Kind, segment int) *MemoryError {
	return &MemoryError{Kind: kind, Segment: segment}
}
