package memory

import (
	"fmt"

	"github.com/pkg/errors"
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
)

// ErrSegmentMismatch is returned when subtracting two Relocatables that
// live in different segments.
var ErrSegmentMismatch = errors.New("relocatable: cannot operate on addresses from different segments")

// ErrNegativeDifference is returned when a Relocatable subtraction would
// produce a negative offset.
var ErrNegativeDifference = errors.New("relocatable: left operand offset is smaller than right operand offset")

// Relocatable is a logical (segment, offset) address. SegmentIndex is
// signed: non-negative values index the real segment vector, negative
// values index the temporary segment vector.
type Relocatable struct {
	SegmentIndex int
	Offset       uint
}

func (r Relocatable) String() string {
	return fmt.Sprintf("%d:%d", r.SegmentIndex, r.Offset)
}

// IsTemporary reports whether r addresses a temporary segment.
func (r Relocatable) IsTemporary() bool {
	return r.SegmentIndex < 0
}

// AddUint returns r shifted forward by delta words.
func (r Relocatable) AddUint(delta uint) Relocatable {
	return Relocatable{SegmentIndex: r.SegmentIndex, Offset: r.Offset + delta}
}

// AddFelt shifts r by a field element interpreted as an offset, failing if
// the representative doesn't fit a usize.
func (r Relocatable) AddFelt(delta felt.Felt) (Relocatable, error) {
	d, err := delta.ToUsize()
	if err != nil {
		return Relocatable{}, errors.Wrap(err, "relocatable: add felt offset")
	}
	return r.AddUint(d), nil
}

// Sub returns r - other as a usize offset difference. Fails if the two
// addresses live in different segments or if other is ahead of r.
func (r Relocatable) Sub(other Relocatable) (uint, error) {
	if r.SegmentIndex != other.SegmentIndex {
		return 0, ErrSegmentMismatch
	}
	if r.Offset < other.Offset {
		return 0, ErrNegativeDifference
	}
	return r.Offset - other.Offset, nil
}

// RelocateAddress maps a logical address into the flat image using a
// relocation table produced by MemorySegmentManager.RelocateSegments.
// Temporary segments have no entry in the table; an address in one (or in
// a segment beyond the table) maps to its bare offset.
func (r Relocatable) RelocateAddress(table []uint) uint {
	if r.IsTemporary() || r.SegmentIndex >= len(table) {
		return r.Offset
	}
	return table[r.SegmentIndex] + r.Offset
}

// MaybeRelocatable holds either a pure field element or a logical pointer.
type MaybeRelocatable struct {
	relocatable   Relocatable
	felt          felt.Felt
	isRelocatable bool
}

// NewMaybeRelocatableFelt wraps a field element as a memory value.
func NewMaybeRelocatableFelt(f felt.Felt) *MaybeRelocatable {
	return &MaybeRelocatable{felt: f}
}

// NewMaybeRelocatableRelocatable wraps a logical address as a memory value.
func NewMaybeRelocatableRelocatable(r Relocatable) *MaybeRelocatable {
	return &MaybeRelocatable{relocatable: r, isRelocatable: true}
}

// GetFelt returns the wrapped field element, if any.
func (m MaybeRelocatable) GetFelt() (felt.Felt, bool) {
	if m.isRelocatable {
		return felt.Felt{}, false
	}
	return m.felt, true
}

// GetRelocatable returns the wrapped address, if any.
func (m MaybeRelocatable) GetRelocatable() (Relocatable, bool) {
	if !m.isRelocatable {
		return Relocatable{}, false
	}
	return m.relocatable, true
}

// IsZero reports whether m holds the felt zero value.
func (m MaybeRelocatable) IsZero() bool {
	return !m.isRelocatable && m.felt.IsZero()
}

// IsEqual reports structural equality between two memory values.
func (m MaybeRelocatable) IsEqual(other *MaybeRelocatable) bool {
	if m.isRelocatable != other.isRelocatable {
		return false
	}
	if m.isRelocatable {
		return m.relocatable == other.relocatable
	}
	return m.felt.Equal(other.felt)
}

func (m MaybeRelocatable) String() string {
	if m.isRelocatable {
		return m.relocatable.String()
	}
	return m.felt.String()
}

// Add implements Ptr+Int (shifts the offset), Int+Int (field addition);
// mixing Ptr with Ptr is a type error.
func (m MaybeRelocatable) Add(other MaybeRelocatable) (MaybeRelocatable, error) {
	if m.isRelocatable && !other.isRelocatable {
		r, err := m.relocatable.AddFelt(other.felt)
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(r), nil
	}
	if !m.isRelocatable && other.isRelocatable {
		return other.Add(m)
	}
	if !m.isRelocatable && !other.isRelocatable {
		return *NewMaybeRelocatableFelt(m.felt.Add(other.felt)), nil
	}
	return MaybeRelocatable{}, errors.New("maybe_relocatable: cannot add two relocatable values")
}

// Sub implements Ptr-Ptr (same segment) and Int-Int; Ptr-Int shifts the
// offset back by the felt, failing if it does not fit a usize or would
// take the offset below zero.
func (m MaybeRelocatable) Sub(other MaybeRelocatable) (MaybeRelocatable, error) {
	if !m.isRelocatable && !other.isRelocatable {
		return *NewMaybeRelocatableFelt(m.felt.Sub(other.felt)), nil
	}
	if m.isRelocatable && other.isRelocatable {
		diff, err := m.relocatable.Sub(other.relocatable)
		if err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableFelt(felt.FromUint64(uint64(diff))), nil
	}
	if m.isRelocatable && !other.isRelocatable {
		d, err := other.felt.ToUsize()
		if err != nil {
			return MaybeRelocatable{}, errors.Wrap(err, "maybe_relocatable: sub felt offset")
		}
		if m.relocatable.Offset < d {
			return MaybeRelocatable{}, ErrNegativeDifference
		}
		return *NewMaybeRelocatableRelocatable(Relocatable{SegmentIndex: m.relocatable.SegmentIndex, Offset: m.relocatable.Offset - d}), nil
	}
	return MaybeRelocatable{}, errors.New("maybe_relocatable: cannot subtract a relocatable value from an integer")
}

// AddMaybeRelocatable dispatches to Add, named to match how register
// updates add an already-unwrapped value during instruction execution.
func (r Relocatable) AddMaybeRelocatable(other MaybeRelocatable) (Relocatable, error) {
	sum, err := NewMaybeRelocatableRelocatable(r).Add(other)
	if err != nil {
		return Relocatable{}, err
	}
	rel, ok := sum.GetRelocatable()
	if !ok {
		return Relocatable{}, errors.New("relocatable: result of addition was not an address")
	}
	return rel, nil
}
