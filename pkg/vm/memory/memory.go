package memory

import (
	"github.com/hashicorp/go-multierror"
)

// Cell is an optional memory slot: nil represents a hole.
type Cell = *MaybeRelocatable

// AddressSet tracks which addresses have already run through a
// validation rule.
type AddressSet map[Relocatable]bool

func NewAddressSet() AddressSet {
	return make(AddressSet)
}

func (set AddressSet) Add(element Relocatable) {
	set[element] = true
}

func (set AddressSet) Contains(element Relocatable) bool {
	return set[element]
}

// ValidationRule validates a freshly-written address and returns every
// address it considers checked as a side effect (builtin segments use
// this to validate whole ranges at once).
type ValidationRule func(*Memory, Relocatable) ([]Relocatable, error)

// Memory is the segmented, write-once memory store. Real segments and
// temporary segments are kept in separate append-structured vectors.
type Memory struct {
	data               [][]Cell
	tempData           [][]Cell
	validationRules    map[uint]ValidationRule
	validatedAddresses AddressSet
}

func NewMemory() *Memory {
	return &Memory{
		validatedAddresses: NewAddressSet(),
		validationRules:    make(map[uint]ValidationRule),
	}
}

// NumSegments returns the number of real segments.
func (m *Memory) NumSegments() uint {
	return uint(len(m.data))
}

// NumTemporarySegments returns the number of temporary segments.
func (m *Memory) NumTemporarySegments() uint {
	return uint(len(m.tempData))
}

// addSegment appends a new empty real segment and returns its base.
func (m *Memory) addSegment() Relocatable {
	m.data = append(m.data, []Cell{})
	return Relocatable{SegmentIndex: len(m.data) - 1, Offset: 0}
}

// addTemporarySegment appends a new empty temporary segment and returns
// its base. Temporary indices start at -1.
func (m *Memory) addTemporarySegment() Relocatable {
	m.tempData = append(m.tempData, []Cell{})
	return Relocatable{SegmentIndex: -(len(m.tempData)), Offset: 0}
}

// vectorFor resolves a segment index to its backing vector, without
// touching cell contents. Returns SegmentNotAllocated if out of range.
func (m *Memory) vectorFor(segmentIndex int) ([][]Cell, int, error) {
	if segmentIndex < 0 {
		idx := -segmentIndex - 1
		if idx >= len(m.tempData) {
			return nil, 0, newSegmentErr(KindSegmentNotAllocated, segmentIndex)
		}
		return m.tempData, idx, nil
	}
	if segmentIndex >= len(m.data) {
		return nil, 0, newSegmentErr(KindSegmentNotAllocated, segmentIndex)
	}
	return m.data, segmentIndex, nil
}

// Insert writes val at addr, growing the segment with holes as needed.
// Write-once: re-inserting an equal value succeeds, a differing value
// fails with InconsistentWrite.
func (m *Memory) Insert(addr Relocatable, val *MaybeRelocatable) error {
	vector, idx, err := m.vectorFor(addr.SegmentIndex)
	if err != nil {
		return err
	}
	segment := vector[idx]
	if int(addr.Offset) >= len(segment) {
		grown := make([]Cell, addr.Offset+1)
		copy(grown, segment)
		segment = grown
		vector[idx] = segment
	}
	if existing := segment[addr.Offset]; existing != nil {
		if !existing.IsEqual(val) {
			return &MemoryError{Kind: KindInconsistentWrite, Addr: &addr, Old: existing, New: val}
		}
	} else {
		segment[addr.Offset] = val
	}
	return m.validateAddress(addr)
}

// InsertValue writes val at an address still in tagged-value form, as
// read back out of another cell or produced by argument marshaling.
// Only pointer addresses are writable; a field-element address fails
// with AddressNotRelocatable.
func (m *Memory) InsertValue(addr MaybeRelocatable, val *MaybeRelocatable) error {
	rel, ok := addr.GetRelocatable()
	if !ok {
		return &MemoryError{Kind: KindAddressNotRelocatable, Detail: addr.String()}
	}
	return m.Insert(rel, val)
}

// Get returns the cell at addr, or nil if it is a hole. Fails only if the
// segment itself was never allocated.
func (m *Memory) Get(addr Relocatable) (*MaybeRelocatable, error) {
	vector, idx, err := m.vectorFor(addr.SegmentIndex)
	if err != nil {
		return nil, err
	}
	segment := vector[idx]
	if int(addr.Offset) >= len(segment) {
		return nil, nil
	}
	return segment[addr.Offset], nil
}

// GetRange returns count consecutive cells starting at addr. Any hole in
// the range, or an attempt to read past an allocated segment, is a
// MissingValue error.
func (m *Memory) GetRange(addr Relocatable, count uint) ([]MaybeRelocatable, error) {
	values := make([]MaybeRelocatable, 0, count)
	for i := uint(0); i < count; i++ {
		cellAddr := addr.AddUint(i)
		cell, err := m.Get(cellAddr)
		if err != nil {
			return nil, err
		}
		if cell == nil {
			return nil, newAddrErr(KindMissingValue, cellAddr)
		}
		values = append(values, *cell)
	}
	return values, nil
}

// segmentLen reports the backing length of a real or temporary segment,
// used by the segment manager to compute effective sizes.
func (m *Memory) segmentLen(segmentIndex int) (int, bool) {
	vector, idx, err := m.vectorFor(segmentIndex)
	if err != nil {
		return 0, false
	}
	return len(vector[idx]), true
}

// AddValidationRule registers rule for every future (and, via
// ValidateExistingMemory, every past) insert into segmentIndex.
func (m *Memory) AddValidationRule(segmentIndex uint, rule ValidationRule) {
	m.validationRules[segmentIndex] = rule
}

// validateAddress runs the registered validation rule for addr's segment,
// if any. Temporary addresses and already-validated addresses are skipped.
func (m *Memory) validateAddress(addr Relocatable) error {
	if addr.IsTemporary() || m.validatedAddresses.Contains(addr) {
		return nil
	}
	rule, ok := m.validationRules[uint(addr.SegmentIndex)]
	if !ok {
		return nil
	}
	validated, err := rule(m, addr)
	if err != nil {
		return err
	}
	for _, a := range validated {
		m.validatedAddresses.Add(a)
	}
	return nil
}

// ValidateExistingMemory re-runs validation across every populated cell,
// used after bulk-loading a program. Every offending address is
// collected via go-multierror, rather than stopping at the first
// failure, so the caller (typically the CLI's inspect report) can
// report them all in one pass.
func (m *Memory) ValidateExistingMemory() error {
	var result *multierror.Error
	for segIdx, segment := range m.data {
		for offset, cell := range segment {
			if cell == nil {
				continue
			}
			addr := Relocatable{SegmentIndex: segIdx, Offset: uint(offset)}
			if err := m.validateAddress(addr); err != nil {
				result = multierror.Append(result, err)
			}
		}
	}
	return result.ErrorOrNil()
}
