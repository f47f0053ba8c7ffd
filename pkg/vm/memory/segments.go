package memory

import (
	"github.com/pkg/errors"
	"github.com/quadratic-labs/cairovm-go/pkg/felt"
)

// PublicOffset names a memory cell, by offset within its segment, that the
// prover exposes externally under page_id.
type PublicOffset struct {
	Offset uint
	PageID uint
}

// PublicMemoryEntry is a PublicOffset after relocation into the flat
// image.
type PublicMemoryEntry struct {
	Address uint
	PageID  uint
}

// MemorySegmentManager owns the memory store and provides the
// higher-order services built on top of it: segment lifecycle,
// effective-size computation, relocation, and argument marshaling.
type MemorySegmentManager struct {
	Memory *Memory

	effectiveSizes []uint
	declaredSizes  map[int]uint
	publicOffsets  map[int][]PublicOffset
}

func NewMemorySegmentManager() MemorySegmentManager {
	return MemorySegmentManager{
		Memory:        NewMemory(),
		declaredSizes: make(map[int]uint),
		publicOffsets: make(map[int][]PublicOffset),
	}
}

// Add appends a new empty real segment and returns its base address.
func (s *MemorySegmentManager) Add() Relocatable {
	return s.Memory.addSegment()
}

// AddTemporary appends a new empty temporary segment and returns its base
// address. Temporary segments are excluded from relocation.
func (s *MemorySegmentManager) AddTemporary() Relocatable {
	return s.Memory.addTemporarySegment()
}

// LoadData writes values sequentially starting at ptr and returns the
// address one past the last written cell.
func (s *MemorySegmentManager) LoadData(ptr Relocatable, values []MaybeRelocatable) (Relocatable, error) {
	for i, v := range values {
		v := v
		if err := s.Memory.Insert(ptr.AddUint(uint(i)), &v); err != nil {
			return Relocatable{}, errors.Wrapf(err, "load_data: writing element %d", i)
		}
	}
	return ptr.AddUint(uint(len(values))), nil
}

// ComputeEffectiveSizes snapshots each real segment's high-water length.
// The computation is purely observational — it never consults declared
// sizes — and is idempotent: once cached, later calls return the same
// slice.
func (s *MemorySegmentManager) ComputeEffectiveSizes() []uint {
	if s.effectiveSizes != nil {
		return s.effectiveSizes
	}
	sizes := make([]uint, s.Memory.NumSegments())
	for i := range sizes {
		length, _ := s.Memory.segmentLen(i)
		sizes[i] = uint(length)
	}
	s.effectiveSizes = sizes
	return s.effectiveSizes
}

// GetSegmentSize prefers the declared size, falling back to the
// effective (observed) size.
func (s *MemorySegmentManager) GetSegmentSize(index int) (uint, bool) {
	if size, ok := s.declaredSizes[index]; ok {
		return size, true
	}
	return s.getEffectiveSize(index)
}

func (s *MemorySegmentManager) getEffectiveSize(index int) (uint, bool) {
	if s.effectiveSizes == nil || index < 0 || index >= len(s.effectiveSizes) {
		return 0, false
	}
	return s.effectiveSizes[index], true
}

// RelocateSegments returns the relocation table: one base address per
// real segment, with R[0] = 1 and R[i] = R[i-1] + size(i-1).
// Requires ComputeEffectiveSizes to have already run.
func (s *MemorySegmentManager) RelocateSegments() ([]uint, error) {
	if s.effectiveSizes == nil {
		return nil, &MemoryError{Kind: KindEffectiveSizesNotCalled}
	}
	table := make([]uint, len(s.effectiveSizes))
	next := uint(1)
	for i := range s.effectiveSizes {
		table[i] = next
		size, ok := s.GetSegmentSize(i)
		if !ok {
			return nil, newSegmentErr(KindSegmentNotFinalized, i)
		}
		next += size
	}
	return table, nil
}

// RelocateMemory builds the flat linear image: every real-segment cell
// is rewritten to its flat address, pointer cells
// are rewritten via the relocation table, and temporary segments and
// holes are omitted.
func (s *MemorySegmentManager) RelocateMemory(table []uint) (map[uint]felt.Felt, error) {
	out := make(map[uint]felt.Felt)
	for segIdx := 0; segIdx < len(s.Memory.data); segIdx++ {
		base, ok := indexUint(table, segIdx)
		if !ok {
			return nil, newSegmentErr(KindSegmentNotFinalized, segIdx)
		}
		for offset, cell := range s.Memory.data[segIdx] {
			if cell == nil {
				continue
			}
			flatAddr := base + uint(offset)
			if f, isFelt := cell.GetFelt(); isFelt {
				out[flatAddr] = f
				continue
			}
			rel, _ := cell.GetRelocatable()
			out[flatAddr] = felt.FromUint64(uint64(rel.RelocateAddress(table)))
		}
	}
	return out, nil
}

func indexUint(table []uint, i int) (uint, bool) {
	if i < 0 || i >= len(table) {
		return 0, false
	}
	return table[i], true
}

// PublicMemory flattens each segment's declared public offsets through
// the relocation table. Temporary segments never contribute public
// memory.
func (s *MemorySegmentManager) PublicMemory(table []uint) ([]PublicMemoryEntry, error) {
	var entries []PublicMemoryEntry
	for segIdx, offsets := range s.publicOffsets {
		base, ok := indexUint(table, segIdx)
		if !ok {
			return nil, newSegmentErr(KindSegmentNotFinalized, segIdx)
		}
		for _, o := range offsets {
			entries = append(entries, PublicMemoryEntry{Address: base + o.Offset, PageID: o.PageID})
		}
	}
	return entries, nil
}

// IsValidMemoryValue reports whether v is safe to treat as a memory
// value: field elements always are; pointers must address an allocated,
// non-temporary real segment.
func (s *MemorySegmentManager) IsValidMemoryValue(v MaybeRelocatable) (bool, error) {
	if s.effectiveSizes == nil {
		return false, &MemoryError{Kind: KindEffectiveSizesNotCalled}
	}
	if _, ok := v.GetFelt(); ok {
		return true, nil
	}
	rel, _ := v.GetRelocatable()
	if rel.IsTemporary() {
		return false, newAddrErr(KindAddressInTemporarySegment, rel)
	}
	return rel.SegmentIndex < len(s.effectiveSizes), nil
}

// GetMemoryHoles computes, for every segment with a known size, the count
// of allocated-but-never-touched cells. A touched offset is accepted up
// to and including the segment size, even though valid in-bounds
// addressing stays strictly below it.
func (s *MemorySegmentManager) GetMemoryHoles(accessed []Relocatable) (uint, error) {
	if s.effectiveSizes == nil {
		return 0, &MemoryError{Kind: KindEffectiveSizesNotCalled}
	}
	touched := make(map[int]map[uint]bool)
	for _, addr := range accessed {
		size, ok := s.GetSegmentSize(addr.SegmentIndex)
		if !ok {
			return 0, newSegmentErr(KindSegmentNotFinalized, addr.SegmentIndex)
		}
		if addr.Offset > size {
			return 0, &MemoryError{Kind: KindOutOfBounds, Addr: &addr, Segment: addr.SegmentIndex}
		}
		set, ok := touched[addr.SegmentIndex]
		if !ok {
			set = make(map[uint]bool)
			touched[addr.SegmentIndex] = set
		}
		set[addr.Offset] = true
	}

	max := len(s.declaredSizes)
	if len(s.effectiveSizes) > max {
		max = len(s.effectiveSizes)
	}
	var holes uint
	for i := 0; i < max; i++ {
		size, _ := s.GetSegmentSize(i)
		holes += size - uint(len(touched[i]))
	}
	return holes, nil
}

// Finalize records the authoritative size and/or public memory offsets
// for a segment, used by proof-mode paths.
func (s *MemorySegmentManager) Finalize(size *uint, segmentIndex int, public []PublicOffset) {
	if size != nil {
		s.declaredSizes[segmentIndex] = *size
	}
	if public != nil {
		s.publicOffsets[segmentIndex] = public
	}
}

// GenArg dynamically marshals arg: values pass through, sequences are
// loaded into a fresh segment whose base is returned.
func (s *MemorySegmentManager) GenArg(arg Arg) (MaybeRelocatable, error) {
	switch arg.kind {
	case argKindValue:
		return arg.value, nil
	case argKindSeq:
		base := s.Add()
		if _, err := s.LoadData(base, arg.seq); err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(base), nil
	case argKindSeqPtr:
		values := make([]MaybeRelocatable, len(arg.seqPtr))
		for i, r := range arg.seqPtr {
			values[i] = *NewMaybeRelocatableRelocatable(r)
		}
		base := s.Add()
		if _, err := s.LoadData(base, values); err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(base), nil
	default:
		return MaybeRelocatable{}, &MemoryError{Kind: KindGenArgInvalidType}
	}
}

// GenCairoArg marshals the statically typed CairoArg sum. Composed
// arguments marshal every child before allocating the parent segment, so
// offsets inside the parent are stable.
func (s *MemorySegmentManager) GenCairoArg(arg CairoArg) (MaybeRelocatable, error) {
	switch arg.kind {
	case cairoArgSingle:
		return arg.single, nil
	case cairoArgArray:
		base := s.Add()
		if _, err := s.LoadData(base, arg.array); err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(base), nil
	case cairoArgComposed:
		children := make([]MaybeRelocatable, 0, len(arg.composed))
		for _, child := range arg.composed {
			marshaled, err := s.GenCairoArg(child)
			if err != nil {
				return MaybeRelocatable{}, err
			}
			children = append(children, marshaled)
		}
		base := s.Add()
		if _, err := s.LoadData(base, children); err != nil {
			return MaybeRelocatable{}, err
		}
		return *NewMaybeRelocatableRelocatable(base), nil
	default:
		return MaybeRelocatable{}, &MemoryError{Kind: KindGenArgInvalidType}
	}
}
