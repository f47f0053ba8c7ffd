package hints_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/hintrunner"
	"github.com/quadratic-labs/cairovm-go/pkg/hintrunner/hints"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

// setAddFixture builds the set_add test fixture: four segments,
// fp = 1:6, and ids_data naming is_elm_in_set, index, set_ptr,
// elm_size, elm_ptr, set_end_ptr at fp-6 .. fp-1 respectively.
func setAddFixture(t *testing.T, setPtr memory.Relocatable, elmSize int64, elmA, elmB int64) (*memory.MemorySegmentManager, *hintrunner.Bindings) {
	t.Helper()
	segments := memory.NewMemorySegmentManager()
	for i := 0; i < 4; i++ {
		segments.Add()
	}
	fp := memory.Relocatable{SegmentIndex: 1, Offset: 6}

	felt_ := func(v int64) memory.MaybeRelocatable {
		return *memory.NewMaybeRelocatableFelt(felt.FromInt64(v))
	}
	ptr := func(r memory.Relocatable) memory.MaybeRelocatable {
		return *memory.NewMaybeRelocatableRelocatable(r)
	}
	set := func(offset uint, v memory.MaybeRelocatable) {
		require.NoError(t, segments.Memory.Insert(memory.Relocatable{SegmentIndex: 1, Offset: offset}, &v))
	}

	set(2, ptr(setPtr))
	set(3, felt_(elmSize))
	set(4, ptr(memory.Relocatable{SegmentIndex: 3, Offset: 0}))
	set(5, ptr(memory.Relocatable{SegmentIndex: 2, Offset: 2}))

	for i, v := range []int64{1, 3, 5, 7} {
		addr := memory.Relocatable{SegmentIndex: 2, Offset: uint(i)}
		val := felt_(v)
		require.NoError(t, segments.Memory.Insert(addr, &val))
	}
	elmAv, elmBv := felt_(elmA), felt_(elmB)
	require.NoError(t, segments.Memory.Insert(memory.Relocatable{SegmentIndex: 3, Offset: 0}, &elmAv))
	require.NoError(t, segments.Memory.Insert(memory.Relocatable{SegmentIndex: 3, Offset: 1}, &elmBv))

	idsData := map[string]hintrunner.HintReference{
		"is_elm_in_set": hintrunner.NewReference(hintrunner.RegisterFP, -6, hintrunner.ApTracking{}),
		"index":         hintrunner.NewReference(hintrunner.RegisterFP, -5, hintrunner.ApTracking{}),
		"set_ptr":       hintrunner.NewReference(hintrunner.RegisterFP, -4, hintrunner.ApTracking{}),
		"elm_size":      hintrunner.NewReference(hintrunner.RegisterFP, -3, hintrunner.ApTracking{}),
		"elm_ptr":       hintrunner.NewReference(hintrunner.RegisterFP, -2, hintrunner.ApTracking{}),
		"set_end_ptr":   hintrunner.NewReference(hintrunner.RegisterFP, -1, hintrunner.ApTracking{}),
	}
	bindings := hintrunner.NewBindings(idsData, hintrunner.ApTracking{}, fp, memory.Relocatable{})
	return &segments, bindings
}

// elm is not present in the set.
func TestSetAddNewElem(t *testing.T) {
	segments, bindings := setAddFixture(t, memory.Relocatable{SegmentIndex: 2, Offset: 0}, 2, 2, 3)

	require.NoError(t, hints.SetAdd(segments.Memory, bindings))

	isElmInSet, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 0})
	require.NoError(t, err)
	require.NotNil(t, isElmInSet)
	f, ok := isElmInSet.GetFelt()
	require.True(t, ok)
	require.True(t, f.IsZero())

	index, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 1})
	require.NoError(t, err)
	require.Nil(t, index)
}

// elm is already present, matching the first row.
func TestSetAddAlreadyExists(t *testing.T) {
	segments, bindings := setAddFixture(t, memory.Relocatable{SegmentIndex: 2, Offset: 0}, 2, 1, 3)

	require.NoError(t, hints.SetAdd(segments.Memory, bindings))

	isElmInSet, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 0})
	require.NoError(t, err)
	f, _ := isElmInSet.GetFelt()
	require.True(t, f.Equal(felt.One()))

	index, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 1})
	require.NoError(t, err)
	idx, _ := index.GetFelt()
	require.True(t, idx.IsZero())
}

// set_ptr > set_end_ptr.
func TestSetAddInvalidRange(t *testing.T) {
	segments, bindings := setAddFixture(t, memory.Relocatable{SegmentIndex: 2, Offset: 3}, 2, 2, 3)

	err := hints.SetAdd(segments.Memory, bindings)
	require.Error(t, err)
	hintErr, ok := err.(*hintrunner.HintError)
	require.True(t, ok)
	require.Equal(t, hintrunner.KindInvalidSetRange, hintErr.Kind)
}

// elm_size == 0.
func TestSetAddElmSizeZero(t *testing.T) {
	segments, bindings := setAddFixture(t, memory.Relocatable{SegmentIndex: 2, Offset: 0}, 0, 2, 3)

	err := hints.SetAdd(segments.Memory, bindings)
	require.Error(t, err)
	hintErr, ok := err.(*hintrunner.HintError)
	require.True(t, ok)
	require.Equal(t, hintrunner.KindValueNotPositive, hintErr.Kind)
}

// elm_size < 0 reduces to a huge field element that cannot fit a
// machine word.
func TestSetAddElmSizeNegative(t *testing.T) {
	segments, bindings := setAddFixture(t, memory.Relocatable{SegmentIndex: 2, Offset: 0}, -2, 2, 3)

	err := hints.SetAdd(segments.Memory, bindings)
	require.Error(t, err)
	hintErr, ok := err.(*hintrunner.HintError)
	require.True(t, ok)
	require.Equal(t, hintrunner.KindBigintToUsizeFail, hintErr.Kind)
}
