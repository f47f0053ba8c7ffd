package memory_test

import (
	"testing"

	"github.com/quadratic-labs/cairovm-go/pkg/felt"
	"github.com/quadratic-labs/cairovm-go/pkg/vm/memory"
)

func TestWriteOnceEqualValueSucceeds(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()
	v := memory.NewMaybeRelocatableFelt(felt.FromUint64(7))

	if err := segments.Memory.Insert(base, v); err != nil {
		t.Fatalf("first insert failed: %s", err)
	}
	if err := segments.Memory.Insert(base, v); err != nil {
		t.Errorf("re-inserting an equal value should succeed, got: %s", err)
	}
}

func TestWriteOnceDifferentValueFails(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()
	a := memory.NewMaybeRelocatableFelt(felt.FromUint64(7))
	b := memory.NewMaybeRelocatableFelt(felt.FromUint64(8))

	if err := segments.Memory.Insert(base, a); err != nil {
		t.Fatalf("first insert failed: %s", err)
	}
	err := segments.Memory.Insert(base, b)
	if err == nil {
		t.Fatalf("expected InconsistentWrite error, got nil")
	}
	memErr, ok := err.(*memory.MemoryError)
	if !ok || memErr.Kind != memory.KindInconsistentWrite {
		t.Errorf("expected KindInconsistentWrite, got: %v", err)
	}
}

func TestInsertValueAtFeltAddressFails(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	segments.Add()
	addr := *memory.NewMaybeRelocatableFelt(felt.FromUint64(3))
	v := memory.NewMaybeRelocatableFelt(felt.FromUint64(7))

	err := segments.Memory.InsertValue(addr, v)
	if err == nil {
		t.Fatalf("expected AddressNotRelocatable error, got nil")
	}
	memErr, ok := err.(*memory.MemoryError)
	if !ok || memErr.Kind != memory.KindAddressNotRelocatable {
		t.Errorf("expected KindAddressNotRelocatable, got: %v", err)
	}
}

func TestInsertValueAtPointerAddressWrites(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()
	addr := *memory.NewMaybeRelocatableRelocatable(base)
	v := memory.NewMaybeRelocatableFelt(felt.FromUint64(7))

	if err := segments.Memory.InsertValue(addr, v); err != nil {
		t.Fatalf("insert through a tagged address failed: %s", err)
	}
	got, err := segments.Memory.Get(base)
	if err != nil {
		t.Fatalf("get failed: %s", err)
	}
	if got == nil || !got.IsEqual(v) {
		t.Errorf("expected %v at %v, got %v", v, base, got)
	}
}

func TestGetOnHoleReturnsNilNoError(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()

	value, err := segments.Memory.Get(base.AddUint(5))
	if err != nil {
		t.Fatalf("Get on a hole should not fail, got: %s", err)
	}
	if value != nil {
		t.Errorf("expected nil for a hole, got: %v", value)
	}
}

func TestGetOutOfRangeSegmentFails(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	_, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 3, Offset: 0})
	if err == nil {
		t.Errorf("expected an error reading from an unallocated segment")
	}
}

func TestLoadDataReadRoundTrip(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()
	data := []memory.MaybeRelocatable{
		*memory.NewMaybeRelocatableFelt(felt.FromUint64(11)),
		*memory.NewMaybeRelocatableFelt(felt.FromUint64(12)),
		*memory.NewMaybeRelocatableFelt(felt.FromUint64(13)),
	}

	end, err := segments.LoadData(base, data)
	if err != nil {
		t.Fatalf("load_data failed: %s", err)
	}
	if end != base.AddUint(3) {
		t.Errorf("expected end pointer %v, got %v", base.AddUint(3), end)
	}

	got, err := segments.Memory.GetRange(base, 3)
	if err != nil {
		t.Fatalf("get_range failed: %s", err)
	}
	for i := range data {
		if !got[i].IsEqual(&data[i]) {
			t.Errorf("round trip mismatch at %d: expected %v got %v", i, data[i], got[i])
		}
	}
}

func TestGetRangeWithHoleFails(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	base := segments.Add()
	v := memory.NewMaybeRelocatableFelt(felt.FromUint64(1))
	if err := segments.Memory.Insert(base, v); err != nil {
		t.Fatalf("insert failed: %s", err)
	}
	// offset 1 is a hole
	if err := segments.Memory.Insert(base.AddUint(2), v); err != nil {
		t.Fatalf("insert failed: %s", err)
	}

	_, err := segments.Memory.GetRange(base, 3)
	if err == nil {
		t.Errorf("expected get_range to fail on a hole")
	}
}

// Field reduction is applied to loaded data.
func TestScenarioLoadDataFieldReduction(t *testing.T) {
	segments := memory.NewMemorySegmentManager()
	segments.Add()
	segments.Add()

	prime := felt.FromDecString("-1") // P - 1
	overflowing := prime.Add(felt.FromUint64(2))

	ptr := memory.Relocatable{SegmentIndex: 1, Offset: 0}
	data := []memory.MaybeRelocatable{
		*memory.NewMaybeRelocatableFelt(felt.FromUint64(11)),
		*memory.NewMaybeRelocatableFelt(felt.FromUint64(12)),
		*memory.NewMaybeRelocatableFelt(overflowing),
	}

	end, err := segments.LoadData(ptr, data)
	if err != nil {
		t.Fatalf("load_data failed: %s", err)
	}
	if end != (memory.Relocatable{SegmentIndex: 1, Offset: 3}) {
		t.Errorf("expected end pointer 1:3, got %v", end)
	}

	third, err := segments.Memory.Get(memory.Relocatable{SegmentIndex: 1, Offset: 2})
	if err != nil {
		t.Fatalf("get failed: %s", err)
	}
	expected := felt.FromUint64(1)
	gotFelt, _ := third.GetFelt()
	if !gotFelt.Equal(expected) {
		t.Errorf("expected reduced value 1, got %v", gotFelt)
	}
}
