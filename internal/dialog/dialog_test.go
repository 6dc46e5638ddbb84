package dialog

import "testing"

func TestManagerSetGetClear(t *testing.T) {
	m := NewManager()
	userA := int64(1)
	userB := int64(2)

	if m.Get(userA) != StateNone {
		t.Fatalf("fresh user should have no state")
	}

	m.Set(userA, StateAwaitingMeasurement)
	m.Set(userB, StateAwaitingBulkData)

	if m.Get(userA) != StateAwaitingMeasurement {
		t.Fatalf("unexpected state for A: %v", m.Get(userA))
	}
	if m.Get(userB) != StateAwaitingBulkData {
		t.Fatalf("unexpected state for B: %v", m.Get(userB))
	}

	m.Clear(userA)
	if m.Get(userA) != StateNone {
		t.Fatalf("clear did not reset user A")
	}
	if m.Get(userB) != StateAwaitingBulkData {
		t.Fatalf("clear should not affect other users")
	}
}
