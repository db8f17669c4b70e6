package event

import (
	"net/netip"
	"testing"
)

func TestBusEmitsInRegistrationOrder(t *testing.T) {
	bus := NewBus()

	var order []int
	for i := 0; i < 3; i++ {
		i := i
		bus.Subscribe(func(Event) {
			order = append(order, i)
		})
	}

	bus.Emit(Connected{Address: netip.MustParseAddr("10.0.0.5")})

	if len(order) != 3 {
		t.Fatalf("got %d listener invocations, want 3", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Errorf("invocation %d was listener %d, want %d", i, got, i)
		}
	}
}

func TestBusEmitIsSynchronous(t *testing.T) {
	bus := NewBus()

	delivered := false
	bus.Subscribe(func(e Event) {
		if _, ok := e.(Disconnected); ok {
			delivered = true
		}
	})

	bus.Emit(Disconnected{})

	// No synchronization needed: Emit must return only after all
	// listeners ran.
	if !delivered {
		t.Error("listener not invoked before Emit returned")
	}
}

func TestBusPreservesEventOrder(t *testing.T) {
	bus := NewBus()

	var seen []Event
	bus.Subscribe(func(e Event) {
		seen = append(seen, e)
	})

	addr := netip.MustParseAddr("10.0.0.5")
	bus.Emit(Connected{Address: addr})
	bus.Emit(Disconnected{})

	if len(seen) != 2 {
		t.Fatalf("got %d events, want 2", len(seen))
	}
	if _, ok := seen[0].(Connected); !ok {
		t.Errorf("first event = %T, want Connected", seen[0])
	}
	if _, ok := seen[1].(Disconnected); !ok {
		t.Errorf("second event = %T, want Disconnected", seen[1])
	}
}

func TestBusSubscribeDuringEmitDoesNotReceive(t *testing.T) {
	bus := NewBus()

	lateCalled := false
	bus.Subscribe(func(Event) {
		bus.Subscribe(func(Event) {
			lateCalled = true
		})
	})

	bus.Emit(Disconnected{})
	if lateCalled {
		t.Error("listener registered during Emit received the in-flight event")
	}
}
