package keymutex

import (
	"sync"
	"testing"
)

func TestLockUnlock(t *testing.T) {
	km := New()
	km.Lock("a")
	km.Unlock("a")

	if len(km.entries) != 0 {
		t.Errorf("expected entries to be cleaned up, got %d", len(km.entries))
	}
}

func TestSerializesSameKey(t *testing.T) {
	km := New()
	counter := 0

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			km.Lock("product-1")
			counter++
			km.Unlock("product-1")
		}()
	}
	wg.Wait()

	if counter != 100 {
		t.Errorf("counter = %d, want 100", counter)
	}
	if len(km.entries) != 0 {
		t.Errorf("expected entries to be cleaned up, got %d", len(km.entries))
	}
}

func TestIndependentKeys(t *testing.T) {
	km := New()
	km.Lock("a")

	done := make(chan struct{})
	go func() {
		// Must not block on a different key
		km.Lock("b")
		km.Unlock("b")
		close(done)
	}()

	<-done
	km.Unlock("a")
}

func TestUnlockWithoutLockPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on unlock of unlocked key")
		}
	}()

	New().Unlock("nope")
}
