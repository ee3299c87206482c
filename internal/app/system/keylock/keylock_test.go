package keylock

import (
	"sync"
	"testing"
	"time"
)

func TestLock_SerializesSameKey(t *testing.T) {
	k := New()

	counter := 0
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release := k.Lock("chess")
			defer release()
			counter++
		}()
	}
	wg.Wait()

	if counter != 50 {
		t.Errorf("counter = %d, want 50", counter)
	}
}

func TestLock_DistinctKeysDoNotBlock(t *testing.T) {
	k := New()

	release := k.Lock("chess")
	defer release()

	done := make(chan struct{})
	go func() {
		r := k.Lock("robotics")
		r()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("lock on a distinct key blocked")
	}
}

func TestLock_OverlappingKeySetsNoDeadlock(t *testing.T) {
	k := New()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			release := k.Lock("chess", "s1@x")
			release()
		}()
		go func() {
			defer wg.Done()
			release := k.Lock("s1@x", "chess")
			release()
		}()
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("overlapping key sets deadlocked")
	}
}

func TestLock_IgnoresEmptyAndDuplicateKeys(t *testing.T) {
	k := New()

	release := k.Lock("", "chess", "chess", "")
	release()

	// Re-acquiring after release must succeed.
	release = k.Lock("chess")
	release()
}
