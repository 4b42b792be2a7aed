package utils

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestStringSetNoDuplicates(t *testing.T) {
	s := NewStringSet()

	if !s.Add("https://www.olx.pl/d/oferta/1") {
		t.Error("first Add should return true")
	}
	if s.Add("https://www.olx.pl/d/oferta/1") {
		t.Error("second Add of same link should return false")
	}
	if !s.Contains("https://www.olx.pl/d/oferta/1") {
		t.Error("Contains should report an added link")
	}
	if s.Size() != 1 {
		t.Errorf("size: got %d, want 1", s.Size())
	}
}

func TestStringSetConcurrency(t *testing.T) {
	s := NewStringSet()
	var added int64

	pool := NewWorkerPool(10)
	for i := 0; i < 100; i++ {
		pool.Submit(func() error {
			if s.Add("same") {
				atomic.AddInt64(&added, 1)
			}
			return nil
		})
	}
	if err := pool.Wait(); err != nil {
		t.Fatalf("Wait: %v", err)
	}

	if added != 1 {
		t.Errorf("expected exactly 1 successful add, got %d", added)
	}
}

func TestWorkerPoolCollectsErrors(t *testing.T) {
	errA := errors.New("plot failed")
	errB := errors.New("csv failed")

	pool := NewWorkerPool(2)
	pool.Submit(func() error { return errA })
	pool.Submit(func() error { return nil })
	pool.Submit(func() error { return errB })

	err := pool.Wait()
	if !errors.Is(err, errA) || !errors.Is(err, errB) {
		t.Errorf("Wait: got %v, want both job errors", err)
	}
}

func TestWorkerPoolBoundsConcurrency(t *testing.T) {
	const limit = 2
	var running, peak int64

	pool := NewWorkerPool(limit)
	for i := 0; i < 8; i++ {
		pool.Submit(func() error {
			n := atomic.AddInt64(&running, 1)
			for {
				p := atomic.LoadInt64(&peak)
				if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
					break
				}
			}
			time.Sleep(10 * time.Millisecond)
			atomic.AddInt64(&running, -1)
			return nil
		})
	}
	_ = pool.Wait()

	if peak > limit {
		t.Errorf("peak concurrency: got %d, want <= %d", peak, limit)
	}
}
