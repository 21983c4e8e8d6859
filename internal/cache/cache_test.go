package cache

import (
	"errors"
	"testing"
	"time"
)

// fakeClock 可手动拨动的时钟
type fakeClock struct {
	current time.Time
}

func (f *fakeClock) now() time.Time {
	return f.current
}

func (f *fakeClock) advance(d time.Duration) {
	f.current = f.current.Add(d)
}

func TestCacheExpiry(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	c := NewWithClock(20*time.Second, clock.now)

	c.Set("key", "value")

	// TTL 内命中
	got, ok := c.Get("key")
	if !ok || got != "value" {
		t.Errorf("Expected cache hit with 'value', got %v, %v", got, ok)
	}

	clock.advance(19 * time.Second)
	if _, ok := c.Get("key"); !ok {
		t.Error("Expected hit just before TTL")
	}

	// 过了 TTL 应失效
	clock.advance(2 * time.Second)
	if _, ok := c.Get("key"); ok {
		t.Error("Expected miss after TTL")
	}
}

func TestGetOrComputeServesStale(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	c := NewWithClock(20*time.Second, clock.now)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	// 首次计算
	got, err := c.GetOrCompute("feed", compute)
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if got != 1 {
		t.Errorf("Expected first computation, got %v", got)
	}

	// TTL 内不重算,数据源变了也感知不到
	got, err = c.GetOrCompute("feed", compute)
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if got != 1 || calls != 1 {
		t.Errorf("Expected stale value within TTL, got %v after %d calls", got, calls)
	}

	// TTL 过后重算
	clock.advance(21 * time.Second)
	got, err = c.GetOrCompute("feed", compute)
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if got != 2 || calls != 2 {
		t.Errorf("Expected recomputation after TTL, got %v after %d calls", got, calls)
	}
}

func TestGetOrComputeError(t *testing.T) {
	c := New(20 * time.Second)

	wantErr := errors.New("boom")
	_, err := c.GetOrCompute("feed", func() (interface{}, error) {
		return nil, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("Expected compute error to propagate, got %v", err)
	}

	// 失败结果不缓存,下一次重新计算
	got, err := c.GetOrCompute("feed", func() (interface{}, error) {
		return "ok", nil
	})
	if err != nil || got != "ok" {
		t.Errorf("Expected fresh computation after error, got %v, %v", got, err)
	}
}

func TestClearForcesRecompute(t *testing.T) {
	c := New(time.Hour)

	calls := 0
	compute := func() (interface{}, error) {
		calls++
		return calls, nil
	}

	if _, err := c.GetOrCompute("feed", compute); err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if _, err := c.GetOrCompute("feed", compute); err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if calls != 1 {
		t.Fatalf("Expected 1 computation before clear, got %d", calls)
	}

	// 清空后立即重算,不等 TTL
	c.Clear()
	got, err := c.GetOrCompute("feed", compute)
	if err != nil {
		t.Fatalf("GetOrCompute failed: %v", err)
	}
	if got != 2 || calls != 2 {
		t.Errorf("Expected recomputation after clear, got %v after %d calls", got, calls)
	}
}

func TestDelete(t *testing.T) {
	c := New(time.Hour)

	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")

	if _, ok := c.Get("a"); ok {
		t.Error("Expected 'a' to be deleted")
	}
	if _, ok := c.Get("b"); !ok {
		t.Error("Expected 'b' to survive")
	}
}
