package cache

import (
	"image"
	"testing"

	"github.com/nvalette/photodrift/internal/imgutil"
)

func testPhoto() *imgutil.Photo {
	return &imgutil.Photo{Image: image.NewNRGBA(image.Rect(0, 0, 1, 1))}
}

func TestCache_GetMiss(t *testing.T) {
	c := New(3)
	if c.Get(0) != nil {
		t.Error("Get() on empty cache should return nil")
	}
	if c.Contains(0) {
		t.Error("Contains() on empty cache should be false")
	}
}

func TestCache_PutGet(t *testing.T) {
	c := New(3)
	p := testPhoto()
	c.Put(2, p)

	if got := c.Get(2); got != p {
		t.Errorf("Get(2) = %v, want the stored photo", got)
	}
	if !c.Contains(2) {
		t.Error("Contains(2) should be true")
	}
}

func TestCache_NeverExceedsCapacity(t *testing.T) {
	c := New(3)
	c.SetCurrent(0)

	for i := range 50 {
		c.Put(i, testPhoto())
		if c.Len() > 3 {
			t.Fatalf("after Put(%d): Len() = %d, want <= 3", i, c.Len())
		}
	}
}

func TestCache_EvictsOldestNonCurrent(t *testing.T) {
	c := New(3)
	c.Put(1, testPhoto())
	c.Put(2, testPhoto())
	c.Put(3, testPhoto())
	c.SetCurrent(1)

	// Entry 1 is oldest but pinned; entry 2 must go.
	c.Put(4, testPhoto())

	if !c.Contains(1) {
		t.Error("pinned current entry was evicted")
	}
	if c.Contains(2) {
		t.Error("oldest non-current entry should have been evicted")
	}
	if !c.Contains(3) || !c.Contains(4) {
		t.Error("newer entries should survive")
	}
}

func TestCache_InsertionOrderTieBreak(t *testing.T) {
	c := New(2)
	c.SetCurrent(-1)

	// Same playback indices reinserted refresh their sequence number.
	c.Put(1, testPhoto())
	c.Put(2, testPhoto())
	c.Put(1, testPhoto()) // entry 1 is now newer than entry 2
	c.Put(3, testPhoto())

	if c.Contains(2) {
		t.Error("entry 2 is oldest by insertion sequence and should be evicted")
	}
	if !c.Contains(1) || !c.Contains(3) {
		t.Error("entries 1 and 3 should survive")
	}
}

func TestCache_DegeneratePinnedCase(t *testing.T) {
	c := New(1)
	c.Put(0, testPhoto())
	c.SetCurrent(0)

	// The only evictable candidate besides the new entry is the pinned
	// current one, so the cache may exceed capacity by exactly one.
	c.Put(1, testPhoto())

	if !c.Contains(0) {
		t.Error("pinned current entry was evicted")
	}
	if !c.Contains(1) {
		t.Error("new entry should be present")
	}
	if c.Len() != 2 {
		t.Errorf("Len() = %d, want 2 (capacity + pinned entry)", c.Len())
	}

	// The next insertion has an unpinned candidate again.
	c.Put(2, testPhoto())
	if c.Len() != 2 {
		t.Errorf("after recovery Put: Len() = %d, want 2", c.Len())
	}
	if c.Contains(1) {
		t.Error("entry 1 should be evicted once a non-pinned candidate exists")
	}
}

func TestCache_CurrentNeverEvictedWhileCurrent(t *testing.T) {
	c := New(3)
	c.Put(10, testPhoto())
	c.SetCurrent(10)

	for i := range 20 {
		c.Put(i, testPhoto())
		if !c.Contains(10) {
			t.Fatalf("current entry evicted after Put(%d)", i)
		}
	}
}
