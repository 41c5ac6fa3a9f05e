package handle

import (
	"testing"

	"github.com/olofson/audiality2-sub001/pkg/a2err"
)

const typeTest TypeCode = 1

func TestNewGrabRelease(t *testing.T) {
	m := New()
	h, err := m.New(typeTest, "payload")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := m.Grab(h)
	if err != nil {
		t.Fatalf("Grab: %v", err)
	}
	if got != "payload" {
		t.Fatalf("Grab returned %v, want payload", got)
	}
	if err := m.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if _, err := m.Grab(h); a2err.CodeOf(err) != a2err.FreeHandle {
		t.Fatalf("Grab after release: got %v, want FreeHandle", err)
	}
}

func TestReleaseReuse(t *testing.T) {
	m := New()
	h, _ := m.New(typeTest, "a")
	if err := m.Release(h); err != nil {
		t.Fatalf("Release: %v", err)
	}
	h2, err := m.New(typeTest, "b")
	if err != nil {
		t.Fatalf("New after release: %v", err)
	}
	if h2 != h {
		t.Fatalf("expected freed handle %d to be reissued, got %d", h, h2)
	}
}

func TestRetainRequiresMultipleReleases(t *testing.T) {
	m := New()
	h, _ := m.New(typeTest, "x")
	if _, err := m.Retain(h); err != nil {
		t.Fatalf("Retain: %v", err)
	}
	if err := m.Release(h); err != nil {
		t.Fatalf("first Release: %v", err)
	}
	// Still referenced once more: must still be locatable.
	if _, err := m.Grab(h); err != nil {
		t.Fatalf("handle freed too early: %v", err)
	}
	if err := m.Release(h); err != nil {
		t.Fatalf("second Release: %v", err)
	}
	if _, err := m.Grab(h); a2err.CodeOf(err) != a2err.FreeHandle {
		t.Fatalf("expected FreeHandle after final release, got %v", err)
	}
}

func TestDestructorRefuseKeepsHandleAlive(t *testing.T) {
	m := New()
	refused := false
	m.RegisterType(typeTest, func(data interface{}) Disposition {
		if !refused {
			refused = true
			return DispositionRefuse
		}
		return DispositionOK
	})
	h, _ := m.New(typeTest, "sticky")
	if err := m.Release(h); err != nil {
		t.Fatalf("Release (refused): %v", err)
	}
	if _, err := m.Grab(h); err != nil {
		t.Fatalf("handle should still be live after refuse: %v", err)
	}
	// The refusal left the refcount at 0 with the slot still live, so a
	// second release retries the destructor, which now accepts.
	if err := m.Release(h); err != nil {
		t.Fatalf("Release (accepted): %v", err)
	}
	if _, err := m.Grab(h); a2err.CodeOf(err) != a2err.FreeHandle {
		t.Fatalf("expected FreeHandle after accepted destructor, got %v", err)
	}
}

func TestInvalidHandle(t *testing.T) {
	m := New()
	if _, err := m.Grab(-1); a2err.CodeOf(err) != a2err.InvalidHandle {
		t.Fatalf("negative handle: got %v, want InvalidHandle", err)
	}
	if _, err := m.Grab(99999); a2err.CodeOf(err) != a2err.InvalidHandle {
		t.Fatalf("unallocated handle: got %v, want InvalidHandle", err)
	}
}

func TestCountTracksLiveHandles(t *testing.T) {
	m := New()
	if m.Count() != 0 {
		t.Fatalf("fresh manager count = %d, want 0", m.Count())
	}
	h1, _ := m.New(typeTest, "a")
	h2, _ := m.New(typeTest, "b")
	if m.Count() != 2 {
		t.Fatalf("count after two New = %d, want 2", m.Count())
	}
	m.Release(h1)
	m.Release(h2)
	if m.Count() != 0 {
		t.Fatalf("count after releasing both = %d, want 0", m.Count())
	}
}

func TestGrowsAcrossBlockBoundary(t *testing.T) {
	m := New()
	handles := make([]int32, BlockSize+10)
	for i := range handles {
		h, err := m.New(typeTest, i)
		if err != nil {
			t.Fatalf("New #%d: %v", i, err)
		}
		handles[i] = h
	}
	for i, h := range handles {
		got, err := m.Grab(h)
		if err != nil {
			t.Fatalf("Grab #%d: %v", i, err)
		}
		if got.(int) != i {
			t.Fatalf("Grab #%d = %v, want %d", i, got, i)
		}
	}
}
