package command

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"switchboard/internal/cascade"
)

// fakeAdapter resolves instantly and tracks how many resolutions overlap.
type fakeAdapter struct {
	kind Kind
	cand *cascade.Candidate
	err  error

	mu          sync.Mutex
	calls       int
	inFlight    int
	maxInFlight int
}

func (a *fakeAdapter) Kind() Kind { return a.kind }

func (a *fakeAdapter) Resolve(ctx context.Context, req Request) (*cascade.Candidate, error) {
	a.mu.Lock()
	a.calls++
	a.inFlight++
	if a.inFlight > a.maxInFlight {
		a.maxInFlight = a.inFlight
	}
	a.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	a.mu.Lock()
	a.inFlight--
	a.mu.Unlock()
	return a.cand, a.err
}

func TestDispatcher_Success(t *testing.T) {
	adapter := &fakeAdapter{
		kind: KindOpenTarget,
		cand: &cascade.Candidate{
			Locator: cascade.WindowLocator{ID: 2},
			Title:   "Смета финансы",
			Source:  cascade.SourceOpenInventory,
		},
	}
	d := NewDispatcher(cascade.NewFocus(), nil, adapter)

	res := d.Execute(context.Background(), Request{Kind: KindOpenTarget, Query: "смета"})
	require.True(t, res.OK, res.Error)
	assert.Equal(t, "open_inventory", res.Source)
	assert.Equal(t, "Смета финансы", res.Target)
}

func TestDispatcher_UnknownKind(t *testing.T) {
	d := NewDispatcher(cascade.NewFocus(), nil)

	res := d.Execute(context.Background(), Request{Kind: "reboot", Query: "x"})
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "unknown command kind")
}

func TestDispatcher_AdapterError(t *testing.T) {
	adapter := &fakeAdapter{
		kind: KindOpenTab,
		err:  fmt.Errorf("%w: browser not running", cascade.ErrHostUnreachable),
	}
	d := NewDispatcher(cascade.NewFocus(), nil, adapter)

	res := d.Execute(context.Background(), Request{Kind: KindOpenTab, Query: "budget"})
	assert.False(t, res.OK)
	assert.Contains(t, res.Error, "browser not running")
}

func TestDispatcher_SerializesCommands(t *testing.T) {
	adapter := &fakeAdapter{
		kind: KindOpenTarget,
		cand: &cascade.Candidate{Locator: cascade.WindowLocator{ID: 1}, Title: "x"},
	}
	d := NewDispatcher(cascade.NewFocus(), nil, adapter)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res := d.Execute(context.Background(), Request{Kind: KindOpenTarget, Query: "x"})
			assert.True(t, res.OK)
		}()
	}
	wg.Wait()

	assert.Equal(t, 8, adapter.calls)
	assert.Equal(t, 1, adapter.maxInFlight, "resolutions interleaved despite the focus token")
}
