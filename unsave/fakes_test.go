package unsave

import (
	"context"
	"errors"
	"sync"
	"time"
)

type fakePost struct {
	id        string
	label     string
	labelErr  error
	toggleErr error
	panicMsg  string
	toggles   int
}

func savedPost(id string) *fakePost   { return &fakePost{id: id, label: DefaultSavedLabel} }
func unsavedPost(id string) *fakePost { return &fakePost{id: id, label: DefaultUnsavedLabel} }

func (p *fakePost) ID() string { return p.id }

func (p *fakePost) SavedLabel(ctx context.Context) (string, error) {
	if p.panicMsg != "" {
		panic(p.panicMsg)
	}
	return p.label, p.labelErr
}

func (p *fakePost) Toggle(ctx context.Context) error {
	p.toggles++
	if p.toggleErr != nil {
		return p.toggleErr
	}
	if p.label == DefaultSavedLabel {
		p.label = DefaultUnsavedLabel
	} else {
		p.label = DefaultSavedLabel
	}
	return nil
}

// fakeFeed 每次 RenderedNodes 返回 cycles 中的下一项，用完后重复最后一项
type fakeFeed struct {
	cycles  [][]Node
	extents []int
	loadErr map[int]error

	loads       int
	measures    int
	requestMore int
}

func (f *fakeFeed) RenderedNodes(ctx context.Context) ([]Node, error) {
	idx := f.loads
	f.loads++
	if err, ok := f.loadErr[idx]; ok {
		return nil, err
	}
	if len(f.cycles) == 0 {
		return nil, nil
	}
	if idx >= len(f.cycles) {
		idx = len(f.cycles) - 1
	}
	return f.cycles[idx], nil
}

func (f *fakeFeed) Extent(ctx context.Context) (int, error) {
	idx := f.measures
	f.measures++
	if len(f.extents) == 0 {
		return 0, nil
	}
	if idx >= len(f.extents) {
		idx = len(f.extents) - 1
	}
	return f.extents[idx], nil
}

func (f *fakeFeed) RequestMore(ctx context.Context) error {
	f.requestMore++
	return nil
}

type recordingSleeper struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *recordingSleeper) Sleep(ctx context.Context, d time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.waits = append(s.waits, d)
	return ctx.Err()
}

func (s *recordingSleeper) count(d time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, w := range s.waits {
		if w == d {
			n++
		}
	}
	return n
}

type countingObserver struct {
	outcomes map[OutcomeKind]int
	batches  []int
	extents  []int
}

func newCountingObserver() *countingObserver {
	return &countingObserver{outcomes: make(map[OutcomeKind]int)}
}

func (o *countingObserver) ObserveOutcome(outcome ActionOutcome) { o.outcomes[outcome.Kind]++ }
func (o *countingObserver) ObserveBatch(size int)                { o.batches = append(o.batches, size) }
func (o *countingObserver) ObserveExtent(extent int)             { o.extents = append(o.extents, extent) }

var errFeedRootMissing = errors.New("feed root missing")

// testPolicy 使用固定且互不相同的时长，便于区分每类等待
func testPolicy() Policy {
	p := DefaultPolicy()
	p.ActionDelayMin = 11 * time.Millisecond
	p.ActionDelayMax = 11 * time.Millisecond
	p.SettleDelay = 22 * time.Millisecond
	p.CycleDelayMin = 33 * time.Millisecond
	p.CycleDelayMax = 33 * time.Millisecond
	return p
}
