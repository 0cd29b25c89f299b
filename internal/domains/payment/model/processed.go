package model

import "sync"

// ProcessedEvents remembers recently handled webhook event ids.
// When full, the oldest evict ids are forgotten.
type ProcessedEvents struct {
	mu       sync.Mutex
	done     map[string]struct{}
	inFlight map[string]struct{}
	order    []string
	capacity int
	evict    int
}

func NewProcessedEvents(capacity, evict int) *ProcessedEvents {
	if capacity <= 0 {
		capacity = 10000
	}

	if evict <= 0 || evict > capacity {
		evict = max(capacity/10, 1)
	}

	return &ProcessedEvents{
		done:     make(map[string]struct{}, capacity),
		inFlight: make(map[string]struct{}),
		order:    make([]string, 0, capacity),
		capacity: capacity,
		evict:    evict,
	}
}

// Claim is the outcome of Begin.
type Claim int

const (
	ClaimNew Claim = iota
	ClaimDone
	ClaimInFlight
)

// Begin claims id for processing. Only ClaimNew hands the event to the caller.
func (p *ProcessedEvents) Begin(id string) Claim {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.done[id]; ok {
		return ClaimDone
	}

	if _, ok := p.inFlight[id]; ok {
		return ClaimInFlight
	}

	p.inFlight[id] = struct{}{}

	return ClaimNew
}

// Done records id as handled.
func (p *ProcessedEvents) Done(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.inFlight, id)

	if _, ok := p.done[id]; ok {
		return
	}

	if len(p.order) >= p.capacity {
		for _, old := range p.order[:p.evict] {
			delete(p.done, old)
		}

		p.order = append(p.order[:0], p.order[p.evict:]...)
	}

	p.done[id] = struct{}{}
	p.order = append(p.order, id)
}

// Abort releases a claim so a retried delivery can be processed.
func (p *ProcessedEvents) Abort(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	delete(p.inFlight, id)
}

func (p *ProcessedEvents) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return len(p.done)
}
