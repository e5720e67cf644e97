package watch

// Pending is the working file set collected between batches, in arrival
// order.
type Pending struct {
	order []string
	set   map[string]bool
}

// NewPending returns an empty set.
func NewPending() *Pending {
	return &Pending{set: make(map[string]bool)}
}

// Add queues path and reports whether it was new.
func (p *Pending) Add(path string) bool {
	if p.set[path] {
		return false
	}
	p.set[path] = true
	p.order = append(p.order, path)
	return true
}

// Remove drops path if queued.
func (p *Pending) Remove(path string) {
	if !p.set[path] {
		return
	}
	delete(p.set, path)
	for i, q := range p.order {
		if q == path {
			p.order = append(p.order[:i], p.order[i+1:]...)
			break
		}
	}
}

// Paths returns a copy of the queued paths.
func (p *Pending) Paths() []string {
	return append([]string(nil), p.order...)
}

func (p *Pending) Len() int { return len(p.order) }

// Clear empties the set.
func (p *Pending) Clear() {
	p.order = nil
	p.set = make(map[string]bool)
}
