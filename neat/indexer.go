package neat

import "sync/atomic"

// GenomeIndexer issues process-unique genome ids.
// It is safe for concurrent use.
type GenomeIndexer struct {
	last atomic.Int64
}

// NewGenomeIndexer returns an indexer whose first id is next.
func NewGenomeIndexer(next int) *GenomeIndexer {
	idx := &GenomeIndexer{}
	idx.last.Store(int64(next - 1))
	return idx
}

// Next returns a fresh genome id.
func (idx *GenomeIndexer) Next() int {
	return int(idx.last.Add(1))
}

// Peek returns the id the next call to Next will return.
func (idx *GenomeIndexer) Peek() int {
	return int(idx.last.Load() + 1)
}
