package replay

import (
	"sort"

	"github.com/rickgao/market-replay/internal/model"
)

// taskQueue is the ordered buffer of pending records for the current
// date. Records are appended per subscription during a date advance, then
// the pending region is stable-sorted by market time so that records with
// equal timestamps keep the order their subscriptions were loaded in.
//
// Consumed records are skipped with a head index rather than resliced;
// the backing array is compacted once the consumed region dominates.
type taskQueue struct {
	items []model.Record
	head  int
}

// push appends records to the pending region, unsorted.
func (q *taskQueue) push(recs []model.Record) {
	q.items = append(q.items, recs...)
}

// sortPending stable-sorts the not-yet-consumed records by market time.
func (q *taskQueue) sortPending() {
	pending := q.items[q.head:]
	sort.SliceStable(pending, func(i, j int) bool {
		return pending[i].MarketTime() < pending[j].MarketTime()
	})
}

// pop removes and returns the earliest pending record.
func (q *taskQueue) pop() (model.Record, bool) {
	if q.head >= len(q.items) {
		return nil, false
	}
	rec := q.items[q.head]
	q.items[q.head] = nil
	q.head++

	if q.head > 1024 && q.head*2 >= len(q.items) {
		q.compact()
	}
	return rec, true
}

// len returns the number of pending records.
func (q *taskQueue) len() int {
	return len(q.items) - q.head
}

// clear drops all records, consumed and pending.
func (q *taskQueue) clear() {
	q.items = nil
	q.head = 0
}

func (q *taskQueue) compact() {
	n := copy(q.items, q.items[q.head:])
	for i := n; i < len(q.items); i++ {
		q.items[i] = nil
	}
	q.items = q.items[:n]
	q.head = 0
}
