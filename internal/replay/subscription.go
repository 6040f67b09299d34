package replay

import (
	"github.com/rickgao/market-replay/internal/model"
)

// Subscription is a (ticker, kind) pair the engine loads once per date.
type Subscription struct {
	Ticker string
	Kind   model.Kind
}

// Topic returns the subscription's registry key, "<ticker>.<kind>".
func (s Subscription) Topic() string {
	return s.Ticker + "." + string(s.Kind)
}

// registry holds the subscription set. Per-date loads iterate in
// registration order, so the order of first insertion is preserved;
// re-subscribing an existing topic keeps its original position.
type registry struct {
	subs  map[string]Subscription
	order []string
}

func newRegistry() *registry {
	return &registry{subs: make(map[string]Subscription)}
}

// add inserts or overwrites a subscription. Idempotent.
func (r *registry) add(sub Subscription) {
	topic := sub.Topic()
	if _, ok := r.subs[topic]; !ok {
		r.order = append(r.order, topic)
	}
	r.subs[topic] = sub
}

// remove deletes a subscription. No-op when absent.
func (r *registry) remove(sub Subscription) {
	topic := sub.Topic()
	if _, ok := r.subs[topic]; !ok {
		return
	}
	delete(r.subs, topic)
	for i, t := range r.order {
		if t == topic {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
}

// list returns subscriptions in registration order.
func (r *registry) list() []Subscription {
	out := make([]Subscription, 0, len(r.order))
	for _, topic := range r.order {
		out = append(out, r.subs[topic])
	}
	return out
}

func (r *registry) len() int {
	return len(r.order)
}
