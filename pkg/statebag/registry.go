// Package statebag tracks state bag change subscriptions. Every subscription
// is keyed by the cookie the engine issued for it and indexed by scope, so a
// scope can be torn down without touching any other.
package statebag

import (
	"context"
	"fmt"
	"cmp"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/handlebridge/bridge/pkg/engine"
)

// Scope prefixes used by the engine to name state bags.
const (
	EntityPrefix      = "entity:"
	LocalEntityPrefix = "localEntity:"
	PlayerPrefix      = "player:"
)

// EntityScope names the bag of a networked entity.
func EntityScope(id engine.NetworkID) string {
	return EntityPrefix + strconv.Itoa(int(id))
}

// LocalEntityScope names the bag of a non-networked entity.
func LocalEntityScope(h engine.Handle) string {
	return LocalEntityPrefix + strconv.Itoa(int(h))
}

// PlayerScope names the bag of a player.
func PlayerScope(id engine.ServerID) string {
	return PlayerPrefix + strconv.Itoa(int(id))
}

// Change is one delivered state bag change.
type Change struct {
	Scope      string
	Bag        string
	Key        string
	Value      any
	Replicated bool
}

// Handler receives state bag changes.
type Handler func(Change)

// Journal receives every change delivered to a subscriber.
type Journal interface {
	StateChanged(c Change)
}

type subscription struct {
	cookie engine.Cookie
	scope  string
	filter *string
	seq    uint64
}

// Registry owns all live subscriptions. It is not safe for concurrent use;
// it runs on the engine's script thread.
type Registry struct {
	natives engine.StateBagNatives
	logger  *slog.Logger
	journal Journal

	subs    map[engine.Cookie]*subscription
	byScope map[string]map[engine.Cookie]*subscription
	seq     uint64

	active    metric.Int64UpDownCounter
	delivered metric.Int64Counter
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = l
	}
}

// WithJournal records every delivered change to j.
func WithJournal(j Journal) Option {
	return func(r *Registry) {
		r.journal = j
	}
}

// NewRegistry creates a Registry on top of the engine's state bag natives.
// Uses the global OTel meter for metrics (no-op if not configured).
func NewRegistry(natives engine.StateBagNatives, opts ...Option) (*Registry, error) {
	r := &Registry{
		natives: natives,
		logger:  slog.Default(),
		subs:    make(map[engine.Cookie]*subscription),
		byScope: make(map[string]map[engine.Cookie]*subscription),
	}
	for _, opt := range opts {
		opt(r)
	}

	m := meter()

	var err error
	r.active, err = m.Int64UpDownCounter(
		"statebag.subscriptions.active",
		metric.WithDescription("Number of live state bag subscriptions"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating active subscriptions counter: %w", err)
	}

	r.delivered, err = m.Int64Counter(
		"statebag.changes.delivered",
		metric.WithDescription("Total state bag changes delivered to handlers"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating delivered counter: %w", err)
	}

	return r, nil
}

// Subscribe registers h for changes in scope. A nil filter matches every key.
func (r *Registry) Subscribe(scope string, filter *string, h Handler) engine.Cookie {
	scopeAttr := metric.WithAttributes(attribute.String("scope", scopeKind(scope)))

	wrapped := func(bagName, key string, value any, replicated bool) {
		c := Change{Scope: scope, Bag: bagName, Key: key, Value: value, Replicated: replicated}
		r.delivered.Add(context.Background(), 1, scopeAttr)
		if r.journal != nil {
			r.journal.StateChanged(c)
		}
		h(c)
	}

	cookie := r.natives.AddStateBagChangeHandler(filter, scope, wrapped)
	r.seq++
	sub := &subscription{cookie: cookie, scope: scope, filter: filter, seq: r.seq}
	r.subs[cookie] = sub
	set, ok := r.byScope[scope]
	if !ok {
		set = make(map[engine.Cookie]*subscription)
		r.byScope[scope] = set
	}
	set[cookie] = sub
	r.active.Add(context.Background(), 1, scopeAttr)

	r.logger.Debug("subscribed to state bag", "scope", scope, "cookie", cookie)
	return cookie
}

// Unsubscribe removes the subscription for c. Unknown or already removed
// cookies are ignored; it reports whether anything was removed.
func (r *Registry) Unsubscribe(c engine.Cookie) bool {
	sub, ok := r.subs[c]
	if !ok {
		return false
	}
	delete(r.subs, c)
	if set := r.byScope[sub.scope]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(r.byScope, sub.scope)
		}
	}

	r.natives.RemoveStateBagChangeHandler(c)
	r.active.Add(context.Background(), -1, metric.WithAttributes(attribute.String("scope", scopeKind(sub.scope))))
	return true
}

// UnsubscribeAll removes every subscription in scope and returns how many
// were removed. Other scopes are untouched.
func (r *Registry) UnsubscribeAll(scope string) int {
	cookies := r.Cookies(scope)
	delete(r.byScope, scope)

	for _, c := range cookies {
		delete(r.subs, c)
		r.natives.RemoveStateBagChangeHandler(c)
	}
	if n := len(cookies); n > 0 {
		r.active.Add(context.Background(), -int64(n), metric.WithAttributes(attribute.String("scope", scopeKind(scope))))
		r.logger.Debug("removed scope subscriptions", "scope", scope, "count", n)
	}
	return len(cookies)
}

// Scope returns the scope c was subscribed under.
func (r *Registry) Scope(c engine.Cookie) (string, bool) {
	sub, ok := r.subs[c]
	if !ok {
		return "", false
	}
	return sub.scope, true
}

// Count returns the number of live subscriptions.
func (r *Registry) Count() int {
	return len(r.subs)
}

// ScopeCount returns the number of live subscriptions in scope.
func (r *Registry) ScopeCount(scope string) int {
	return len(r.byScope[scope])
}

// Cookies returns the cookies of scope in subscription order.
func (r *Registry) Cookies(scope string) []engine.Cookie {
	set := r.byScope[scope]
	if len(set) == 0 {
		return nil
	}
	subs := make([]*subscription, 0, len(set))
	for _, sub := range set {
		subs = append(subs, sub)
	}
	slices.SortFunc(subs, func(a, b *subscription) int { return cmp.Compare(a.seq, b.seq) })

	out := make([]engine.Cookie, len(subs))
	for i, sub := range subs {
		out[i] = sub.cookie
	}
	return out
}

func scopeKind(scope string) string {
	for _, p := range []string{EntityPrefix, LocalEntityPrefix, PlayerPrefix} {
		if strings.HasPrefix(scope, p) {
			return strings.TrimSuffix(p, ":")
		}
	}
	return "other"
}
