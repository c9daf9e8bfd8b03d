package statebag

import "github.com/handlebridge/bridge/pkg/engine"

// Listeners is the set of subscriptions one owner (an entity or a player)
// created. The scope is resolved on every Add because an entity's bag name
// changes once it becomes networked.
type Listeners struct {
	registry *Registry
	scope    func() string
	cookies  map[engine.Cookie]struct{}
}

// NewListeners creates an empty owner set.
func NewListeners(r *Registry, scope func() string) *Listeners {
	return &Listeners{registry: r, scope: scope, cookies: make(map[engine.Cookie]struct{})}
}

// Add subscribes h to the owner's bag. A nil key matches every key.
func (l *Listeners) Add(key *string, h Handler) engine.Cookie {
	c := l.registry.Subscribe(l.scope(), key, h)
	l.cookies[c] = struct{}{}
	return c
}

// Listen is Add with a plain key; an empty key matches every key.
func (l *Listeners) Listen(key string, h Handler) engine.Cookie {
	if key == "" {
		return l.Add(nil, h)
	}
	return l.Add(&key, h)
}

// Remove drops one of the owner's subscriptions. Cookies the owner did not
// create are left alone.
func (l *Listeners) Remove(c engine.Cookie) bool {
	if _, own := l.cookies[c]; !own {
		return false
	}
	delete(l.cookies, c)
	return l.registry.Unsubscribe(c)
}

// RemoveAll drops every subscription the owner created and returns how many
// were still live.
func (l *Listeners) RemoveAll() int {
	n := 0
	for c := range l.cookies {
		if l.registry.Unsubscribe(c) {
			n++
		}
	}
	clear(l.cookies)
	return n
}

// Len returns the number of cookies the owner holds.
func (l *Listeners) Len() int {
	return len(l.cookies)
}

// Scope returns the owner's current bag name.
func (l *Listeners) Scope() string {
	return l.scope()
}
