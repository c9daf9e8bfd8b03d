package sim

import (
	"github.com/handlebridge/bridge/pkg/engine"
)

type stateHandler struct {
	cookie  engine.Cookie
	bag     string
	filter  *string
	handler engine.StateBagChangeHandler
}

func (s *stateHandler) matches(bag, key string) bool {
	if s.bag != "" && s.bag != bag {
		return false
	}
	return s.filter == nil || *s.filter == key
}

func (e *Engine) AddStateBagChangeHandler(keyFilter *string, bagName string, h engine.StateBagChangeHandler) engine.Cookie {
	c := e.nextCookie
	e.nextCookie++
	var filter *string
	if keyFilter != nil {
		k := *keyFilter
		filter = &k
	}
	e.stateHandlers = append(e.stateHandlers, &stateHandler{
		cookie:  c,
		bag:     bagName,
		filter:  filter,
		handler: h,
	})
	return c
}

func (e *Engine) RemoveStateBagChangeHandler(c engine.Cookie) {
	e.removedCalls++
	for i, sh := range e.stateHandlers {
		if sh.cookie == c {
			e.stateHandlers = append(e.stateHandlers[:i:i], e.stateHandlers[i+1:]...)
			return
		}
	}
}

func (e *Engine) StateBagValue(bagName, key string) (any, bool) {
	bag, ok := e.bags[bagName]
	if !ok {
		return nil, false
	}
	v, ok := bag[key]
	return v, ok
}

// SetStateBagValue stores the value and notifies matching handlers in
// registration order. Handlers added or removed during delivery only affect
// later changes.
func (e *Engine) SetStateBagValue(bagName, key string, value any, replicated bool) {
	bag, ok := e.bags[bagName]
	if !ok {
		bag = make(map[string]any)
		e.bags[bagName] = bag
	}
	bag[key] = value

	snapshot := append([]*stateHandler(nil), e.stateHandlers...)
	for _, sh := range snapshot {
		if sh.matches(bagName, key) {
			sh.handler(bagName, key, value, replicated)
		}
	}
}

// StateHandlerCount returns how many change handlers are registered.
func (e *Engine) StateHandlerCount() int {
	return len(e.stateHandlers)
}

// RemoveCalls returns how many times RemoveStateBagChangeHandler was called.
func (e *Engine) RemoveCalls() int {
	return e.removedCalls
}
