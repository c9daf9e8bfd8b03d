package sim

import (
	"fmt"

	"github.com/vmihailenco/msgpack"

	"github.com/handlebridge/bridge/pkg/engine"
)

type eventKey struct {
	name      string
	networked bool
}

func (e *Engine) AddEventHandler(name string, networked bool, h engine.EventHandler) {
	k := eventKey{name: name, networked: networked}
	e.events[k] = append(e.events[k], h)
}

// TriggerEvent emits a local event. Local handlers see source 0.
func (e *Engine) TriggerEvent(name string, args ...any) error {
	return e.Emit(name, false, 0, args...)
}

// Emit encodes args as a msgpack array and delivers it to the handlers bound
// for (name, networked).
func (e *Engine) Emit(name string, networked bool, source engine.ServerID, args ...any) error {
	if args == nil {
		args = []any{}
	}
	payload, err := msgpack.Marshal(args)
	if err != nil {
		return fmt.Errorf("failed to encode event %s: %w", name, err)
	}
	e.deliver(eventKey{name: name, networked: networked}, source, payload)
	return nil
}

// EmitRaw delivers an already encoded payload.
func (e *Engine) EmitRaw(name string, networked bool, source engine.ServerID, payload []byte) {
	e.deliver(eventKey{name: name, networked: networked}, source, payload)
}

func (e *Engine) deliver(k eventKey, source engine.ServerID, payload []byte) {
	handlers := append([]engine.EventHandler(nil), e.events[k]...)
	for _, h := range handlers {
		h(source, payload)
	}
}

// EventHandlerCount returns how many engine handlers are bound for name.
func (e *Engine) EventHandlerCount(name string, networked bool) int {
	return len(e.events[eventKey{name: name, networked: networked}])
}
