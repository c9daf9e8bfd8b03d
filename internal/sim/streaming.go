package sim

type resource struct {
	remaining int
	loaded    bool
	requests  int
}

// BlockResource makes an animation dictionary never finish loading.
func (e *Engine) BlockResource(dict string) {
	e.blocked[dict] = true
}

// MarkModelValid registers a model hash as known to the engine.
func (e *Engine) MarkModelValid(hash uint32) {
	e.valid[hash] = true
}

// AnimDictRequests returns how many times dict was requested.
func (e *Engine) AnimDictRequests(dict string) int {
	if r, ok := e.animDicts[dict]; ok {
		return r.requests
	}
	return 0
}

func (e *Engine) progressLoads() {
	for name, r := range e.animDicts {
		if e.blocked[name] {
			continue
		}
		r.advance()
	}
	for _, r := range e.models {
		r.advance()
	}
}

func (r *resource) advance() {
	if r.loaded {
		return
	}
	r.remaining--
	if r.remaining <= 0 {
		r.loaded = true
	}
}

func (e *Engine) request(table map[string]*resource, name string) {
	r, ok := table[name]
	if !ok {
		r = &resource{remaining: e.loadDelay, loaded: e.loadDelay <= 0}
		table[name] = r
	}
	r.requests++
}

func (e *Engine) RequestAnimDict(dict string) {
	if e.blocked[dict] {
		if _, ok := e.animDicts[dict]; !ok {
			e.animDicts[dict] = &resource{}
		}
		e.animDicts[dict].requests++
		return
	}
	e.request(e.animDicts, dict)
}

func (e *Engine) HasAnimDictLoaded(dict string) bool {
	r, ok := e.animDicts[dict]
	return ok && r.loaded
}

func (e *Engine) RemoveAnimDict(dict string) {
	delete(e.animDicts, dict)
}

func (e *Engine) IsModelValid(hash uint32) bool {
	return e.valid[hash]
}

func (e *Engine) RequestModel(hash uint32) {
	if !e.valid[hash] {
		return
	}
	r, ok := e.models[hash]
	if !ok {
		r = &resource{remaining: e.loadDelay, loaded: e.loadDelay <= 0}
		e.models[hash] = r
	}
	r.requests++
}

func (e *Engine) HasModelLoaded(hash uint32) bool {
	r, ok := e.models[hash]
	return ok && r.loaded
}

func (e *Engine) SetModelAsNoLongerNeeded(hash uint32) {
	delete(e.models, hash)
}
