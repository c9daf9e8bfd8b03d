package statebag

import "github.com/handlebridge/bridge/pkg/engine"

// State reads and writes keys of one bag.
type State struct {
	natives engine.StateBagNatives
	bag     string
}

// NewState returns an accessor for bag.
func NewState(natives engine.StateBagNatives, bag string) *State {
	return &State{natives: natives, bag: bag}
}

// Bag returns the bag name.
func (s *State) Bag() string {
	return s.bag
}

// Get returns the value of key.
func (s *State) Get(key string) (any, bool) {
	return s.natives.StateBagValue(s.bag, key)
}

// Set stores value under key. Replicated values are sent to other participants.
func (s *State) Set(key string, value any, replicated bool) {
	s.natives.SetStateBagValue(s.bag, key, value, replicated)
}
