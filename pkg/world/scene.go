package world

import (
	"errors"

	"github.com/handlebridge/bridge/pkg/engine"
)

// ErrSceneStarted is returned when participants are added to a running scene.
var ErrSceneStarted = errors.New("scene already started")

// Participant is an entity that can take part in a scene.
type Participant interface {
	Handle() engine.Handle
}

// NetworkedScene is a synchronised scene replicated to every client.
type NetworkedScene struct {
	id      engine.SceneID
	natives engine.SceneNatives
	running bool
}

// NewNetworkedScene creates the scene in the engine.
func NewNetworkedScene(natives engine.SceneNatives, spec engine.SceneSpec) *NetworkedScene {
	return &NetworkedScene{
		id:      natives.CreateSynchronisedScene(spec),
		natives: natives,
	}
}

func (s *NetworkedScene) ID() engine.SceneID {
	return s.id
}

// AddPed adds ped with its animation to the scene.
func (s *NetworkedScene) AddPed(ped Participant, p engine.ScenePed) error {
	if s.running {
		return ErrSceneStarted
	}
	s.natives.AddPedToSynchronisedScene(ped.Handle(), s.id, p)
	return nil
}

// AddEntity adds a non-ped entity with its animation to the scene.
func (s *NetworkedScene) AddEntity(e Participant, se engine.SceneEntity) error {
	if s.running {
		return ErrSceneStarted
	}
	s.natives.AddEntityToSynchronisedScene(e.Handle(), s.id, se)
	return nil
}

func (s *NetworkedScene) Start() {
	s.natives.StartSynchronisedScene(s.id)
	s.running = true
}

func (s *NetworkedScene) Stop() {
	s.natives.StopSynchronisedScene(s.id)
	s.running = false
}

func (s *NetworkedScene) IsRunning() bool {
	return s.running
}
