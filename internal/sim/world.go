package sim

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

type sound struct {
	name     string
	set      string
	entity   engine.Handle
	pos      core.Vector3
	playing  bool
	released bool
}

// Scene is the recorded state of a synchronised scene.
type Scene struct {
	Spec     engine.SceneSpec
	Peds     map[engine.Handle]engine.ScenePed
	Entities map[engine.Handle]engine.SceneEntity
	Running  bool
}

type pickupState struct {
	pos       core.Vector3
	collected bool
}

// Audio

func (e *Engine) NewSoundID() engine.SoundID {
	id := e.nextSound
	e.nextSound++
	e.sounds[id] = &sound{}
	return id
}

func (e *Engine) play(id engine.SoundID, s *sound) {
	if _, ok := e.sounds[id]; !ok && id != -1 {
		return
	}
	s.playing = true
	if id == -1 {
		return
	}
	e.sounds[id] = s
}

func (e *Engine) PlaySoundFromCoord(id engine.SoundID, name string, pos core.Vector3, set string) {
	e.play(id, &sound{name: name, set: set, pos: pos})
}

func (e *Engine) PlaySoundFromEntity(id engine.SoundID, name string, h engine.Handle, set string) {
	e.play(id, &sound{name: name, set: set, entity: h})
}

func (e *Engine) PlaySoundFrontend(id engine.SoundID, name, set string) {
	e.play(id, &sound{name: name, set: set})
}

func (e *Engine) StopSound(id engine.SoundID) {
	if s, ok := e.sounds[id]; ok {
		s.playing = false
	}
}

func (e *Engine) ReleaseSoundID(id engine.SoundID) {
	if s, ok := e.sounds[id]; ok {
		s.released = true
		delete(e.sounds, id)
	}
}

func (e *Engine) HasSoundFinished(id engine.SoundID) bool {
	s, ok := e.sounds[id]
	return !ok || !s.playing
}

// SoundPlaying reports the name of the sound playing under id.
func (e *Engine) SoundPlaying(id engine.SoundID) (string, bool) {
	s, ok := e.sounds[id]
	if !ok || !s.playing {
		return "", false
	}
	return s.name, true
}

// SoundCount returns how many sound ids are allocated and not released.
func (e *Engine) SoundCount() int {
	return len(e.sounds)
}

func (e *Engine) SetAudioFlag(flag string, enabled bool) {
	e.audioFlags[flag] = enabled
}

// AudioFlag returns the last value set for flag.
func (e *Engine) AudioFlag(flag string) bool {
	return e.audioFlags[flag]
}

func (e *Engine) TriggerMusicEvent(name string) bool {
	e.music[name] = true
	e.musicLog = append(e.musicLog, "+"+name)
	return true
}

func (e *Engine) CancelMusicEvent(name string) bool {
	if !e.music[name] {
		return false
	}
	delete(e.music, name)
	e.musicLog = append(e.musicLog, "-"+name)
	return true
}

// MusicLog returns triggered (+name) and cancelled (-name) music events in order.
func (e *Engine) MusicLog() []string {
	return append([]string(nil), e.musicLog...)
}

// Scenes

func (e *Engine) CreateSynchronisedScene(spec engine.SceneSpec) engine.SceneID {
	id := e.nextScene
	e.nextScene++
	e.scenes[id] = &Scene{
		Spec:     spec,
		Peds:     make(map[engine.Handle]engine.ScenePed),
		Entities: make(map[engine.Handle]engine.SceneEntity),
	}
	return id
}

func (e *Engine) AddPedToSynchronisedScene(h engine.Handle, id engine.SceneID, p engine.ScenePed) {
	if s, ok := e.scenes[id]; ok {
		s.Peds[h] = p
	}
}

func (e *Engine) AddEntityToSynchronisedScene(h engine.Handle, id engine.SceneID, se engine.SceneEntity) {
	if s, ok := e.scenes[id]; ok {
		s.Entities[h] = se
	}
}

func (e *Engine) StartSynchronisedScene(id engine.SceneID) {
	if s, ok := e.scenes[id]; ok {
		s.Running = true
	}
}

func (e *Engine) StopSynchronisedScene(id engine.SceneID) {
	if s, ok := e.scenes[id]; ok {
		s.Running = false
	}
}

// Scene returns the recorded scene for id.
func (e *Engine) Scene(id engine.SceneID) (*Scene, bool) {
	s, ok := e.scenes[id]
	return s, ok
}

// Pickups

// AddPickup places a pickup at pos.
func (e *Engine) AddPickup(pos core.Vector3) engine.PickupHandle {
	p := e.nextPickup
	e.nextPickup++
	e.pickups[p] = &pickupState{pos: pos}
	return p
}

// CollectPickup marks p as collected.
func (e *Engine) CollectPickup(p engine.PickupHandle) {
	if ps, ok := e.pickups[p]; ok {
		ps.collected = true
	}
}

func (e *Engine) PickupCoords(p engine.PickupHandle) core.Vector3 {
	if ps, ok := e.pickups[p]; ok {
		return ps.pos
	}
	return core.Vector3{}
}

func (e *Engine) HasPickupBeenCollected(p engine.PickupHandle) bool {
	ps, ok := e.pickups[p]
	return ok && ps.collected
}

func (e *Engine) DoesPickupExist(p engine.PickupHandle) bool {
	_, ok := e.pickups[p]
	return ok
}

func (e *Engine) RemovePickup(p engine.PickupHandle) {
	delete(e.pickups, p)
}
