// Package audio plays sounds and music events through the engine.
package audio

import (
	"log/slog"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// NoSoundID is passed to the engine for fire-and-forget sounds.
const NoSoundID engine.SoundID = -1

// Positioned is anything with an engine handle a sound can follow.
type Positioned interface {
	Handle() engine.Handle
}

// Audio owns the current music event. It is not safe for concurrent use.
type Audio struct {
	natives engine.AudioNatives
	logger  *slog.Logger
	music   string
}

// Option configures Audio.
type Option func(*Audio)

// WithLogger sets the audio logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Audio) {
		a.logger = l
	}
}

// New creates Audio on top of the engine's audio natives.
func New(natives engine.AudioNatives, opts ...Option) *Audio {
	a := &Audio{
		natives: natives,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Audio) soundID(track bool) engine.SoundID {
	if !track {
		return NoSoundID
	}
	return a.natives.NewSoundID()
}

// PlaySoundAt plays sound from set at pos. With track set, the returned id
// can be stopped and must be released; otherwise it is NoSoundID.
func (a *Audio) PlaySoundAt(pos core.Vector3, sound, set string, track bool) engine.SoundID {
	id := a.soundID(track)
	a.natives.PlaySoundFromCoord(id, sound, pos, set)
	return id
}

// PlaySoundFromEntity plays sound attached to e.
func (a *Audio) PlaySoundFromEntity(e Positioned, sound, set string, track bool) engine.SoundID {
	id := a.soundID(track)
	a.natives.PlaySoundFromEntity(id, sound, e.Handle(), set)
	return id
}

// PlaySoundFrontend plays sound without a world position.
func (a *Audio) PlaySoundFrontend(sound, set string, track bool) engine.SoundID {
	id := a.soundID(track)
	a.natives.PlaySoundFrontend(id, sound, set)
	return id
}

// PlaySound plays a frontend sound and releases its id straight away.
func (a *Audio) PlaySound(sound, set string) {
	a.ReleaseSound(a.PlaySoundFrontend(sound, set, true))
}

func (a *Audio) StopSound(id engine.SoundID) {
	a.natives.StopSound(id)
}

func (a *Audio) ReleaseSound(id engine.SoundID) {
	a.natives.ReleaseSoundID(id)
}

func (a *Audio) HasSoundFinished(id engine.SoundID) bool {
	return a.natives.HasSoundFinished(id)
}

// SetAudioFlag toggles a known flag. Unknown flags return core.ErrOutOfRange.
func (a *Audio) SetAudioFlag(f Flag, enabled bool) error {
	name, err := f.Name()
	if err != nil {
		return err
	}
	a.natives.SetAudioFlag(name, enabled)
	return nil
}

// SetAudioFlagByName toggles a flag by its engine name.
func (a *Audio) SetAudioFlagByName(name string, enabled bool) {
	a.natives.SetAudioFlag(name, enabled)
}

// PlayMusic cancels the current music event, if any, and triggers name.
func (a *Audio) PlayMusic(name string) {
	if a.music != "" {
		a.natives.CancelMusicEvent(a.music)
	}
	a.music = name
	if !a.natives.TriggerMusicEvent(name) {
		a.logger.Warn("music event was not triggered", "event", name)
	}
}

// StopMusic cancels name, or the current music event when name is empty.
func (a *Audio) StopMusic(name string) {
	if name == "" || name == a.music {
		if a.music == "" {
			return
		}
		a.natives.CancelMusicEvent(a.music)
		a.music = ""
		return
	}
	a.natives.CancelMusicEvent(name)
}

// Music returns the current music event, or "".
func (a *Audio) Music() string {
	return a.music
}
