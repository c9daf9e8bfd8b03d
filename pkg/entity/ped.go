package entity

import (
	"fmt"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// pedHealthOffset is the engine health a ped has at 0 script health.
const pedHealthOffset = 100

// Ped is a person: a player character or an NPC.
type Ped struct {
	*Entity
}

// SpeechModifier selects how ambient speech is delivered.
type SpeechModifier int

const (
	SpeechStandard SpeechModifier = iota
	SpeechAllowRepeat
	SpeechBeat
	SpeechForce
	SpeechForceFrontend
	SpeechForceNoRepeatFrontend
	SpeechForceNormal
	SpeechForceNormalClear
	SpeechForceNormalCritical
	SpeechForceShouted
	SpeechForceShoutedClear
	SpeechForceShoutedCritical
	SpeechForcePreloadOnly
	SpeechMegaphone
	SpeechHeli
	SpeechForceMegaphone
	SpeechForceHeli
	SpeechInterrupt
	SpeechInterruptShouted
	SpeechInterruptShoutedClear
	SpeechInterruptShoutedCritical
	SpeechInterruptNoForce
	SpeechInterruptFrontend
	SpeechInterruptNoForceFrontend
	SpeechAddBlip
	SpeechAddBlipAllowRepeat
	SpeechAddBlipForce
	SpeechAddBlipShouted
	SpeechAddBlipShoutedForce
	SpeechAddBlipInterrupt
	SpeechAddBlipInterruptForce
	SpeechForcePreloadOnlyShouted
	SpeechForcePreloadOnlyShoutedClear
	SpeechForcePreloadOnlyShoutedCritical
	SpeechShouted
	SpeechShoutedClear
	SpeechShoutedCritical
)

var speechModifierNames = [...]string{
	"SPEECH_PARAMS_STANDARD",
	"SPEECH_PARAMS_ALLOW_REPEAT",
	"SPEECH_PARAMS_BEAT",
	"SPEECH_PARAMS_FORCE",
	"SPEECH_PARAMS_FORCE_FRONTEND",
	"SPEECH_PARAMS_FORCE_NO_REPEAT_FRONTEND",
	"SPEECH_PARAMS_FORCE_NORMAL",
	"SPEECH_PARAMS_FORCE_NORMAL_CLEAR",
	"SPEECH_PARAMS_FORCE_NORMAL_CRITICAL",
	"SPEECH_PARAMS_FORCE_SHOUTED",
	"SPEECH_PARAMS_FORCE_SHOUTED_CLEAR",
	"SPEECH_PARAMS_FORCE_SHOUTED_CRITICAL",
	"SPEECH_PARAMS_FORCE_PRELOAD_ONLY",
	"SPEECH_PARAMS_MEGAPHONE",
	"SPEECH_PARAMS_HELI",
	"SPEECH_PARAMS_FORCE_MEGAPHONE",
	"SPEECH_PARAMS_FORCE_HELI",
	"SPEECH_PARAMS_INTERRUPT",
	"SPEECH_PARAMS_INTERRUPT_SHOUTED",
	"SPEECH_PARAMS_INTERRUPT_SHOUTED_CLEAR",
	"SPEECH_PARAMS_INTERRUPT_SHOUTED_CRITICAL",
	"SPEECH_PARAMS_INTERRUPT_NO_FORCE",
	"SPEECH_PARAMS_INTERRUPT_FRONTEND",
	"SPEECH_PARAMS_INTERRUPT_NO_FORCE_FRONTEND",
	"SPEECH_PARAMS_ADD_BLIP",
	"SPEECH_PARAMS_ADD_BLIP_ALLOW_REPEAT",
	"SPEECH_PARAMS_ADD_BLIP_FORCE",
	"SPEECH_PARAMS_ADD_BLIP_SHOUTED",
	"SPEECH_PARAMS_ADD_BLIP_SHOUTED_FORCE",
	"SPEECH_PARAMS_ADD_BLIP_INTERRUPT",
	"SPEECH_PARAMS_ADD_BLIP_INTERRUPT_FORCE",
	"SPEECH_PARAMS_FORCE_PRELOAD_ONLY_SHOUTED",
	"SPEECH_PARAMS_FORCE_PRELOAD_ONLY_SHOUTED_CLEAR",
	"SPEECH_PARAMS_FORCE_PRELOAD_ONLY_SHOUTED_CRITICAL",
	"SPEECH_PARAMS_SHOUTED",
	"SPEECH_PARAMS_SHOUTED_CLEAR",
	"SPEECH_PARAMS_SHOUTED_CRITICAL",
}

// String returns the engine parameter name.
func (m SpeechModifier) String() string {
	if m < 0 || int(m) >= len(speechModifierNames) {
		return fmt.Sprintf("SpeechModifier(%d)", int(m))
	}
	return speechModifierNames[m]
}

// Kind returns TagPed.
func (p *Ped) Kind() core.TypeTag {
	return core.TagPed
}

// Exists also requires the handle to still be a ped.
func (p *Ped) Exists() bool {
	return p.Entity.Exists() && p.natives.EntityType(p.handle) == engine.TypeCodePed
}

// Health is reported relative to the ped death threshold.
func (p *Ped) Health() int {
	return p.Entity.Health() - pedHealthOffset
}

// SetHealth is the inverse of Health.
func (p *Ped) SetHealth(health int) {
	p.Entity.SetHealth(health + pedHealthOffset)
}

// MaxHealth is offset like Health.
func (p *Ped) MaxHealth() int {
	return p.Entity.MaxHealth() - pedHealthOffset
}

// SetMaxHealth is the inverse of MaxHealth.
func (p *Ped) SetMaxHealth(health int) {
	p.Entity.SetMaxHealth(health + pedHealthOffset)
}

// Kill drops the ped below the death threshold.
func (p *Ped) Kill() {
	p.SetHealth(-1)
}

// Armor returns the ped armour.
func (p *Ped) Armor() int {
	return p.natives.PedArmour(p.handle)
}

// SetArmor sets armour, capped at 100.
func (p *Ped) SetArmor(amount int) {
	p.natives.SetPedArmour(p.handle, min(amount, 100))
}

// IsPlayer reports whether a player controls the ped.
func (p *Ped) IsPlayer() bool {
	return p.natives.IsPedAPlayer(p.handle)
}

// IsInAnyVehicle reports whether the ped is seated in a vehicle.
func (p *Ped) IsInAnyVehicle() bool {
	return p.natives.IsPedInAnyVehicle(p.handle)
}

// CurrentVehicle returns the vehicle the ped is in, or nil.
func (p *Ped) CurrentVehicle() *Vehicle {
	return p.vehicle(false)
}

// LastVehicle returns the vehicle the ped was last in, or nil.
func (p *Ped) LastVehicle() *Vehicle {
	return p.vehicle(true)
}

func (p *Ped) vehicle(last bool) *Vehicle {
	v := p.resolver.NewVehicle(p.natives.VehiclePedIsIn(p.handle, last))
	if !v.Exists() {
		return nil
	}
	return v
}

// ApplyDamage hurts the ped, optionally draining armour first.
func (p *Ped) ApplyDamage(amount int, armorFirst bool) {
	p.natives.ApplyDamageToPed(p.handle, amount, armorFirst)
}

// Clone spawns a copy of the ped.
func (p *Ped) Clone() *Ped {
	return p.resolver.NewPed(p.natives.ClonePed(p.handle))
}

// Player returns the player controlling the ped, or nil for NPCs.
func (p *Ped) Player() *Player {
	return p.resolver.PlayerFromPedHandle(p.handle)
}

// PlayAmbientSpeech plays a speech line, with voice when it is not empty.
func (p *Ped) PlayAmbientSpeech(speech, voice string, modifier SpeechModifier) error {
	if modifier < 0 || int(modifier) >= len(speechModifierNames) {
		return fmt.Errorf("modifier %d: %w", int(modifier), core.ErrOutOfRange)
	}
	name := speechModifierNames[modifier]
	if voice == "" {
		p.natives.PlayAmbientSpeech(p.handle, speech, name)
	} else {
		p.natives.PlayAmbientSpeechWithVoice(p.handle, speech, voice, name)
	}
	return nil
}
