package sim

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// Spawn creates an entity with the given engine type code and returns its
// handle. Type codes outside 1..3 model scenery and other non-entity handles.
func (e *Engine) Spawn(typeCode int, model uint32, pos core.Vector3) engine.Handle {
	h := e.nextHandle
	e.nextHandle++
	e.entities[h] = &entityState{
		typeCode:     typeCode,
		model:        model,
		health:       200,
		maxHealth:    200,
		coords:       pos,
		visible:      true,
		alpha:        255,
		bones:        map[string]int{"root": 0},
		seats:        make(map[int]engine.Handle),
		engineHealth: 1000,
	}
	return h
}

// SpawnPed creates a ped.
func (e *Engine) SpawnPed(pos core.Vector3) engine.Handle {
	return e.Spawn(engine.TypeCodePed, 0x705E61F2, pos)
}

// SpawnVehicle creates a vehicle.
func (e *Engine) SpawnVehicle(pos core.Vector3) engine.Handle {
	return e.Spawn(engine.TypeCodeVehicle, 0xB779A091, pos)
}

// SpawnProp creates an object.
func (e *Engine) SpawnProp(pos core.Vector3) engine.Handle {
	return e.Spawn(engine.TypeCodeObject, 0x2E28CA22, pos)
}

// Networked registers h as networked and returns its network id.
func (e *Engine) Networked(h engine.Handle) engine.NetworkID {
	e.RegisterEntityAsNetworked(h)
	return e.NetworkIDFromEntity(h)
}

// SetTypeCode changes the type code reported for h, emulating the engine
// reusing a handle for a different kind of entity.
func (e *Engine) SetTypeCode(h engine.Handle, code int) {
	if s, ok := e.entities[h]; ok {
		s.typeCode = code
	}
}

// RemapNetworkID points id at a different handle and changes the id reported
// for h, emulating a re-registration behind the bridge's back.
func (e *Engine) RemapNetworkID(h engine.Handle, id engine.NetworkID) {
	s, ok := e.entities[h]
	if !ok {
		return
	}
	if s.networked {
		delete(e.netIDs, s.netID)
	}
	s.networked = true
	s.netID = id
	e.netIDs[id] = h
}

// AddBone defines a named bone on h.
func (e *Engine) AddBone(h engine.Handle, name string, index int) {
	if s, ok := e.entities[h]; ok {
		s.bones[name] = index
	}
}

// SeatPed places ped into vehicle at seat.
func (e *Engine) SeatPed(vehicle engine.Handle, seat int, ped engine.Handle) {
	v, ok := e.entities[vehicle]
	if !ok {
		return
	}
	v.seats[seat] = ped
	if p, ok := e.entities[ped]; ok {
		p.vehicle = vehicle
		p.lastVehicle = vehicle
	}
}

// Deleted returns the handles removed through DeleteEntity, in order.
func (e *Engine) Deleted() []engine.Handle {
	return append([]engine.Handle(nil), e.deleted...)
}

// Attachment returns the last attachment applied to h.
func (e *Engine) Attachment(h engine.Handle) (engine.Attachment, bool) {
	s, ok := e.entities[h]
	if !ok || s.attachment == nil {
		return engine.Attachment{}, false
	}
	return *s.attachment, true
}

// Speech returns the speech lines played by h, formatted "speech|voice|modifier".
func (e *Engine) Speech(h engine.Handle) []string {
	if s, ok := e.entities[h]; ok {
		return append([]string(nil), s.speech...)
	}
	return nil
}

// get returns the entity state or a throwaway zero state so queries on
// stale handles behave like the engine: defaults, never panics.
func (e *Engine) get(h engine.Handle) *entityState {
	if s, ok := e.entities[h]; ok {
		return s
	}
	return &entityState{bones: map[string]int{}, seats: map[int]engine.Handle{}}
}

func (e *Engine) EntityType(h engine.Handle) int {
	if s, ok := e.entities[h]; ok {
		return s.typeCode
	}
	return engine.TypeCodeNone
}

func (e *Engine) DoesEntityExist(h engine.Handle) bool {
	_, ok := e.entities[h]
	return ok
}

func (e *Engine) DeleteEntity(h engine.Handle) {
	s, ok := e.entities[h]
	if !ok {
		return
	}
	if s.networked {
		delete(e.netIDs, s.netID)
	}
	delete(e.entities, h)
	e.deleted = append(e.deleted, h)
}

func (e *Engine) IsEntityAMissionEntity(h engine.Handle) bool { return e.get(h).mission }

func (e *Engine) SetEntityAsMissionEntity(h engine.Handle, _, _ bool) { e.get(h).mission = true }

func (e *Engine) SetEntityAsNoLongerNeeded(h engine.Handle) { e.get(h).mission = false }

func (e *Engine) EntityHealth(h engine.Handle) int { return e.get(h).health }

func (e *Engine) SetEntityHealth(h engine.Handle, health int) { e.get(h).health = health }

func (e *Engine) EntityMaxHealth(h engine.Handle) int { return e.get(h).maxHealth }

func (e *Engine) SetEntityMaxHealth(h engine.Handle, health int) { e.get(h).maxHealth = health }

// IsEntityDead follows the engine's convention that peds die below 100 health.
func (e *Engine) IsEntityDead(h engine.Handle) bool {
	s, ok := e.entities[h]
	if !ok {
		return false
	}
	if s.typeCode == engine.TypeCodePed {
		return s.health < 100
	}
	return s.health <= 0
}

func (e *Engine) EntityModel(h engine.Handle) uint32 { return e.get(h).model }

func (e *Engine) EntityCoords(h engine.Handle) core.Vector3 { return e.get(h).coords }

func (e *Engine) SetEntityCoords(h engine.Handle, pos core.Vector3) { e.get(h).coords = pos }

func (e *Engine) EntityRotation(h engine.Handle) core.Vector3 { return e.get(h).rotation }

func (e *Engine) SetEntityRotation(h engine.Handle, rot core.Vector3) { e.get(h).rotation = rot }

func (e *Engine) EntityQuaternion(h engine.Handle) core.Quaternion { return e.get(h).quaternion }

func (e *Engine) SetEntityQuaternion(h engine.Handle, q core.Quaternion) { e.get(h).quaternion = q }

func (e *Engine) EntityHeading(h engine.Handle) float64 { return e.get(h).heading }

func (e *Engine) SetEntityHeading(h engine.Handle, heading float64) { e.get(h).heading = heading }

func (e *Engine) EntityVelocity(h engine.Handle) core.Vector3 { return e.get(h).velocity }

func (e *Engine) SetEntityVelocity(h engine.Handle, v core.Vector3) { e.get(h).velocity = v }

func (e *Engine) IsEntityPositionFrozen(h engine.Handle) bool { return e.get(h).frozen }

func (e *Engine) FreezeEntityPosition(h engine.Handle, frozen bool) { e.get(h).frozen = frozen }

func (e *Engine) IsEntityVisible(h engine.Handle) bool { return e.get(h).visible }

func (e *Engine) SetEntityVisible(h engine.Handle, visible bool) { e.get(h).visible = visible }

func (e *Engine) EntityAlpha(h engine.Handle) int { return e.get(h).alpha }

func (e *Engine) SetEntityAlpha(h engine.Handle, alpha int) { e.get(h).alpha = alpha }

func (e *Engine) ResetEntityAlpha(h engine.Handle) { e.get(h).alpha = 255 }

func (e *Engine) IsEntityAPed(h engine.Handle) bool {
	return e.EntityType(h) == engine.TypeCodePed
}

func (e *Engine) AttachEntityToEntity(a engine.Attachment) {
	s, ok := e.entities[a.Entity]
	if !ok {
		return
	}
	s.attachment = &a
}

func (e *Engine) DetachEntity(h engine.Handle) { e.get(h).attachment = nil }

func (e *Engine) IsEntityAttached(h engine.Handle) bool { return e.get(h).attachment != nil }

func (e *Engine) IsEntityAttachedToEntity(h, other engine.Handle) bool {
	a := e.get(h).attachment
	return a != nil && a.Target == other
}

func (e *Engine) EntityAttachedTo(h engine.Handle) engine.Handle {
	if a := e.get(h).attachment; a != nil {
		return a.Target
	}
	return 0
}

func (e *Engine) EntityBoneIndexByName(h engine.Handle, name string) int {
	if idx, ok := e.get(h).bones[name]; ok {
		return idx
	}
	return engine.NoBone
}

func (e *Engine) WorldPositionOfEntityBone(h engine.Handle, bone int) core.Vector3 {
	pos := e.get(h).coords
	pos.Z += float64(bone) * 0.01
	return pos
}

func (e *Engine) EntityBoneRotation(h engine.Handle, _ int) core.Vector3 {
	return e.get(h).rotation
}

// Network natives

func (e *Engine) IsEntityNetworked(h engine.Handle) bool { return e.get(h).networked }

func (e *Engine) RegisterEntityAsNetworked(h engine.Handle) {
	s, ok := e.entities[h]
	if !ok || s.networked {
		return
	}
	s.networked = true
	s.netID = e.nextNetID
	e.nextNetID++
	e.netIDs[s.netID] = h
}

func (e *Engine) UnregisterNetworkedEntity(h engine.Handle) {
	s, ok := e.entities[h]
	if !ok || !s.networked {
		return
	}
	delete(e.netIDs, s.netID)
	s.networked = false
	s.netID = 0
}

func (e *Engine) NetworkIDFromEntity(h engine.Handle) engine.NetworkID {
	s := e.get(h)
	if !s.networked {
		return 0
	}
	return s.netID
}

func (e *Engine) EntityFromNetworkID(id engine.NetworkID) engine.Handle {
	return e.netIDs[id]
}

func (e *Engine) DoesEntityExistWithNetworkID(id engine.NetworkID) bool {
	_, ok := e.netIDs[id]
	return ok
}

// Ped natives

func (e *Engine) PedArmour(h engine.Handle) int { return e.get(h).armour }

func (e *Engine) SetPedArmour(h engine.Handle, armour int) { e.get(h).armour = armour }

func (e *Engine) IsPedAPlayer(h engine.Handle) bool {
	for _, p := range e.players {
		if p.ped == h {
			return true
		}
	}
	return false
}

func (e *Engine) IsPedInAnyVehicle(h engine.Handle) bool { return e.get(h).vehicle != 0 }

func (e *Engine) VehiclePedIsIn(h engine.Handle, lastVehicle bool) engine.Handle {
	if lastVehicle {
		return e.get(h).lastVehicle
	}
	return e.get(h).vehicle
}

func (e *Engine) ApplyDamageToPed(h engine.Handle, amount int, armorFirst bool) {
	s := e.get(h)
	if armorFirst && s.armour > 0 {
		absorbed := min(s.armour, amount)
		s.armour -= absorbed
		amount -= absorbed
	}
	s.health -= amount
}

func (e *Engine) ClonePed(h engine.Handle) engine.Handle {
	src, ok := e.entities[h]
	if !ok {
		return 0
	}
	clone := e.Spawn(src.typeCode, src.model, src.coords)
	e.entities[clone].health = src.health
	return clone
}

func (e *Engine) PlayAmbientSpeech(h engine.Handle, speech, modifier string) {
	s := e.get(h)
	s.speech = append(s.speech, speech+"||"+modifier)
}

func (e *Engine) PlayAmbientSpeechWithVoice(h engine.Handle, speech, voice, modifier string) {
	s := e.get(h)
	s.speech = append(s.speech, speech+"|"+voice+"|"+modifier)
}

// Vehicle natives

func (e *Engine) VehicleEngineHealth(h engine.Handle) float64 { return e.get(h).engineHealth }

func (e *Engine) SetVehicleEngineHealth(h engine.Handle, health float64) {
	e.get(h).engineHealth = health
}

func (e *Engine) VehicleNumberPlate(h engine.Handle) string { return e.get(h).plate }

func (e *Engine) SetVehicleNumberPlate(h engine.Handle, plate string) { e.get(h).plate = plate }

func (e *Engine) PedInVehicleSeat(h engine.Handle, seat int) engine.Handle {
	return e.get(h).seats[seat]
}

func (e *Engine) IsVehicleSeatFree(h engine.Handle, seat int) bool {
	return e.get(h).seats[seat] == 0
}

// Object natives

func (e *Engine) PlaceObjectOnGroundProperly(h engine.Handle) bool {
	s, ok := e.entities[h]
	if !ok {
		return false
	}
	s.coords.Z = 0
	s.onGround = true
	return true
}
