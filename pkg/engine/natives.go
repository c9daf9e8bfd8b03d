package engine

import "github.com/handlebridge/bridge/pkg/core"

// EntityNatives are the per-handle entity queries and commands.
type EntityNatives interface {
	EntityType(h Handle) int
	DoesEntityExist(h Handle) bool
	DeleteEntity(h Handle)

	IsEntityAMissionEntity(h Handle) bool
	SetEntityAsMissionEntity(h Handle, scriptHostObject, grabFromOtherScript bool)
	SetEntityAsNoLongerNeeded(h Handle)

	EntityHealth(h Handle) int
	SetEntityHealth(h Handle, health int)
	EntityMaxHealth(h Handle) int
	SetEntityMaxHealth(h Handle, health int)
	IsEntityDead(h Handle) bool
	EntityModel(h Handle) uint32

	EntityCoords(h Handle) core.Vector3
	SetEntityCoords(h Handle, pos core.Vector3)
	EntityRotation(h Handle) core.Vector3
	SetEntityRotation(h Handle, rot core.Vector3)
	EntityQuaternion(h Handle) core.Quaternion
	SetEntityQuaternion(h Handle, q core.Quaternion)
	EntityHeading(h Handle) float64
	SetEntityHeading(h Handle, heading float64)
	EntityVelocity(h Handle) core.Vector3
	SetEntityVelocity(h Handle, v core.Vector3)

	IsEntityPositionFrozen(h Handle) bool
	FreezeEntityPosition(h Handle, frozen bool)
	IsEntityVisible(h Handle) bool
	SetEntityVisible(h Handle, visible bool)
	EntityAlpha(h Handle) int
	SetEntityAlpha(h Handle, alpha int)
	ResetEntityAlpha(h Handle)

	IsEntityAPed(h Handle) bool
	AttachEntityToEntity(a Attachment)
	DetachEntity(h Handle)
	IsEntityAttached(h Handle) bool
	IsEntityAttachedToEntity(h, other Handle) bool
	EntityAttachedTo(h Handle) Handle

	EntityBoneIndexByName(h Handle, name string) int
	WorldPositionOfEntityBone(h Handle, bone int) core.Vector3
	EntityBoneRotation(h Handle, bone int) core.Vector3
}

// NetworkNatives map between local handles and network ids.
type NetworkNatives interface {
	IsEntityNetworked(h Handle) bool
	RegisterEntityAsNetworked(h Handle)
	UnregisterNetworkedEntity(h Handle)
	NetworkIDFromEntity(h Handle) NetworkID
	EntityFromNetworkID(id NetworkID) Handle
	DoesEntityExistWithNetworkID(id NetworkID) bool
}

// PedNatives are ped-only commands.
type PedNatives interface {
	PedArmour(h Handle) int
	SetPedArmour(h Handle, armour int)
	IsPedAPlayer(h Handle) bool
	IsPedInAnyVehicle(h Handle) bool
	VehiclePedIsIn(h Handle, lastVehicle bool) Handle
	ApplyDamageToPed(h Handle, amount int, armorFirst bool)
	ClonePed(h Handle) Handle
	PlayAmbientSpeech(h Handle, speech, modifier string)
	PlayAmbientSpeechWithVoice(h Handle, speech, voice, modifier string)
}

// VehicleNatives are vehicle-only commands.
type VehicleNatives interface {
	VehicleEngineHealth(h Handle) float64
	SetVehicleEngineHealth(h Handle, health float64)
	VehicleNumberPlate(h Handle) string
	SetVehicleNumberPlate(h Handle, plate string)
	PedInVehicleSeat(h Handle, seat int) Handle
	IsVehicleSeatFree(h Handle, seat int) bool
}

// ObjectNatives are prop-only commands.
type ObjectNatives interface {
	PlaceObjectOnGroundProperly(h Handle) bool
}

// PlayerNatives resolve players, their server ids and their peds.
type PlayerNatives interface {
	// IsServer reports whether the script runs on the server side.
	IsServer() bool
	// LocalPlayerPed returns the ped of the controlling player, 0 on the server.
	LocalPlayerPed() Handle
	PlayerPed(p PlayerHandle) Handle
	// DoesPlayerExist reports whether p names a connected player.
	DoesPlayerExist(p PlayerHandle) bool
	PlayerServerID(p PlayerHandle) ServerID
	PlayerFromServerID(id ServerID) PlayerHandle
	PlayerIndexFromPed(h Handle) PlayerHandle
	PlayerName(p PlayerHandle) string
	IsPlayerDead(p PlayerHandle) bool
	PlayerTeam(p PlayerHandle) int
	SetFriendlyFire(enabled bool)
	SetCanAttackFriendly(h Handle, canAttack bool)
}

// StateBagNatives manage state bag values and change handlers.
type StateBagNatives interface {
	// AddStateBagChangeHandler registers h for bagName; a nil keyFilter
	// matches every key. The returned cookie is unique per registration.
	AddStateBagChangeHandler(keyFilter *string, bagName string, h StateBagChangeHandler) Cookie
	RemoveStateBagChangeHandler(c Cookie)
	StateBagValue(bagName, key string) (any, bool)
	SetStateBagValue(bagName, key string, value any, replicated bool)
}

// EventNatives bind script handlers to named engine events.
type EventNatives interface {
	AddEventHandler(name string, networked bool, h EventHandler)
	TriggerEvent(name string, args ...any) error
}

// StreamingNatives request and release streamed resources.
type StreamingNatives interface {
	RequestAnimDict(dict string)
	HasAnimDictLoaded(dict string) bool
	RemoveAnimDict(dict string)
	IsModelValid(hash uint32) bool
	RequestModel(hash uint32)
	HasModelLoaded(hash uint32) bool
	SetModelAsNoLongerNeeded(hash uint32)
}

// AudioNatives play sounds and music events.
type AudioNatives interface {
	NewSoundID() SoundID
	PlaySoundFromCoord(id SoundID, sound string, pos core.Vector3, set string)
	PlaySoundFromEntity(id SoundID, sound string, h Handle, set string)
	PlaySoundFrontend(id SoundID, sound, set string)
	StopSound(id SoundID)
	ReleaseSoundID(id SoundID)
	HasSoundFinished(id SoundID) bool
	SetAudioFlag(flag string, enabled bool)
	TriggerMusicEvent(name string) bool
	CancelMusicEvent(name string) bool
}

// SceneNatives drive networked synchronised scenes.
type SceneNatives interface {
	CreateSynchronisedScene(spec SceneSpec) SceneID
	AddPedToSynchronisedScene(h Handle, scene SceneID, p ScenePed)
	AddEntityToSynchronisedScene(h Handle, scene SceneID, e SceneEntity)
	StartSynchronisedScene(scene SceneID)
	StopSynchronisedScene(scene SceneID)
}

// PickupNatives query and remove pickups.
type PickupNatives interface {
	PickupCoords(p PickupHandle) core.Vector3
	HasPickupBeenCollected(p PickupHandle) bool
	DoesPickupExist(p PickupHandle) bool
	RemovePickup(p PickupHandle)
}

// TickNatives attach a per-frame callback to the engine loop.
type TickNatives interface {
	SetTickHandler(h TickHandler)
}

// Natives is the full native surface the bridge needs from the engine.
type Natives interface {
	Clock
	EntityNatives
	NetworkNatives
	PedNatives
	VehicleNatives
	ObjectNatives
	PlayerNatives
	StateBagNatives
	EventNatives
	StreamingNatives
	AudioNatives
	SceneNatives
	PickupNatives
	TickNatives
}
