package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

func TestAttach_SelfAttachAlwaysFails(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnProp(core.Vector3{})
	p := r.NewProp(h)
	same := r.NewProp(h)

	err := p.AttachTo(p, core.Vector3{}, core.Vector3{})
	assert.ErrorIs(t, err, ErrSelfAttach)

	err = p.AttachTo(same, core.Vector3{X: 1}, core.Vector3{}, WithCollision(true))
	assert.ErrorIs(t, err, ErrSelfAttach, "a second wrap of the same handle is still self")

	err = p.AttachToBone(same.Bones().ByName("root"), core.Vector3{}, core.Vector3{})
	assert.ErrorIs(t, err, ErrSelfAttach)

	_, attached := eng.Attachment(h)
	assert.False(t, attached, "engine must never be asked to self-attach")
}

func TestAttach_Defaults(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	prop := r.NewProp(eng.SpawnProp(core.Vector3{}))
	ped := r.NewPed(eng.SpawnPed(core.Vector3{}))

	offset := core.Vector3{X: 0.1, Y: 0.2, Z: 0.3}
	rot := core.Vector3{Z: 180}
	require.NoError(t, prop.AttachTo(ped, offset, rot))

	a, ok := eng.Attachment(prop.Handle())
	require.True(t, ok)
	assert.Equal(t, engine.Attachment{
		Entity:        prop.Handle(),
		Target:        ped.Handle(),
		Bone:          engine.NoBone,
		Offset:        offset,
		Rotation:      rot,
		FixedRotation: true,
		SoftPinning:   true,
		Collision:     false,
		IsPed:         true,
		RotationOrder: 1,
	}, a)

	assert.True(t, prop.IsAttached())
	assert.True(t, prop.IsAttachedTo(ped))
	to := prop.AttachedTo()
	require.NotNil(t, to)
	assert.Equal(t, ped.Handle(), to.Handle())
	assert.Equal(t, core.TagPed, to.Kind())

	prop.Detach()
	assert.False(t, prop.IsAttached())
	assert.Nil(t, prop.AttachedTo())
}

func TestAttach_Options(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	prop := r.NewProp(eng.SpawnProp(core.Vector3{}))
	veh := r.NewVehicle(eng.SpawnVehicle(core.Vector3{}))

	require.NoError(t, prop.AttachTo(veh, core.Vector3{}, core.Vector3{},
		WithCollision(true),
		WithFixedRotation(false),
		WithSoftPinning(false),
		WithRotationOrder(2),
	))

	a, _ := eng.Attachment(prop.Handle())
	assert.True(t, a.Collision)
	assert.False(t, a.FixedRotation)
	assert.False(t, a.SoftPinning)
	assert.Equal(t, 2, a.RotationOrder)
	assert.False(t, a.IsPed)
}

func TestAttach_ToBone(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	pedHandle := eng.SpawnPed(core.Vector3{})
	eng.AddBone(pedHandle, "SKEL_R_Hand", 57005)
	ped := r.NewPed(pedHandle)
	prop := r.NewProp(eng.SpawnProp(core.Vector3{}))

	bone := ped.Bones().ByName("SKEL_R_Hand")
	require.True(t, bone.IsValid())
	require.NoError(t, prop.AttachToBone(bone, core.Vector3{}, core.Vector3{}))

	a, _ := eng.Attachment(prop.Handle())
	assert.Equal(t, 57005, a.Bone)
	assert.Equal(t, pedHandle, a.Target)
}

func TestBones(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnVehicle(core.Vector3{Z: 10})
	eng.AddBone(h, "wheel_lf", 3)
	v := r.NewVehicle(h)

	assert.True(t, v.Bones().HasBone("wheel_lf"))
	assert.False(t, v.Bones().HasBone("rotor"))

	missing := v.Bones().ByName("rotor")
	assert.Equal(t, engine.NoBone, missing.Index())
	assert.False(t, missing.IsValid())

	wheel := v.Bones().ByName("wheel_lf")
	assert.Equal(t, 3, wheel.Index())
	assert.Same(t, v.Entity, wheel.Owner())
	assert.Equal(t, eng.WorldPositionOfEntityBone(h, 3), wheel.Position())
	assert.Equal(t, eng.EntityBoneRotation(h, 3), wheel.Rotation())

	byIndex := v.Bones().ByIndex(0)
	assert.True(t, byIndex.IsValid())

	eng.DeleteEntity(h)
	assert.False(t, wheel.IsValid())
}
