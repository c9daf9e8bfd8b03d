package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/internal/sim"
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/statebag"
)

func newTestResolver(t *testing.T, opts ...sim.Option) (*Resolver, *sim.Engine, *statebag.Registry) {
	t.Helper()
	eng := sim.New(opts...)
	reg, err := statebag.NewRegistry(eng)
	require.NoError(t, err)
	return NewResolver(eng, reg), eng, reg
}

func TestResolver_FromHandleTypeCodes(t *testing.T) {
	r, eng, _ := newTestResolver(t)

	ped := eng.SpawnPed(core.Vector3{})
	veh := eng.SpawnVehicle(core.Vector3{})
	prop := eng.SpawnProp(core.Vector3{})
	scenery := eng.Spawn(engine.TypeCodeNone, 1, core.Vector3{})
	odd := eng.Spawn(7, 1, core.Vector3{})

	tests := []struct {
		name   string
		handle engine.Handle
		kind   core.TypeTag
		isNil  bool
	}{
		{"ped", ped, core.TagPed, false},
		{"vehicle", veh, core.TagVehicle, false},
		{"prop", prop, core.TagProp, false},
		{"scenery", scenery, 0, true},
		{"unknown code", odd, 0, true},
		{"missing handle", 9999, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := r.FromHandle(tt.handle)
			if tt.isNil {
				assert.Nil(t, v)
				return
			}
			require.NotNil(t, v)
			assert.Equal(t, tt.kind, v.Kind())
			assert.Equal(t, tt.handle, v.Handle())
		})
	}

	_, ok := r.FromHandle(ped).(*Ped)
	assert.True(t, ok)
	_, ok = r.FromHandle(veh).(*Vehicle)
	assert.True(t, ok)
	_, ok = r.FromHandle(prop).(*Prop)
	assert.True(t, ok)
}

func TestResolver_FromNetworkID(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	veh := eng.SpawnVehicle(core.Vector3{})
	id := eng.Networked(veh)

	v := r.FromNetworkID(id)
	require.NotNil(t, v)
	assert.Equal(t, veh, v.Handle())
	assert.Equal(t, core.TagVehicle, v.Kind())

	assert.Nil(t, r.FromNetworkID(4242))
	assert.Nil(t, r.EntityFromNetworkID(4242))
}

func TestResolver_TypedFromNetworkIDSkipsTypeCheck(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	prop := eng.SpawnProp(core.Vector3{})
	id := eng.Networked(prop)

	ped := r.PedFromNetworkID(id)
	require.NotNil(t, ped)
	assert.Equal(t, prop, ped.Handle())
	assert.False(t, ped.Exists(), "a prop wrapped as ped must fail the ped existence check")
	assert.True(t, r.PropFromNetworkID(id).Exists())
	assert.False(t, r.VehicleFromNetworkID(id).Exists())
}

func TestResolver_TypedFromNetworkIDUnregisteredIsNil(t *testing.T) {
	r, _, _ := newTestResolver(t)

	assert.Nil(t, r.PedFromNetworkID(4242))
	assert.Nil(t, r.VehicleFromNetworkID(4242))
	assert.Nil(t, r.PropFromNetworkID(4242))
}

func TestEntity_WrapsAreIndependent(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnPed(core.Vector3{})

	a := r.NewPed(h)
	b := r.NewPed(h)
	assert.NotSame(t, a, b)
	assert.Equal(t, a.Handle(), b.Handle())

	a.SetPosition(core.Vector3{X: 1, Y: 2, Z: 3})
	assert.Equal(t, core.Vector3{X: 1, Y: 2, Z: 3}, b.Position())
}

func TestEntity_NetworkIDEagerWhenNetworked(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnProp(core.Vector3{})
	id := eng.Networked(h)

	p := r.NewProp(h)
	eng.RemapNetworkID(h, id+100)

	assert.Equal(t, id, p.NetworkID())
}

func TestEntity_NetworkIDMemoizedAfterFirstRead(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnVehicle(core.Vector3{})
	v := r.NewVehicle(h)

	assert.False(t, v.IsNetworked())
	assert.Zero(t, v.NetworkID())

	id := eng.Networked(h)
	assert.Equal(t, id, v.NetworkID())

	eng.RemapNetworkID(h, id+50)
	assert.Equal(t, id+50, eng.NetworkIDFromEntity(h))
	assert.Equal(t, id, v.NetworkID(), "memoized id survives engine remapping")

	fresh := r.NewVehicle(h)
	assert.Equal(t, id+50, fresh.NetworkID())
}

func TestEntity_ExistsChecksVariantType(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	h := eng.SpawnPed(core.Vector3{})
	p := r.NewPed(h)
	base := r.NewEntity(h)

	assert.True(t, p.Exists())

	eng.SetTypeCode(h, engine.TypeCodeVehicle)
	assert.False(t, p.Exists())
	assert.True(t, base.Exists())

	eng.DeleteEntity(h)
	assert.False(t, base.Exists())
}

func TestEntity_DeleteDrainsOwnSubscriptions(t *testing.T) {
	r, eng, reg := newTestResolver(t)
	h := eng.SpawnProp(core.Vector3{})
	eng.Networked(h)
	p := r.NewProp(h)
	other := r.NewProp(eng.SpawnProp(core.Vector3{}))

	p.ListenForStateChange("a", func(statebag.Change) {})
	p.ListenForStateChange("", func(statebag.Change) {})
	other.ListenForStateChange("a", func(statebag.Change) {})
	require.Equal(t, 3, reg.Count())

	assert.True(t, p.Delete())
	assert.False(t, eng.DoesEntityExist(h))
	assert.Equal(t, []engine.Handle{h}, eng.Deleted())
	assert.Equal(t, 0, p.StateListenerCount())
	assert.Equal(t, 1, reg.Count())
	assert.Equal(t, 1, other.StateListenerCount())
}

func TestEntity_DeleteRefusesLocalPlayerPed(t *testing.T) {
	r, eng, reg := newTestResolver(t)
	pl := eng.AddPlayer(1, "local")
	eng.SetLocalPlayer(pl)
	ped := r.NewPed(eng.PlayerPed(pl))
	ped.ListenForStateChange("x", func(statebag.Change) {})

	assert.False(t, ped.Delete())
	assert.True(t, ped.Exists())
	assert.Empty(t, eng.Deleted())
	assert.Equal(t, 1, reg.Count())
}

func TestEntity_StateBagScope(t *testing.T) {
	r, eng, reg := newTestResolver(t)
	h := eng.SpawnProp(core.Vector3{})
	p := r.NewProp(h)

	var got []statebag.Change
	p.ListenForStateChange("door", func(c statebag.Change) { got = append(got, c) })
	assert.Equal(t, 1, reg.ScopeCount(statebag.LocalEntityScope(h)))

	p.State().Set("door", "open", false)
	require.Len(t, got, 1)
	assert.Equal(t, "open", got[0].Value)

	id := eng.Networked(h)
	assert.Equal(t, statebag.EntityScope(id), p.StateBagName())
	p.ListenForStateChange("door", func(statebag.Change) {})
	assert.Equal(t, 1, reg.ScopeCount(statebag.EntityScope(id)))

	v, ok := p.State().Get("door")
	assert.False(t, ok, "networked bag is a different bag")
	assert.Nil(t, v)
}

func TestEntity_Accessors(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	e := r.NewEntity(eng.SpawnProp(core.Vector3{X: 1}))

	e.SetMaxHealth(500)
	e.SetHealth(300)
	assert.Equal(t, 500, e.MaxHealth())
	assert.Equal(t, 300, e.Health())
	assert.True(t, e.IsAlive())
	e.SetDead(true)
	assert.True(t, e.IsDead())
	e.SetDead(false)
	assert.Equal(t, 200, e.Health())

	e.SetMissionEntity(true)
	assert.True(t, e.IsMissionEntity())
	e.MarkAsNoLongerNeeded()
	assert.False(t, e.IsMissionEntity())

	e.SetRotation(core.Vector3{Z: 90})
	assert.Equal(t, core.Vector3{Z: 90}, e.Rotation())
	e.SetQuaternion(core.Quaternion{W: 1})
	assert.Equal(t, core.Quaternion{W: 1}, e.Quaternion())
	e.SetHeading(45)
	assert.Equal(t, 45.0, e.Heading())
	e.SetVelocity(core.Vector3{Y: 3})
	assert.Equal(t, core.Vector3{Y: 3}, e.Velocity())

	e.SetPositionFrozen(true)
	assert.True(t, e.IsPositionFrozen())
	e.SetVisible(false)
	assert.False(t, e.IsVisible())
	e.SetOpacity(80)
	assert.Equal(t, 80, e.Opacity())
	e.ResetOpacity()
	assert.Equal(t, 255, e.Opacity())

	assert.Equal(t, core.TagEntity, e.Kind())
	assert.Same(t, e, e.Base())
	assert.NotZero(t, e.Model())

	e.SetNetworked(true)
	assert.True(t, e.IsNetworked())
	e.SetNetworked(false)
	assert.False(t, e.IsNetworked())
}

func TestEntity_IsInRangeOf(t *testing.T) {
	r, eng, _ := newTestResolver(t)
	e := r.NewEntity(eng.SpawnProp(core.Vector3{X: 3, Y: 4}))

	assert.True(t, e.IsInRangeOf(core.Vector3{}, 5.1))
	assert.False(t, e.IsInRangeOf(core.Vector3{}, 5), "range is exclusive")
}
