package bridge

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handlebridge/bridge/internal/sim"
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/entity"
	"github.com/handlebridge/bridge/pkg/statebag"
)

type recordingJournal struct {
	events  []string
	changes []statebag.Change
}

func (j *recordingJournal) EventReceived(name string, _ bool, _ engine.ServerID, _ []any) {
	j.events = append(j.events, name)
}

func (j *recordingJournal) StateChanged(c statebag.Change) {
	j.changes = append(j.changes, c)
}

func newTestRuntime(t *testing.T, opts ...Option) (*Runtime, *sim.Engine) {
	t.Helper()
	eng := sim.New(sim.WithTickDuration(10 * time.Millisecond))
	rt, err := New(eng, opts...)
	require.NoError(t, err)
	return rt, eng
}

func TestRuntime_InstallsTickHandler(t *testing.T) {
	rt, eng := newTestRuntime(t)

	eng.Run(3)

	assert.Equal(t, uint64(3), rt.Scheduler().Ticks())
}

func TestRuntime_WaitFor(t *testing.T) {
	rt, eng := newTestRuntime(t)
	var ok, finished bool
	checks := 0

	rt.Go(context.Background(), func(ctx context.Context) {
		ok = rt.WaitFor(ctx, time.Second, func() bool {
			checks++
			return checks == 4
		})
		finished = true
	})

	for i := 0; i < 10 && !finished; i++ {
		eng.Step()
	}
	assert.True(t, finished)
	assert.True(t, ok)
	assert.Equal(t, 4, checks)
}

func TestRuntime_WaitForTimesOut(t *testing.T) {
	rt, eng := newTestRuntime(t)
	var ok, finished bool
	var waited time.Duration

	rt.Go(context.Background(), func(ctx context.Context) {
		start := eng.GameTimer()
		ok = rt.WaitFor(ctx, 50*time.Millisecond, func() bool { return false })
		waited = eng.GameTimer() - start
		finished = true
	})

	for i := 0; i < 20 && !finished; i++ {
		eng.Step()
	}
	require.True(t, finished)
	assert.False(t, ok)
	assert.GreaterOrEqual(t, waited, 50*time.Millisecond)
	assert.LessOrEqual(t, waited, 60*time.Millisecond)
}

func TestRuntime_StreamingTimeout(t *testing.T) {
	rt, _ := newTestRuntime(t, WithStreamingTimeout(250*time.Millisecond))
	assert.Equal(t, 250*time.Millisecond, rt.Streaming().Timeout())
}

func TestRuntime_EndToEnd(t *testing.T) {
	j := &recordingJournal{}
	rt, eng := newTestRuntime(t, WithJournal(j))

	h := eng.SpawnVehicle(core.Vector3{X: 1})
	id := eng.Networked(h)

	var received entity.Variant
	rt.Events().OnNet("tow", func(_ engine.ServerID, args ...any) {
		received, _ = args[0].(entity.Variant)
	})
	require.NoError(t, eng.Emit("tow", true, 9, map[string]any{"type": int(core.TagEntity), "netId": int(id)}))

	require.NotNil(t, received)
	assert.Equal(t, core.TagVehicle, received.Kind())
	assert.Equal(t, []string{"tow"}, j.events)

	veh := rt.Resolver().NewVehicle(h)
	var got []any
	veh.ListenForStateChange("fuel", func(c statebag.Change) { got = append(got, c.Value) })
	veh.State().Set("fuel", 40, true)
	veh.State().Set("other", 1, true)

	assert.Equal(t, []any{40}, got)
	require.Len(t, j.changes, 1)
	assert.Equal(t, "fuel", j.changes[0].Key)

	bag := veh.StateBagName()
	assert.Equal(t, 1, rt.StateBags().ScopeCount(bag))
	assert.True(t, veh.Delete())
	assert.Zero(t, rt.StateBags().ScopeCount(bag))
}

func TestRuntime_WorldObjects(t *testing.T) {
	rt, eng := newTestRuntime(t)

	p := rt.Pickup(eng.AddPickup(core.Vector3{X: 5}))
	assert.True(t, p.Exists())
	assert.Equal(t, core.Vector3{X: 5}, p.Position())

	scene := rt.NewNetworkedScene(engine.SceneSpec{Speed: 1})
	ped := rt.Resolver().NewPed(eng.SpawnPed(core.Vector3{}))
	require.NoError(t, scene.AddPed(ped, engine.ScenePed{AnimDict: "dict", AnimName: "anim"}))
	scene.Start()
	assert.True(t, scene.IsRunning())
}
