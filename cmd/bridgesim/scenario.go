package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/handlebridge/bridge/internal/logging"
	"github.com/handlebridge/bridge/internal/sim"
	"github.com/handlebridge/bridge/pkg/bridge"
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/entity"
	"github.com/handlebridge/bridge/pkg/events"
	"github.com/handlebridge/bridge/pkg/statebag"
)

const (
	towEvent   = "bridge:tow"
	fuelKey    = "fuel"
	keyFobDict = "anim@mp_player_intmenu@key_fob@"
	startMusic = "MP_MC_START"
)

type result struct {
	Events     int
	Changes    int
	AnimLoaded bool
	SceneRan   bool
	Collected  bool
	Deleted    bool
}

// scenario spawns a vehicle, requests a tow over the network, drains its
// fuel through the state bag and deletes it once empty.
type scenario struct {
	rt  *bridge.Runtime
	eng *sim.Engine

	res  result
	done bool
}

func newScenario(rt *bridge.Runtime, eng *sim.Engine) *scenario {
	return &scenario{rt: rt, eng: eng}
}

func (s *scenario) Start(ctx context.Context) {
	log := s.rt.Logger()

	host := s.eng.AddPlayer(1, "host")
	s.eng.SetLocalPlayer(host)

	h := s.eng.SpawnVehicle(core.Vector3{X: 10, Y: 20, Z: 30})
	s.eng.Networked(h)
	veh := s.rt.Resolver().NewVehicle(h)
	veh.SetNumberPlate("BRIDGE01")

	s.rt.Events().OnNet(towEvent, func(source engine.ServerID, args ...any) {
		s.res.Events++
		if len(args) == 0 {
			return
		}
		if v, ok := args[0].(*entity.Vehicle); ok {
			log.Info("Tow requested", "plate", v.NumberPlate(), "source", source)
		}
	})
	veh.ListenForStateChange(fuelKey, func(c statebag.Change) {
		s.res.Changes++
		log.Debug("Fuel changed", "bag", c.Bag, "value", c.Value)
	})

	s.rt.Go(ctx, func(ctx context.Context) {
		s.script(ctx, veh)
	})
}

func (s *scenario) script(ctx context.Context, veh *entity.Vehicle) {
	log := s.rt.Logger()
	ctx = logging.ContextWith(ctx, slog.String("script", "tow"), slog.String("plate", veh.NumberPlate()))

	s.res.AnimLoaded = s.rt.Streaming().LoadAnimDict(ctx, keyFobDict, 0)
	s.rt.Audio().PlayMusic(startMusic)

	if err := s.eng.Emit(towEvent, true, s.rt.Resolver().LocalPlayer().ServerID(), events.ToWire(veh)); err != nil {
		log.ErrorContext(ctx, "Failed to emit tow request", "error", err)
	}

	for fuel := 3; fuel >= 0; fuel-- {
		veh.State().Set(fuelKey, fuel, true)
		if err := s.rt.Scheduler().Yield(ctx); err != nil {
			return
		}
	}

	empty := s.rt.WaitFor(ctx, time.Second, func() bool {
		v, _ := veh.State().Get(fuelKey)
		return v == 0
	})
	if !empty {
		log.WarnContext(ctx, "Vehicle never ran dry")
	}

	s.res.SceneRan = s.playKeyFob(ctx, veh)

	pickup := s.rt.Pickup(s.eng.AddPickup(veh.Position()))
	s.eng.CollectPickup(pickup.Handle())
	s.res.Collected = pickup.IsCollected()
	pickup.Delete()

	s.rt.Audio().StopMusic("")
	s.res.Deleted = veh.Delete()
	log.InfoContext(ctx, "Script finished", "collected", s.res.Collected, "deleted", s.res.Deleted)
	s.done = true
}

// playKeyFob runs a one-tick synchronised scene of the local ped locking veh.
func (s *scenario) playKeyFob(ctx context.Context, veh *entity.Vehicle) bool {
	log := s.rt.Logger()
	scene := s.rt.NewNetworkedScene(engine.SceneSpec{Position: veh.Position(), Speed: 1})
	if err := scene.AddPed(s.rt.Resolver().LocalPlayer().Ped(), engine.ScenePed{AnimDict: keyFobDict, AnimName: "fob_click", BlendIn: 8, BlendOut: -8}); err != nil {
		log.WarnContext(ctx, "Failed to add ped to scene", "error", err)
	}
	if err := scene.AddEntity(veh, engine.SceneEntity{AnimDict: keyFobDict, AnimName: "fob_click_veh", Speed: 1}); err != nil {
		log.WarnContext(ctx, "Failed to add vehicle to scene", "error", err)
	}
	scene.Start()
	ran := scene.IsRunning()
	if err := s.rt.Scheduler().Yield(ctx); err != nil {
		return false
	}
	scene.Stop()
	return ran
}

func (s *scenario) Done() bool {
	return s.done
}

func (s *scenario) Result() result {
	return s.res
}
