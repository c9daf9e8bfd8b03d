package entity

import (
	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
)

// DriverSeat is the seat index of the driver.
const DriverSeat = -1

// Vehicle is anything with seats and an engine.
type Vehicle struct {
	*Entity
}

// Kind returns TagVehicle.
func (v *Vehicle) Kind() core.TypeTag {
	return core.TagVehicle
}

// Exists also requires the handle to still be a vehicle.
func (v *Vehicle) Exists() bool {
	return v.Entity.Exists() && v.natives.EntityType(v.handle) == engine.TypeCodeVehicle
}

// EngineHealth returns the engine health, 1000 when undamaged.
func (v *Vehicle) EngineHealth() float64 {
	return v.natives.VehicleEngineHealth(v.handle)
}

// SetEngineHealth sets the engine health.
func (v *Vehicle) SetEngineHealth(health float64) {
	v.natives.SetVehicleEngineHealth(v.handle, health)
}

// NumberPlate returns the plate text.
func (v *Vehicle) NumberPlate() string {
	return v.natives.VehicleNumberPlate(v.handle)
}

// SetNumberPlate sets the plate text.
func (v *Vehicle) SetNumberPlate(plate string) {
	v.natives.SetVehicleNumberPlate(v.handle, plate)
}

// PedOnSeat returns the ped in seat, or nil if the seat is empty.
func (v *Vehicle) PedOnSeat(seat int) *Ped {
	h := v.natives.PedInVehicleSeat(v.handle, seat)
	if h == 0 {
		return nil
	}
	return v.resolver.NewPed(h)
}

// Driver returns the ped in the driver seat, or nil.
func (v *Vehicle) Driver() *Ped {
	return v.PedOnSeat(DriverSeat)
}

// IsSeatFree reports whether nobody occupies seat.
func (v *Vehicle) IsSeatFree(seat int) bool {
	return v.natives.IsVehicleSeatFree(v.handle, seat)
}
