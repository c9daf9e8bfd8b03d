// Package events decodes engine event payloads and rebuilds the rich values
// scripts sent across the wire.
package events

import (
	"fmt"
	"reflect"

	"github.com/vmihailenco/msgpack"
	"github.com/xiaonanln/typeconv"

	"github.com/handlebridge/bridge/pkg/core"
	"github.com/handlebridge/bridge/pkg/engine"
	"github.com/handlebridge/bridge/pkg/entity"
)

// Record field names used by tagged arguments.
const (
	fieldHandle = "handle"
	fieldNetID  = "netId"
	fieldSource = "source"
)

// Resolver is what the Marshaller needs to turn ids back into objects.
type Resolver interface {
	PedFromNetworkID(id engine.NetworkID) *entity.Ped
	PropFromNetworkID(id engine.NetworkID) *entity.Prop
	VehicleFromNetworkID(id engine.NetworkID) *entity.Vehicle
	FromNetworkID(id engine.NetworkID) entity.Variant
	PlayerFromServerID(id engine.ServerID) *entity.Player
}

// Marshaller rebuilds tagged event arguments.
type Marshaller struct {
	resolver Resolver
}

// NewMarshaller creates a Marshaller resolving identities through r.
func NewMarshaller(r Resolver) *Marshaller {
	return &Marshaller{resolver: r}
}

// DecodeEnvelope decodes a msgpack argument array.
func DecodeEnvelope(payload []byte) ([]any, error) {
	if len(payload) == 0 {
		return []any{}, nil
	}
	var args []any
	if err := msgpack.Unmarshal(payload, &args); err != nil {
		return nil, fmt.Errorf("decoding event payload: %w", err)
	}
	if args == nil {
		args = []any{}
	}
	return args, nil
}

// EncodeEnvelope encodes args as a msgpack array, tagging rich values.
func EncodeEnvelope(args ...any) ([]byte, error) {
	wire := make([]any, len(args))
	for i, a := range args {
		wire[i] = ToWire(a)
	}
	payload, err := msgpack.Marshal(wire)
	if err != nil {
		return nil, fmt.Errorf("encoding event payload: %w", err)
	}
	return payload, nil
}

// Marshal returns args with every recognized tagged record replaced by the
// value or object it describes. Untagged values, unknown tags and records
// missing their identifying field are passed through unchanged. Order and
// length are preserved.
func (m *Marshaller) Marshal(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = m.convert(arg)
	}
	return out
}

func (m *Marshaller) convert(arg any) any {
	rec, ok := asRecord(arg)
	if !ok {
		return arg
	}
	raw, ok := rec[core.TagKey]
	if !ok {
		return arg
	}
	n, ok := toInt(raw)
	if !ok {
		return arg
	}

	switch core.TypeTag(n) {
	case core.TagVector2:
		return core.Vector2{X: field(rec, "x"), Y: field(rec, "y")}
	case core.TagVector3:
		return core.Vector3{X: field(rec, "x"), Y: field(rec, "y"), Z: field(rec, "z")}
	case core.TagVector4:
		return core.Vector4{X: field(rec, "x"), Y: field(rec, "y"), Z: field(rec, "z"), W: field(rec, "w")}
	case core.TagPed:
		if id, ok := intField(rec, fieldHandle); ok {
			return absentIfNil(m.resolver.PedFromNetworkID(engine.NetworkID(id)))
		}
	case core.TagPlayer:
		if id, ok := intField(rec, fieldSource); ok {
			return absentIfNil(m.resolver.PlayerFromServerID(engine.ServerID(id)))
		}
	case core.TagProp:
		if id, ok := intField(rec, fieldHandle); ok {
			return absentIfNil(m.resolver.PropFromNetworkID(engine.NetworkID(id)))
		}
	case core.TagVehicle:
		if id, ok := intField(rec, fieldNetID); ok {
			return absentIfNil(m.resolver.VehicleFromNetworkID(engine.NetworkID(id)))
		}
	case core.TagEntity:
		if id, ok := intField(rec, fieldNetID); ok {
			if v := m.resolver.FromNetworkID(engine.NetworkID(id)); v != nil {
				return v
			}
			return nil
		}
	}
	return arg
}

// absentIfNil keeps a nil resolver result from becoming a typed nil inside
// an interface slot.
func absentIfNil[T any](p *T) any {
	if p == nil {
		return nil
	}
	return p
}

// ToWire turns rich values into the tagged records Marshal understands.
// Other values are returned unchanged.
func ToWire(v any) any {
	switch x := v.(type) {
	case core.Vector2:
		return map[string]any{core.TagKey: int(core.TagVector2), "x": x.X, "y": x.Y}
	case core.Vector3:
		return map[string]any{core.TagKey: int(core.TagVector3), "x": x.X, "y": x.Y, "z": x.Z}
	case core.Vector4:
		return map[string]any{core.TagKey: int(core.TagVector4), "x": x.X, "y": x.Y, "z": x.Z, "w": x.W}
	case *entity.Ped:
		return map[string]any{core.TagKey: int(core.TagPed), fieldHandle: int(x.NetworkID())}
	case *entity.Prop:
		return map[string]any{core.TagKey: int(core.TagProp), fieldHandle: int(x.NetworkID())}
	case *entity.Vehicle:
		return map[string]any{core.TagKey: int(core.TagVehicle), fieldNetID: int(x.NetworkID())}
	case *entity.Entity:
		return map[string]any{core.TagKey: int(core.TagEntity), fieldNetID: int(x.NetworkID())}
	case *entity.Player:
		return map[string]any{core.TagKey: int(core.TagPlayer), fieldSource: int(x.ServerID())}
	default:
		return v
	}
}

// asRecord accepts both map shapes msgpack may produce.
func asRecord(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		for k := range m {
			if _, ok := k.(string); !ok {
				return nil, false
			}
		}
		return typeconv.MapStringAnything(m), true
	default:
		return nil, false
	}
}

var float64Type = reflect.TypeOf(float64(0))

func isNumber(v any) bool {
	switch v.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return true
	}
	return false
}

func toFloat(v any) (float64, bool) {
	if !isNumber(v) {
		return 0, false
	}
	return typeconv.Convert(v, float64Type).Float(), true
}

func toInt(v any) (int64, bool) {
	switch v.(type) {
	case float32, float64:
		f, _ := toFloat(v)
		return int64(f), true
	}
	if !isNumber(v) {
		return 0, false
	}
	return typeconv.Int(v), true
}

func field(rec map[string]any, key string) float64 {
	f, _ := toFloat(rec[key])
	return f
}

func intField(rec map[string]any, key string) (int64, bool) {
	return toInt(rec[key])
}
