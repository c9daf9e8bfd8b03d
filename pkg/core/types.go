// pkg/core/types.go
package core

import "math"

// Vector2 is a 2D value reconstructed from event arguments.
type Vector2 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
}

// Vector3 is a position, rotation or velocity as reported by the engine.
type Vector3 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
}

// Vector4 is a 4D value reconstructed from event arguments.
type Vector4 struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
	W float64 `json:"w" msgpack:"w"`
}

// Quaternion is an entity orientation.
type Quaternion struct {
	X float64 `json:"x" msgpack:"x"`
	Y float64 `json:"y" msgpack:"y"`
	Z float64 `json:"z" msgpack:"z"`
	W float64 `json:"w" msgpack:"w"`
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Dot returns the dot product of v and o.
func (v Vector3) Dot(o Vector3) float64 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// DistanceSquared returns the squared distance between v and o.
func (v Vector3) DistanceSquared(o Vector3) float64 {
	d := v.Sub(o)
	return d.Dot(d)
}

// Length returns the magnitude of v.
func (v Vector3) Length() float64 {
	return math.Sqrt(v.Dot(v))
}
