package core

import "fmt"

// TypeTag discriminates the rich types that travel inside event arguments.
// The numeric values are part of the wire contract and must not be reordered.
type TypeTag int

const (
	TagPed TypeTag = iota
	TagProp
	TagVehicle
	TagEntity
	TagPlayer
	TagVector2
	TagVector3
	TagVector4
	TagQuaternion
)

// TagKey is the record key that carries the TypeTag of a tagged argument.
const TagKey = "type"

var tagNames = [...]string{
	TagPed:        "Ped",
	TagProp:       "Prop",
	TagVehicle:    "Vehicle",
	TagEntity:     "Entity",
	TagPlayer:     "Player",
	TagVector2:    "Vector2",
	TagVector3:    "Vector3",
	TagVector4:    "Vector4",
	TagQuaternion: "Quaternion",
}

// Valid reports whether t is one of the known tags.
func (t TypeTag) Valid() bool {
	return t >= 0 && int(t) < len(tagNames)
}

func (t TypeTag) String() string {
	if !t.Valid() {
		return fmt.Sprintf("TypeTag(%d)", int(t))
	}
	return tagNames[t]
}
