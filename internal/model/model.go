package model

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

////////////////////////
// DATABASE STRUCTURES //
////////////////////////

// JournalModels lists every table of the journal schema.
var JournalModels = []interface{}{
	&EventRecord{},
	&StateChangeRecord{},
}

// EventRecord is one decoded engine event as it arrived, before handlers ran.
type EventRecord struct {
	ID        uint           `json:"id" gorm:"primarykey;autoIncrement"`
	Time      time.Time      `json:"time" gorm:"index:idx_event_time"`
	Name      string         `json:"name" gorm:"size:255;index:idx_event_name"`
	Networked bool           `json:"networked"`
	Source    int32          `json:"source"`
	Args      datatypes.JSON `json:"args"`
}

func (*EventRecord) TableName() string {
	return "event_records"
}

// StateChangeRecord is one state bag change delivered to a subscriber.
type StateChangeRecord struct {
	ID         uint           `json:"id" gorm:"primarykey;autoIncrement"`
	Time       time.Time      `json:"time" gorm:"index:idx_state_time"`
	Scope      string         `json:"scope" gorm:"size:64;index:idx_state_scope"`
	Bag        string         `json:"bag" gorm:"size:127"`
	Key        string         `json:"key" gorm:"size:127"`
	Value      datatypes.JSON `json:"value"`
	Replicated bool           `json:"replicated"`
}

func (*StateChangeRecord) TableName() string {
	return "state_change_records"
}

// ToJSON encodes v for a JSON column. Maps with non-string keys, as msgpack
// produces, are converted to string-keyed maps first.
func ToJSON(v any) (datatypes.JSON, error) {
	b, err := json.Marshal(normalize(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode journal value: %w", err)
	}
	return datatypes.JSON(b), nil
}

func normalize(v any) any {
	switch x := v.(type) {
	case map[any]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[fmt.Sprint(k)] = normalize(val)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, val := range x {
			out[k] = normalize(val)
		}
		return out
	case []any:
		out := make([]any, len(x))
		for i, val := range x {
			out[i] = normalize(val)
		}
		return out
	default:
		return v
	}
}
