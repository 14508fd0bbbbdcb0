package domain

import "time"

// Well-known entity types, matching the builtin types emitted by hosted
// recognizers. Local recognizers may use any tag; these are the ones the
// prompt coercion logic understands.
const (
	EntityTypeDate = "builtin.datetime.date"
	EntityTypeTime = "builtin.datetime.time"
)

// Entity is a typed piece of data extracted from an utterance by a
// recognizer: a date, a time, a free-form string.
type Entity struct {
	// Type tags the entity, e.g. "builtin.datetime.date".
	Type string `json:"type"`

	// Value is the surface text the entity was extracted from.
	Value string `json:"entity"`

	// Resolution carries recognizer-specific structured data, e.g. a
	// normalized ISO date. Opaque to the engine.
	Resolution map[string]any `json:"resolution,omitempty"`

	Score float64 `json:"score,omitempty"`
}

// Intent is a classified purpose of an utterance, optionally carrying the
// entities extracted alongside it.
type Intent struct {
	Name     string   `json:"intent"`
	Score    float64  `json:"score,omitempty"`
	Entities []Entity `json:"entities,omitempty"`
}

// FindEntity returns the first entity with the given type, or nil.
//
// "First" is deliberate: when an utterance contains several entities of the
// same type ("this Wednesday or Friday"), only the first recognized one is
// used. Changing this would change observable behavior.
func FindEntity(entities []Entity, entityType string) *Entity {
	for i := range entities {
		if entities[i].Type == entityType {
			return &entities[i]
		}
	}
	return nil
}

// timeLayouts are the formats ResolveTime and the time prompt accept for
// raw text input.
var timeLayouts = []string{
	"15:04",
	"3:04 PM",
	"3:04PM",
	"3 PM",
	"2006-01-02 15:04",
	"2006-01-02",
	"Jan 2 15:04",
	"Jan 2",
}

// ResolveTime extracts a concrete time from the first date or time entity,
// falling back to parsing the entity's surface text. Returns false when
// nothing resolvable is present.
func ResolveTime(entities []Entity) (time.Time, bool) {
	ent := FindEntity(entities, EntityTypeTime)
	if ent == nil {
		ent = FindEntity(entities, EntityTypeDate)
	}
	if ent == nil {
		return time.Time{}, false
	}
	if ent.Resolution != nil {
		for _, key := range []string{"time", "date"} {
			if v, ok := ent.Resolution[key].(string); ok && v != "" {
				if t, err := time.Parse(time.RFC3339, v); err == nil {
					return t, true
				}
			}
		}
	}
	return ParseTimeText(ent.Value)
}

// ParseTimeText parses free text against the accepted time layouts.
func ParseTimeText(text string) (time.Time, bool) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
