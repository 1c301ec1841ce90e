// Package model contains the record shapes passed between layers.
package model

import "github.com/okian/diamond/internal/domain/coerce"

// IDField is the store's internal identity field. It never leaves the service
// except on the player roster.
const IDField = "_id"

// Raw field names shared by the source collections.
const (
	FieldAthlete  = "Athlete"
	FieldPoints   = "Points"
	FieldIP       = "IP"
	FieldER       = "ER"
	FieldSingle   = "1B"
	FieldDouble   = "2B"
	FieldTriple   = "3B"
	FieldHomeRun  = "HR"
	FieldSB       = "SB"
	FieldCS       = "CS"
	FieldWalk     = "BB"
	FieldHBP      = "HP"
	FieldSacFly   = "SF"
	FieldSacBunt  = "SH"
	FieldTotalMVP = "Total MVP"
	FieldTotalWin = "Total Win"
)

// Combined table field names.
const (
	FieldPitchingPoints = "PitchingPoints"
	FieldHittingPoints  = "HittingPoints"
	FieldMVPPoints      = "MVPPoints"
	FieldWINPoints      = "WINPoints"
	FieldTotalPoints    = "TotalPoints"
)

// Record is a schemaless document as held by the store. Fields the engine
// does not know about are carried through untouched.
type Record map[string]any

// ID returns the store identity of the record, or "" when it has none.
func (r Record) ID() string {
	return coerce.String(r[IDField])
}

// Athlete returns the athlete key, or "" when it is absent or not a string.
// A numeric Athlete value is treated as absent and the record is skipped.
func (r Record) Athlete() string {
	return coerce.String(r[FieldAthlete])
}

// Clone returns a shallow copy of r.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// DeepClone returns a copy of r that shares no nested map or slice with it.
func (r Record) DeepClone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = deepCopy(v)
	}
	return out
}

func deepCopy(v any) any {
	switch t := v.(type) {
	case Record:
		return t.DeepClone()
	case map[string]any:
		m := make(map[string]any, len(t))
		for k, e := range t {
			m[k] = deepCopy(e)
		}
		return m
	case []any:
		s := make([]any, len(t))
		for i, e := range t {
			s[i] = deepCopy(e)
		}
		return s
	case []Record:
		s := make([]Record, len(t))
		for i, e := range t {
			s[i] = e.DeepClone()
		}
		return s
	default:
		return v
	}
}

// Public returns a copy of r without the identity field.
func (r Record) Public() Record {
	out := r.Clone()
	delete(out, IDField)
	return out
}

// PublicAll strips the identity field from every record.
func PublicAll(records []Record) []Record {
	out := make([]Record, len(records))
	for i, r := range records {
		out[i] = r.Public()
	}
	return out
}
