package model

import "github.com/okian/diamond/internal/domain/coerce"

// CombinedRecord is one athlete's row in the combined table.
type CombinedRecord struct {
	Athlete        string `json:"Athlete"`
	PitchingPoints int    `json:"PitchingPoints"`
	HittingPoints  int    `json:"HittingPoints"`
	MVPPoints      int    `json:"MVPPoints"`
	WINPoints      int    `json:"WINPoints"`
	TotalPoints    int    `json:"TotalPoints"`
}

// Sum returns the four category totals added together.
func (c CombinedRecord) Sum() int {
	return c.PitchingPoints + c.HittingPoints + c.MVPPoints + c.WINPoints
}

// Record converts c into a store document.
func (c CombinedRecord) Record() Record {
	return Record{
		FieldAthlete:        c.Athlete,
		FieldPitchingPoints: c.PitchingPoints,
		FieldHittingPoints:  c.HittingPoints,
		FieldMVPPoints:      c.MVPPoints,
		FieldWINPoints:      c.WINPoints,
		FieldTotalPoints:    c.TotalPoints,
	}
}

// CombinedFrom decodes a combined table document.
func CombinedFrom(r Record) CombinedRecord {
	return CombinedRecord{
		Athlete:        r.Athlete(),
		PitchingPoints: coerce.Int(r[FieldPitchingPoints], 0),
		HittingPoints:  coerce.Int(r[FieldHittingPoints], 0),
		MVPPoints:      coerce.Int(r[FieldMVPPoints], 0),
		WINPoints:      coerce.Int(r[FieldWINPoints], 0),
		TotalPoints:    coerce.Int(r[FieldTotalPoints], 0),
	}
}
