package model

import "github.com/okian/diamond/internal/domain/coerce"

// PitchingLine is the typed view of a pitching_players document.
type PitchingLine struct {
	ID      string
	Athlete string
	IP      float64
	ER      int
	Points  int
}

// PitchingFrom decodes a pitching document, defaulting unreadable numbers to 0.
func PitchingFrom(r Record) PitchingLine {
	return PitchingLine{
		ID:      r.ID(),
		Athlete: r.Athlete(),
		IP:      coerce.Float(r[FieldIP], 0),
		ER:      coerce.Int(r[FieldER], 0),
		Points:  coerce.Int(r[FieldPoints], 0),
	}
}

// HittingLine is the typed view of a players_hitting document.
type HittingLine struct {
	ID      string
	Athlete string
	Single  int
	Double  int
	Triple  int
	HomeRun int
	SB      int
	CS      int
	Walk    int
	HBP     int
	SacFly  int
	SacBunt int
	Points  int
}

// HittingFrom decodes a hitting document, defaulting absent counts to 0.
func HittingFrom(r Record) HittingLine {
	return HittingLine{
		ID:      r.ID(),
		Athlete: r.Athlete(),
		Single:  coerce.Int(r[FieldSingle], 0),
		Double:  coerce.Int(r[FieldDouble], 0),
		Triple:  coerce.Int(r[FieldTriple], 0),
		HomeRun: coerce.Int(r[FieldHomeRun], 0),
		SB:      coerce.Int(r[FieldSB], 0),
		CS:      coerce.Int(r[FieldCS], 0),
		Walk:    coerce.Int(r[FieldWalk], 0),
		HBP:     coerce.Int(r[FieldHBP], 0),
		SacFly:  coerce.Int(r[FieldSacFly], 0),
		SacBunt: coerce.Int(r[FieldSacBunt], 0),
		Points:  coerce.Int(r[FieldPoints], 0),
	}
}

// MVPLine is the typed view of an MVP_points document.
type MVPLine struct {
	Athlete  string
	TotalMVP int
}

// MVPFrom decodes an MVP document.
func MVPFrom(r Record) MVPLine {
	return MVPLine{Athlete: r.Athlete(), TotalMVP: coerce.Int(r[FieldTotalMVP], 0)}
}

// WinLine is the typed view of a Win_points document.
type WinLine struct {
	Athlete  string
	TotalWin int
}

// WinFrom decodes a Win document.
func WinFrom(r Record) WinLine {
	return WinLine{Athlete: r.Athlete(), TotalWin: coerce.Int(r[FieldTotalWin], 0)}
}
