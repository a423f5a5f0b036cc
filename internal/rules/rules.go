package rules

import (
	"fmt"

	"github.com/padelclub/turnero/internal/turns"
)

// Player genders as stored; the club roster uses the Spanish terms.
const (
	GenderMale   = "Masculino"
	GenderFemale = "Femenino"
)

// Court sides.
const (
	SideDrive = "drive"
	SideReves = "reves"
)

// MaxPerGender is the hard cap per gender in a mixed match. Four slots
// and two genders leave no other split than 2-2 at full occupancy.
const MaxPerGender = 2

// NearbyDistance is the maximum category ladder distance allowed under
// NEARBY_CATEGORIES restriction.
const NearbyDistance = 2

// categoryNumbers maps the club's category ladder to comparable ranks,
// 9na (beginner) down to 1ra (top).
var categoryNumbers = map[string]int{
	"9na": 9,
	"8va": 8,
	"7ma": 7,
	"6ta": 6,
	"5ta": 5,
	"4ta": 4,
	"3ra": 3,
	"2da": 2,
	"1ra": 1,
}

// CategoryNumber returns the ladder rank of a category.
func CategoryNumber(category string) (int, bool) {
	n, ok := categoryNumbers[category]
	return n, ok
}

// CategoryDistance returns the absolute ladder distance between two
// categories.
func CategoryDistance(a, b string) (int, error) {
	na, ok := categoryNumbers[a]
	if !ok {
		return 0, fmt.Errorf("unknown category %q", a)
	}
	nb, ok := categoryNumbers[b]
	if !ok {
		return 0, fmt.Errorf("unknown category %q", b)
	}
	d := na - nb
	if d < 0 {
		d = -d
	}
	return d, nil
}

// IsValidGender reports whether g is a known gender value.
func IsValidGender(g string) bool {
	return g == GenderMale || g == GenderFemale
}

// IsValidSide reports whether s is a known court side.
func IsValidSide(s string) bool {
	return s == SideDrive || s == SideReves
}

// CheckCategory validates a candidate's category against the turn's
// restriction. Turns without an effective restriction accept anyone.
func CheckCategory(turn *turns.Turn, candidateCategory string) error {
	if !turn.CategoryRestricted || turn.FreeCategory {
		return nil
	}
	switch turn.CategoryRestrictionType {
	case turns.RestrictionNone:
		return nil
	case turns.RestrictionSame:
		if candidateCategory != turn.OrganizerCategory {
			return fmt.Errorf("turn is restricted to category %s", turn.OrganizerCategory)
		}
		return nil
	case turns.RestrictionNearby:
		d, err := CategoryDistance(turn.OrganizerCategory, candidateCategory)
		if err != nil {
			return err
		}
		if d > NearbyDistance {
			return fmt.Errorf("category %s is too far from %s (distance %d)", candidateCategory, turn.OrganizerCategory, d)
		}
		return nil
	default:
		return fmt.Errorf("unknown category restriction %q", turn.CategoryRestrictionType)
	}
}

// CheckCapacity validates that adding n players keeps the turn within
// its four slots, counting both confirmed players and pending invitations.
func CheckCapacity(confirmed, pending, adding int) error {
	if confirmed+pending+adding > turns.SlotCount {
		return fmt.Errorf("turn capacity exceeded: %d confirmed, %d pending, %d new", confirmed, pending, adding)
	}
	return nil
}

// CheckGenderBalance validates that admitting one more player of the
// given gender keeps a mixed match balanced. counts must cover every
// player already committed or pending, organizer included.
func CheckGenderBalance(counts map[string]int, gender string) error {
	if !IsValidGender(gender) {
		return fmt.Errorf("unknown gender %q", gender)
	}
	if counts[gender]+1 > MaxPerGender {
		return fmt.Errorf("mixed match already has %d %s players", counts[gender], gender)
	}
	return nil
}

// CheckSide validates that the player fits on the requested side.
// sideGenders holds the genders of the players already confirmed on
// that side. Mixed matches additionally require one player of each
// gender per side.
func CheckSide(side string, sideGenders []string, gender string, mixed bool) error {
	if !IsValidSide(side) {
		return fmt.Errorf("unknown side %q", side)
	}
	if len(sideGenders) >= 2 {
		return fmt.Errorf("side %s is already full", side)
	}
	if mixed {
		for _, g := range sideGenders {
			if g == gender {
				return fmt.Errorf("side %s already has a %s player", side, gender)
			}
		}
	}
	return nil
}
