package rules_test

import (
	"testing"

	"github.com/padelclub/turnero/internal/rules"
	"github.com/padelclub/turnero/internal/turns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryDistance(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected int
		wantErr  bool
	}{
		{name: "same category", a: "5ta", b: "5ta", expected: 0},
		{name: "adjacent", a: "5ta", b: "4ta", expected: 1},
		{name: "two apart", a: "3ra", b: "5ta", expected: 2},
		{name: "four apart", a: "9na", b: "5ta", expected: 4},
		{name: "full ladder", a: "9na", b: "1ra", expected: 8},
		{name: "unknown category", a: "pro", b: "5ta", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := rules.CategoryDistance(tt.a, tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, d)
		})
	}
}

func TestCheckCategory(t *testing.T) {
	nearby := &turns.Turn{
		CategoryRestricted:      true,
		CategoryRestrictionType: turns.RestrictionNearby,
		OrganizerCategory:       "5ta",
	}

	// 3ra is two steps from 5ta and is allowed.
	assert.NoError(t, rules.CheckCategory(nearby, "3ra"))
	// 9na is four steps away and is blocked.
	assert.Error(t, rules.CheckCategory(nearby, "9na"))

	same := &turns.Turn{
		CategoryRestricted:      true,
		CategoryRestrictionType: turns.RestrictionSame,
		OrganizerCategory:       "4ta",
	}
	assert.NoError(t, rules.CheckCategory(same, "4ta"))
	assert.Error(t, rules.CheckCategory(same, "5ta"))

	unrestricted := &turns.Turn{CategoryRestricted: false}
	assert.NoError(t, rules.CheckCategory(unrestricted, "9na"))

	// free_category overrides the restriction entirely.
	free := &turns.Turn{
		CategoryRestricted:      true,
		CategoryRestrictionType: turns.RestrictionSame,
		OrganizerCategory:       "4ta",
		FreeCategory:            true,
	}
	assert.NoError(t, rules.CheckCategory(free, "9na"))
}

func TestCheckCapacity(t *testing.T) {
	assert.NoError(t, rules.CheckCapacity(1, 0, 3))
	assert.NoError(t, rules.CheckCapacity(2, 1, 1))
	assert.Error(t, rules.CheckCapacity(2, 2, 1))
	assert.Error(t, rules.CheckCapacity(4, 0, 1))
	assert.Error(t, rules.CheckCapacity(1, 1, 3))
}

func TestCheckGenderBalance(t *testing.T) {
	counts := map[string]int{rules.GenderMale: 2, rules.GenderFemale: 1}

	// A third male player is never allowed in a mixed match.
	assert.Error(t, rules.CheckGenderBalance(counts, rules.GenderMale))
	// A second female player completes the 2-2 split.
	assert.NoError(t, rules.CheckGenderBalance(counts, rules.GenderFemale))

	assert.Error(t, rules.CheckGenderBalance(counts, "Otro"))

	empty := map[string]int{}
	assert.NoError(t, rules.CheckGenderBalance(empty, rules.GenderMale))
}

func TestCheckSide(t *testing.T) {
	// Mixed match: one gender per side.
	assert.NoError(t, rules.CheckSide(rules.SideDrive, []string{rules.GenderFemale}, rules.GenderMale, true))
	assert.Error(t, rules.CheckSide(rules.SideDrive, []string{rules.GenderMale}, rules.GenderMale, true))

	// Non-mixed match: only the two-per-side cap applies.
	assert.NoError(t, rules.CheckSide(rules.SideReves, []string{rules.GenderMale}, rules.GenderMale, false))
	assert.Error(t, rules.CheckSide(rules.SideReves, []string{rules.GenderMale, rules.GenderMale}, rules.GenderMale, false))

	assert.Error(t, rules.CheckSide("middle", nil, rules.GenderMale, false))
}
