package brackets

import (
	"testing"

	"github.com/courtsidehq/courtside/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestRouteForWinner(t *testing.T) {
	m := &models.Match{
		ID:            10,
		BracketType:   models.BracketSingleElimination,
		NextMatchDBID: intPtr(20),
		WinnerToSlot:  intPtr(2),
	}

	route, ok := RouteForWinner(m)
	require.True(t, ok)
	assert.Equal(t, Route{MatchID: 20, Slot: 2}, route)

	final := &models.Match{ID: 30, BracketType: models.BracketSingleElimination}
	_, ok = RouteForWinner(final)
	assert.False(t, ok)
}

func TestRouteForLoser(t *testing.T) {
	m := &models.Match{
		ID:                 10,
		BracketType:        models.BracketDoubleElimination,
		NextMatchDBID:      intPtr(20),
		WinnerToSlot:       intPtr(1),
		LoserNextMatchDBID: intPtr(40),
		LoserToSlot:        intPtr(1),
	}

	route, ok := RouteForLoser(m)
	require.True(t, ok)
	assert.Equal(t, Route{MatchID: 40, Slot: 1}, route)

	// Same wiring on a single-elimination bracket routes nobody.
	m.BracketType = models.BracketSingleElimination
	_, ok = RouteForLoser(m)
	assert.False(t, ok)
}

func TestValidateLinkage(t *testing.T) {
	tests := []struct {
		name    string
		match   models.Match
		wantErr bool
	}{
		{
			name:  "final without routes",
			match: models.Match{ID: 1, BracketType: models.BracketSingleElimination},
		},
		{
			name: "valid winner route",
			match: models.Match{
				ID: 1, BracketType: models.BracketSingleElimination,
				NextMatchDBID: intPtr(2), WinnerToSlot: intPtr(1),
			},
		},
		{
			name: "valid double elimination routes",
			match: models.Match{
				ID: 1, BracketType: models.BracketDoubleElimination,
				NextMatchDBID: intPtr(2), WinnerToSlot: intPtr(1),
				LoserNextMatchDBID: intPtr(3), LoserToSlot: intPtr(2),
			},
		},
		{
			name: "next match without slot",
			match: models.Match{
				ID: 1, BracketType: models.BracketSingleElimination,
				NextMatchDBID: intPtr(2),
			},
			wantErr: true,
		},
		{
			name: "slot out of range",
			match: models.Match{
				ID: 1, BracketType: models.BracketSingleElimination,
				NextMatchDBID: intPtr(2), WinnerToSlot: intPtr(3),
			},
			wantErr: true,
		},
		{
			name: "self reference",
			match: models.Match{
				ID: 1, BracketType: models.BracketSingleElimination,
				NextMatchDBID: intPtr(1), WinnerToSlot: intPtr(1),
			},
			wantErr: true,
		},
		{
			name: "loser route on single elimination",
			match: models.Match{
				ID: 1, BracketType: models.BracketSingleElimination,
				NextMatchDBID: intPtr(2), WinnerToSlot: intPtr(1),
				LoserNextMatchDBID: intPtr(3), LoserToSlot: intPtr(1),
			},
			wantErr: true,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateLinkage(&tc.match)
			if tc.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
