package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchState(t *testing.T) {
	st := NewMatchState(SideB)

	assert.Empty(t, st.Sets)
	assert.True(t, st.CurrentSetGames.IsZero())
	assert.True(t, st.CurrentGamePoints.IsZero())
	assert.True(t, st.CurrentSetPoints.IsZero())
	assert.False(t, st.IsTiebreak)
	assert.Equal(t, 1, st.CurrentSetNumber)
	assert.Equal(t, SideB, st.ServingSide)
	assert.Equal(t, SideB, st.FirstServerOfSet)
	assert.False(t, st.IsMatchComplete)
}

func TestMatchStateSetsWon(t *testing.T) {
	st := NewMatchState(SideA)
	st.Sets = []Pair{{6, 4}, {3, 6}, {7, 6}}

	assert.Equal(t, 2, st.SetsWon(SideA))
	assert.Equal(t, 1, st.SetsWon(SideB))
}

func TestMatchStateCloneIsIndependent(t *testing.T) {
	st := NewMatchState(SideA)
	st.Sets = []Pair{{6, 4}}
	st.CurrentSetGames = NewPair(3, 2)

	cp := st.Clone()
	cp.Sets[0] = NewPair(0, 6)
	cp.Sets = append(cp.Sets, NewPair(1, 1))
	cp.CurrentSetGames = cp.CurrentSetGames.Incr(SideA)

	assert.Equal(t, []Pair{{6, 4}}, st.Sets)
	assert.Equal(t, NewPair(3, 2), st.CurrentSetGames)
	assert.Equal(t, NewPair(0, 6), cp.Sets[0])
}

func TestMatchStateEqual(t *testing.T) {
	a := NewMatchState(SideA)
	a.Sets = []Pair{{6, 4}}
	a.CurrentSetGames = NewPair(2, 1)

	b := a.Clone()
	assert.True(t, a.Equal(b))

	b.CurrentGamePoints = NewPair(1, 0)
	assert.False(t, a.Equal(b))

	c := a.Clone()
	c.Sets = []Pair{{6, 3}}
	assert.False(t, a.Equal(c))

	d := a.Clone()
	d.Sets = nil
	assert.False(t, a.Equal(d))
}

func TestMatchStateJSONRoundTrip(t *testing.T) {
	st := NewMatchState(SideA)
	st.Sets = []Pair{{7, 6}}
	st.CurrentSetGames = NewPair(4, 4)
	st.IsTiebreak = true
	st.TiebreakPoints = NewPair(3, 5)
	st.CurrentSetNumber = 2

	raw, err := json.Marshal(st)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"sets":[[7,6]]`)
	assert.Contains(t, string(raw), `"serving_side":0`)

	var back MatchState
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, st.Equal(back))
}
