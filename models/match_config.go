package models

// Sport selects which rule set governs a match.
type Sport string

const (
	SportTennis     Sport = "tennis"
	SportVolleyball Sport = "volleyball"
	// SportGeneric is the rule-less variant: the engine only counts, and
	// completion is a manual action.
	SportGeneric Sport = "generic"
)

// FinalSetMode is the explicit policy for the deciding set of a tennis
// match. It is always configured, never inferred from other flags.
type FinalSetMode string

const (
	// FinalSetTiebreak plays the deciding set like any other, with a
	// tiebreak at the trigger score.
	FinalSetTiebreak FinalSetMode = "tiebreak"
	// FinalSetAdvantage plays the deciding set without a tiebreak; it is
	// won by a two-game margin, however long that takes.
	FinalSetAdvantage FinalSetMode = "advantage"
	// FinalSetMatchTiebreak replaces the deciding set with a single
	// tiebreak to MatchTiebreakTargetPoints; the set is recorded 1-0.
	FinalSetMatchTiebreak FinalSetMode = "match_tiebreak"
)

const (
	DefaultTiebreakTriggerGames      = 6
	DefaultTiebreakTargetPoints      = 7
	DefaultMatchTiebreakTargetPoints = 10
	DefaultPointsPerSet              = 25
	DefaultPointsPerDecidingSet      = 15
	DefaultMinLeadToWin              = 2
)

// MatchConfig is fixed at match creation and stored as a JSON column next
// to the live state. Only the fields of the configured sport are consulted
// by the engine; the rest are ignored.
type MatchConfig struct {
	Sport Sport `json:"sport"`

	SetsToWin int `json:"sets_to_win"`

	// Tennis.
	AdScoring                 bool         `json:"ad_scoring"`
	TiebreakTriggerGames      int          `json:"tiebreak_trigger_games"`
	TiebreakTargetPoints      int          `json:"tiebreak_target_points"`
	FinalSetMode              FinalSetMode `json:"final_set_mode"`
	MatchTiebreakTargetPoints int          `json:"match_tiebreak_target_points"`

	// Volleyball.
	PointsPerSet         int `json:"points_per_set"`
	PointsPerDecidingSet int `json:"points_per_deciding_set"`
	MinLeadToWin         int `json:"min_lead_to_win"`
}

// Normalized fills defaults for optional knobs left at their zero value.
// Required fields (Sport, SetsToWin) are not defaulted; validation of the
// result is the scoring package's job. Configs are normalized once, when
// the match is created, so stored configs are always fully explicit.
func (c MatchConfig) Normalized() MatchConfig {
	switch c.Sport {
	case SportTennis:
		if c.TiebreakTriggerGames == 0 {
			c.TiebreakTriggerGames = DefaultTiebreakTriggerGames
		}
		if c.TiebreakTargetPoints == 0 {
			c.TiebreakTargetPoints = DefaultTiebreakTargetPoints
		}
		if c.FinalSetMode == "" {
			c.FinalSetMode = FinalSetTiebreak
		}
		if c.MatchTiebreakTargetPoints == 0 {
			c.MatchTiebreakTargetPoints = DefaultMatchTiebreakTargetPoints
		}
	case SportVolleyball:
		if c.PointsPerSet == 0 {
			c.PointsPerSet = DefaultPointsPerSet
		}
		if c.PointsPerDecidingSet == 0 {
			c.PointsPerDecidingSet = DefaultPointsPerDecidingSet
		}
		if c.MinLeadToWin == 0 {
			c.MinLeadToWin = DefaultMinLeadToWin
		}
	}
	return c
}

// DecidingSetIndex is the zero-based index of the last possible set: a
// best-of-(2k-1) match has its deciding set at index 2k-2.
func (c MatchConfig) DecidingSetIndex() int {
	return 2*c.SetsToWin - 2
}
