package livedata

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/courtsidehq/courtside/models"
)

// ParseError reports the first snapshot value that could not be converted
// to the canonical model. Field is the JSON path of the offending value.
type ParseError struct {
	Field string
	Msg   string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("live data: %s: %s", e.Field, e.Msg)
}

func parseErrorf(field, format string, args ...interface{}) *ParseError {
	return &ParseError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// rawSnapshot holds every key spelling known feeds use. Polymorphic values
// stay raw until a shape-specific parser claims them.
type rawSnapshot struct {
	Sets json.RawMessage `json:"sets"`

	CurrentSetGames      json.RawMessage `json:"current_set_games"`
	CurrentSetGamesCamel json.RawMessage `json:"currentSetGames"`

	CurrentGamePoints      json.RawMessage `json:"current_game_points"`
	CurrentGamePointsCamel json.RawMessage `json:"currentGamePoints"`

	CurrentSetPoints      json.RawMessage `json:"current_set_points"`
	CurrentSetPointsCamel json.RawMessage `json:"currentSetPoints"`

	TiebreakPoints      json.RawMessage `json:"tiebreak_points"`
	TiebreakPointsCamel json.RawMessage `json:"tiebreakPoints"`
	TiebreakScore       json.RawMessage `json:"tiebreak_score"`
	TiebreakScoreCamel  json.RawMessage `json:"tiebreakScore"`

	IsTiebreak      *bool `json:"is_tiebreak"`
	IsTiebreakCamel *bool `json:"isTiebreak"`

	IsMatchComplete      *bool `json:"is_match_complete"`
	IsMatchCompleteCamel *bool `json:"isMatchComplete"`

	CurrentSetNumber *int `json:"current_set_number"`
	CurrentSetSnake  *int `json:"current_set"`
	CurrentSetCamel  *int `json:"currentSet"`

	ServingSide      json.RawMessage `json:"serving_side"`
	ServingSideCamel json.RawMessage `json:"servingSide"`

	ServingParticipant      *int `json:"servingParticipant"`
	ServingParticipantSnake *int `json:"serving_participant"`
	ServingPlayer           *int `json:"servingPlayer"`
	ServingPlayerSnake      *int `json:"serving_player"`

	FirstServerOfSet      json.RawMessage `json:"first_server_of_set"`
	FirstServerOfSetCamel json.RawMessage `json:"firstServerOfSet"`

	Score json.RawMessage `json:"score"`
}

// rawScore is the flat summary object tennis feeds send. Sets and games are
// numbers; points may be numbers or display labels.
type rawScore struct {
	Player1Sets      *int `json:"player1_sets"`
	Player1SetsCamel *int `json:"player1Sets"`
	Player2Sets      *int `json:"player2_sets"`
	Player2SetsCamel *int `json:"player2Sets"`

	Player1Games      *int `json:"player1_games"`
	Player1GamesCamel *int `json:"player1Games"`
	Player2Games      *int `json:"player2_games"`
	Player2GamesCamel *int `json:"player2Games"`

	Player1Points      json.RawMessage `json:"player1_points"`
	Player1PointsCamel json.RawMessage `json:"player1Points"`
	Player2Points      json.RawMessage `json:"player2_points"`
	Player2PointsCamel json.RawMessage `json:"player2Points"`
}

// ParseSnapshot converts one external scoreboard document into canonical
// state. It accepts the union of shapes known feeds produce: score pairs
// as positional arrays or per-player objects, snake_case or camelCase
// keys, a flat score summary object, points as ordinal numbers or display
// labels ("0"/"15"/"30"/"40"/"AD"/"love"; numeric label strings outside
// that set pass through as tiebreak counts). Unknown keys are ignored so
// feeds may carry extra metadata, but any recognized key holding a value
// the parser cannot convert fails with a *ParseError, as does a snapshot
// with no serve indicator or no score fields at all.
func ParseSnapshot(data []byte) (models.MatchState, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return models.MatchState{}, parseErrorf("snapshot", "malformed document: %v", err)
	}

	serving, err := resolveServing(raw)
	if err != nil {
		return models.MatchState{}, err
	}
	state := models.NewMatchState(serving)

	// Feeds do not carry the set opener; fall back to the current server.
	if fs := pickRaw(raw.FirstServerOfSet, raw.FirstServerOfSetCamel); fs != nil {
		side, err := parseSnapshotSide("first_server_of_set", fs)
		if err != nil {
			return models.MatchState{}, err
		}
		state.FirstServerOfSet = side
	}

	sawScore := false

	if raw.Sets != nil && !isNull(raw.Sets) {
		sets, err := parseSets(raw.Sets)
		if err != nil {
			return models.MatchState{}, err
		}
		state.Sets = sets
		sawScore = true
	}

	if r := pickRaw(raw.CurrentSetGames, raw.CurrentSetGamesCamel); r != nil {
		if state.CurrentSetGames, err = parsePair("current_set_games", r, parseCount); err != nil {
			return models.MatchState{}, err
		}
		sawScore = true
	}
	if r := pickRaw(raw.CurrentGamePoints, raw.CurrentGamePointsCamel); r != nil {
		if state.CurrentGamePoints, err = parsePair("current_game_points", r, parsePointValue); err != nil {
			return models.MatchState{}, err
		}
		sawScore = true
	}
	if r := pickRaw(raw.CurrentSetPoints, raw.CurrentSetPointsCamel); r != nil {
		if state.CurrentSetPoints, err = parsePair("current_set_points", r, parseCount); err != nil {
			return models.MatchState{}, err
		}
		sawScore = true
	}
	if r := pickRaw(raw.TiebreakPoints, raw.TiebreakPointsCamel, raw.TiebreakScore, raw.TiebreakScoreCamel); r != nil {
		if state.TiebreakPoints, err = parsePair("tiebreak_points", r, parseCount); err != nil {
			return models.MatchState{}, err
		}
		sawScore = true
	}

	if raw.Score != nil && !isNull(raw.Score) {
		if err := applyScoreSummary(raw, &state); err != nil {
			return models.MatchState{}, err
		}
		sawScore = true
	}

	if !sawScore {
		return models.MatchState{}, parseErrorf("snapshot", "no recognizable score fields")
	}

	state.IsTiebreak = pickBool(raw.IsTiebreak, raw.IsTiebreakCamel)
	state.IsMatchComplete = pickBool(raw.IsMatchComplete, raw.IsMatchCompleteCamel)
	if !state.IsTiebreak && !state.TiebreakPoints.IsZero() {
		return models.MatchState{}, parseErrorf("tiebreak_points", "tiebreak points %d-%d while no tiebreak is in progress",
			state.TiebreakPoints.Get(models.SideA), state.TiebreakPoints.Get(models.SideB))
	}

	state.CurrentSetNumber = len(state.Sets) + 1
	if n := pickInt(raw.CurrentSetNumber, raw.CurrentSetSnake, raw.CurrentSetCamel); n != nil {
		if *n != len(state.Sets)+1 {
			return models.MatchState{}, parseErrorf("current_set", "set number %d disagrees with %d completed sets", *n, len(state.Sets))
		}
	}

	return state, nil
}

func applyScoreSummary(raw rawSnapshot, state *models.MatchState) error {
	var score rawScore
	if err := json.Unmarshal(raw.Score, &score); err != nil {
		return parseErrorf("score", "malformed score object: %v", err)
	}

	// State-style keys win over the summary when both are present.
	if pickRaw(raw.CurrentSetGames, raw.CurrentSetGamesCamel) == nil {
		g1 := pickInt(score.Player1Games, score.Player1GamesCamel)
		g2 := pickInt(score.Player2Games, score.Player2GamesCamel)
		switch {
		case g1 != nil && g2 == nil:
			return parseErrorf("score.player2Games", "missing value")
		case g1 == nil && g2 != nil:
			return parseErrorf("score.player1Games", "missing value")
		case g1 != nil:
			if *g1 < 0 || *g2 < 0 {
				return parseErrorf("score.player1Games", "negative game count %d-%d", *g1, *g2)
			}
			state.CurrentSetGames = models.NewPair(*g1, *g2)
		}
	}

	if pickRaw(raw.CurrentGamePoints, raw.CurrentGamePointsCamel) == nil {
		p1 := pickRaw(score.Player1Points, score.Player1PointsCamel)
		p2 := pickRaw(score.Player2Points, score.Player2PointsCamel)
		switch {
		case p1 != nil && p2 == nil:
			return parseErrorf("score.player2Points", "missing value")
		case p1 == nil && p2 != nil:
			return parseErrorf("score.player1Points", "missing value")
		case p1 != nil:
			if isAdLabel(p1) && isAdLabel(p2) {
				return parseErrorf("score.player2Points", "both sides cannot hold advantage")
			}
			a, err := parsePointValue("score.player1Points", p1)
			if err != nil {
				return err
			}
			b, err := parsePointValue("score.player2Points", p2)
			if err != nil {
				return err
			}
			state.CurrentGamePoints = models.NewPair(a, b)
		}
	}

	s1 := pickInt(score.Player1Sets, score.Player1SetsCamel)
	s2 := pickInt(score.Player2Sets, score.Player2SetsCamel)
	if s1 != nil || s2 != nil {
		a, b := 0, 0
		if s1 != nil {
			a = *s1
		}
		if s2 != nil {
			b = *s2
		}
		if (raw.Sets == nil || isNull(raw.Sets)) && (a != 0 || b != 0) {
			return parseErrorf("sets", "set summary %d-%d without per-set detail", a, b)
		}
		if a != state.SetsWon(models.SideA) || b != state.SetsWon(models.SideB) {
			return parseErrorf("score.player1Sets", "set summary %d-%d disagrees with sets detail", a, b)
		}
	}
	return nil
}

func resolveServing(raw rawSnapshot) (models.Side, error) {
	if r := pickRaw(raw.ServingSide, raw.ServingSideCamel); r != nil {
		return parseSnapshotSide("serving_side", r)
	}
	if n := pickInt(raw.ServingParticipant, raw.ServingParticipantSnake, raw.ServingPlayer, raw.ServingPlayerSnake); n != nil {
		side, err := models.SideFromParticipantNumber(*n)
		if err != nil {
			return 0, parseErrorf("servingParticipant", "participant number must be 1 or 2, got %d", *n)
		}
		return side, nil
	}
	return 0, parseErrorf("servingParticipant", "snapshot carries no serve indicator")
}

// parseSnapshotSide accepts the model's side index (0/1) or a letter.
// Digit strings are rejected here: "1" would be ambiguous between side
// index and participant number.
func parseSnapshotSide(field string, raw json.RawMessage) (models.Side, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		s := models.Side(n)
		if !s.Valid() {
			return 0, parseErrorf(field, "side index must be 0 or 1, got %d", n)
		}
		return s, nil
	}
	var letter string
	if err := json.Unmarshal(raw, &letter); err == nil {
		switch strings.ToUpper(strings.TrimSpace(letter)) {
		case "A":
			return models.SideA, nil
		case "B":
			return models.SideB, nil
		}
		return 0, parseErrorf(field, "unknown side %q", letter)
	}
	return 0, parseErrorf(field, "expected a side index or letter")
}

// parseSets accepts an array of set entries or the keyed object form
// ({"1": {...}, "2": {...}}). Entries carrying completed:false describe
// the set still in progress and are skipped.
func parseSets(raw json.RawMessage) ([]models.Pair, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err == nil {
		return parseSetList(items)
	}

	var keyed map[string]json.RawMessage
	if err := json.Unmarshal(raw, &keyed); err != nil {
		return nil, parseErrorf("sets", "expected an array or keyed object")
	}
	type numbered struct {
		n   int
		raw json.RawMessage
	}
	ordered := make([]numbered, 0, len(keyed))
	for k, v := range keyed {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, parseErrorf("sets", "set key %q is not a number", k)
		}
		ordered = append(ordered, numbered{n, v})
	}
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].n < ordered[j].n })
	items = make([]json.RawMessage, 0, len(ordered))
	for _, e := range ordered {
		items = append(items, e.raw)
	}
	return parseSetList(items)
}

func parseSetList(items []json.RawMessage) ([]models.Pair, error) {
	sets := make([]models.Pair, 0, len(items))
	for i, item := range items {
		field := fmt.Sprintf("sets[%d]", i)
		var flags struct {
			Completed *bool `json:"completed"`
		}
		if json.Unmarshal(item, &flags) == nil && flags.Completed != nil && !*flags.Completed {
			continue
		}
		pair, err := parsePair(field, item, parseCount)
		if err != nil {
			return nil, err
		}
		if pair[models.SideA] == pair[models.SideB] {
			return nil, parseErrorf(field, "tied set score %d-%d", pair[models.SideA], pair[models.SideB])
		}
		sets = append(sets, pair)
	}
	return sets, nil
}

type valueParser func(field string, raw json.RawMessage) (int, error)

var pairKeys = [2][]string{
	{"player1", "player1Games", "player1_games", "player1Points", "player1_points"},
	{"player2", "player2Games", "player2_games", "player2Points", "player2_points"},
}

// parsePair accepts a positional [a, b] array or a per-player object in
// any of the known key spellings.
func parsePair(field string, raw json.RawMessage, value valueParser) (models.Pair, error) {
	var arr []json.RawMessage
	if err := json.Unmarshal(raw, &arr); err == nil {
		if len(arr) != 2 {
			return models.Pair{}, parseErrorf(field, "expected exactly two entries, got %d", len(arr))
		}
		a, err := value(field+"[0]", arr[0])
		if err != nil {
			return models.Pair{}, err
		}
		b, err := value(field+"[1]", arr[1])
		if err != nil {
			return models.Pair{}, err
		}
		return models.NewPair(a, b), nil
	}

	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return models.Pair{}, parseErrorf(field, "expected a pair array or per-player object")
	}
	var out models.Pair
	for side, keys := range pairKeys {
		found := false
		for _, k := range keys {
			if v, ok := obj[k]; ok {
				n, err := value(field+"."+k, v)
				if err != nil {
					return models.Pair{}, err
				}
				out[side] = n
				found = true
				break
			}
		}
		if !found {
			return models.Pair{}, parseErrorf(field, "missing player%d value", side+1)
		}
	}
	return out, nil
}

func parseCount(field string, raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err != nil {
		return 0, parseErrorf(field, "expected a number")
	}
	if n < 0 {
		return 0, parseErrorf(field, "negative score %d", n)
	}
	return n, nil
}

// parsePointValue accepts an ordinal number or a display label. Labels map
// to the ordinal count the engine tracks: 0/15/30/40 to 0..3, AD to 4.
func parsePointValue(field string, raw json.RawMessage) (int, error) {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		if n < 0 {
			return 0, parseErrorf(field, "negative score %d", n)
		}
		return n, nil
	}
	var label string
	if err := json.Unmarshal(raw, &label); err != nil {
		return 0, parseErrorf(field, "expected a number or point label")
	}
	switch strings.ToLower(strings.TrimSpace(label)) {
	case "0", "love":
		return 0, nil
	case "15":
		return 1, nil
	case "30":
		return 2, nil
	case "40":
		return 3, nil
	case "a", "ad", "advantage":
		return 4, nil
	}
	if n, err := strconv.Atoi(strings.TrimSpace(label)); err == nil && n >= 0 {
		return n, nil
	}
	return 0, parseErrorf(field, "unknown point label %q", label)
}

func isAdLabel(raw json.RawMessage) bool {
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "a", "ad", "advantage":
		return true
	}
	return false
}

func isNull(raw json.RawMessage) bool {
	return string(raw) == "null"
}

func pickRaw(values ...json.RawMessage) json.RawMessage {
	for _, v := range values {
		if v != nil && !isNull(v) {
			return v
		}
	}
	return nil
}

func pickInt(values ...*int) *int {
	for _, v := range values {
		if v != nil {
			return v
		}
	}
	return nil
}

func pickBool(values ...*bool) bool {
	for _, v := range values {
		if v != nil {
			return *v
		}
	}
	return false
}
