package models

import "fmt"

// Side indexes the two score columns of a match. SideA is always index 0,
// so a Side can be used directly to address a Pair.
type Side int

const (
	SideA Side = 0
	SideB Side = 1
)

func (s Side) Valid() bool {
	return s == SideA || s == SideB
}

func (s Side) Other() Side {
	if s == SideA {
		return SideB
	}
	return SideA
}

func (s Side) String() string {
	switch s {
	case SideA:
		return "A"
	case SideB:
		return "B"
	default:
		return fmt.Sprintf("Side(%d)", int(s))
	}
}

// ParticipantNumber maps a side to the 1-based participant numbering used
// by overlay and display clients.
func (s Side) ParticipantNumber() int {
	return int(s) + 1
}

// ParseSide accepts the side spellings that appear in command payloads:
// "A"/"B" (either case) and the 1-based participant numbers "1"/"2".
func ParseSide(raw string) (Side, error) {
	switch raw {
	case "A", "a", "1":
		return SideA, nil
	case "B", "b", "2":
		return SideB, nil
	default:
		return 0, fmt.Errorf("unrecognized side %q", raw)
	}
}

// SideFromParticipantNumber converts the 1-based numbering back to a Side.
func SideFromParticipantNumber(n int) (Side, error) {
	switch n {
	case 1:
		return SideA, nil
	case 2:
		return SideB, nil
	default:
		return 0, fmt.Errorf("unrecognized participant number %d", n)
	}
}
