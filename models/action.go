// ABOUTME: Action discriminator for gateway requests
// ABOUTME: Maps the wire-level action strings onto a closed set of operations

package models

// Action selects which upstream operation a gateway request performs.
type Action int

const (
	ActionInvalid Action = iota
	ActionLogin
	ActionCard
	ActionGrades
	ActionAbsences
)

// Wire names used by the gateway's clients.
const (
	actionLoginName    = "login"
	actionCardName     = "carta"
	actionGradesName   = "voti"
	actionAbsencesName = "assenze"
)

// ParseAction converts the request's action string. Matching is exact and
// case-sensitive; anything unrecognised is ActionInvalid.
func ParseAction(s string) Action {
	switch s {
	case actionLoginName:
		return ActionLogin
	case actionCardName:
		return ActionCard
	case actionGradesName:
		return ActionGrades
	case actionAbsencesName:
		return ActionAbsences
	default:
		return ActionInvalid
	}
}

// String returns the wire name of the action, or "invalid".
func (a Action) String() string {
	switch a {
	case ActionLogin:
		return actionLoginName
	case ActionCard:
		return actionCardName
	case ActionGrades:
		return actionGradesName
	case ActionAbsences:
		return actionAbsencesName
	default:
		return "invalid"
	}
}

// RequiresSession reports whether the action needs a userId and session token.
func (a Action) RequiresSession() bool {
	return a == ActionCard || a == ActionGrades || a == ActionAbsences
}
