package mastery

import "github.com/abhisek/cramkit/internal/store"

// MasteryState represents an item's position in the mastery lifecycle.
type MasteryState string

const (
	StateNew      MasteryState = "new"
	StateLearning MasteryState = "learning"
	StateWeak     MasteryState = "weak"
	StateMastered MasteryState = "mastered"
)

// StateOf classifies a progress record. A nil record is a new item.
func StateOf(rec *store.ProgressRecord) MasteryState {
	switch {
	case rec == nil:
		return StateNew
	case rec.Mastered():
		return StateMastered
	case rec.Weak():
		return StateWeak
	default:
		return StateLearning
	}
}
