package models

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// ErrInvalidSuggestion is returned when a suggestion violates a model invariant.
var ErrInvalidSuggestion = errors.New("invalid suggestion")

// VoteState is the vote relation between one user and one suggestion.
type VoteState int

const (
	NotVoted VoteState = iota
	Voted
)

func (v VoteState) String() string {
	if v == Voted {
		return "voted"
	}
	return "not_voted"
}

// Suggestion represents a user suggestion stored in the database.
type Suggestion struct {
	ID                 string    `bson:"_id"`
	Suggestion         string    `bson:"suggestion"` // Short title shown in lists
	Description        string    `bson:"description"`
	DateCreated        time.Time `bson:"date_created"`
	Category           Category  `bson:"category"`
	Author             BasicUser `bson:"author"`
	UserVotes          []string  `bson:"user_votes"` // Set of voting user IDs
	SuggestionStatus   *Status   `bson:"suggestion_status,omitempty"`
	OwnerNotes         string    `bson:"owner_notes,omitempty"`
	ApprovedForRelease bool      `bson:"approved_for_release"`
	Archive            bool      `bson:"archive"`
	Rejected           bool      `bson:"rejected"`
}

// Validate checks the invariants a suggestion must hold before it is written.
func (s *Suggestion) Validate() error {
	if s.ApprovedForRelease && s.Rejected {
		return fmt.Errorf("%w: suggestion %q cannot be both approved and rejected", ErrInvalidSuggestion, s.ID)
	}
	if s.Author.ID == "" {
		return fmt.Errorf("%w: author is required", ErrInvalidSuggestion)
	}
	return nil
}

// VoteStateFor reports whether userID currently has a vote on the suggestion.
func (s *Suggestion) VoteStateFor(userID string) VoteState {
	if slices.Contains(s.UserVotes, userID) {
		return Voted
	}
	return NotVoted
}

// ToggleVote flips the vote state of userID and returns the new state.
// A user holds at most one vote: repeated entries are collapsed on removal.
func (s *Suggestion) ToggleVote(userID string) VoteState {
	if s.VoteStateFor(userID) == Voted {
		s.UserVotes = slices.DeleteFunc(s.UserVotes, func(id string) bool { return id == userID })
		return NotVoted
	}
	s.UserVotes = append(s.UserVotes, userID)
	return Voted
}

// Basic returns the denormalized summary stored on user records.
func (s *Suggestion) Basic() BasicSuggestion {
	return BasicSuggestion{ID: s.ID, Suggestion: s.Suggestion}
}

// BasicSuggestion is the minimal projection kept in a user's authored and voted lists.
type BasicSuggestion struct {
	ID         string `bson:"id"`
	Suggestion string `bson:"suggestion"`
}
