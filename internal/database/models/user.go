package models

import "slices"

// User is the application user record together with its denormalized suggestion lists.
type User struct {
	ID                  string            `bson:"_id"`
	ObjectIdentifier    string            `bson:"object_identifier"` // Identity provider subject
	FirstName           string            `bson:"first_name,omitempty"`
	LastName            string            `bson:"last_name,omitempty"`
	DisplayName         string            `bson:"display_name"`
	EmailAddress        string            `bson:"email_address,omitempty"`
	AuthoredSuggestions []BasicSuggestion `bson:"authored_suggestions"`
	VotedOnSuggestions  []BasicSuggestion `bson:"voted_on_suggestions"`
}

// Basic returns the author reference embedded into suggestions.
func (u *User) Basic() BasicUser {
	return BasicUser{ID: u.ID, DisplayName: u.DisplayName}
}

// AddAuthored records a newly created suggestion on the author's list.
func (u *User) AddAuthored(summary BasicSuggestion) {
	u.AuthoredSuggestions = append(u.AuthoredSuggestions, summary)
}

// HasVotedOn reports whether the voted list holds the suggestion.
func (u *User) HasVotedOn(suggestionID string) bool {
	return slices.ContainsFunc(u.VotedOnSuggestions, func(b BasicSuggestion) bool {
		return b.ID == suggestionID
	})
}

// ApplyVote makes the voted list mirror state for the summarized suggestion.
func (u *User) ApplyVote(summary BasicSuggestion, state VoteState) {
	if state == Voted {
		if !u.HasVotedOn(summary.ID) {
			u.VotedOnSuggestions = append(u.VotedOnSuggestions, summary)
		}
		return
	}
	u.VotedOnSuggestions = slices.DeleteFunc(u.VotedOnSuggestions, func(b BasicSuggestion) bool {
		return b.ID == summary.ID
	})
}

// BasicUser is the author reference embedded in a suggestion.
type BasicUser struct {
	ID          string `bson:"id"`
	DisplayName string `bson:"display_name"`
}
