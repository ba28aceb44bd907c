package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"suggestion-tracker/internal/database/models"
)

func reviewState(s *models.Suggestion) string {
	switch {
	case s.ApprovedForRelease:
		return "approved"
	case s.Rejected:
		return "rejected"
	default:
		return "pending"
	}
}

func printSuggestions(out io.Writer, list []models.Suggestion) {
	if len(list) == 0 {
		fmt.Fprintln(out, "No suggestions found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tAUTHOR\tVOTES\tREVIEW\tARCHIVED")
	for i := range list {
		s := &list[i]
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\t%t\n",
			s.ID, s.Suggestion, s.Author.DisplayName, len(s.UserVotes), reviewState(s), s.Archive)
	}
	w.Flush()
}

func printSuggestion(out io.Writer, s *models.Suggestion) {
	status := ""
	if s.SuggestionStatus != nil {
		status = s.SuggestionStatus.StatusName
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", s.ID)
	fmt.Fprintf(w, "Title:\t%s\n", s.Suggestion)
	fmt.Fprintf(w, "Description:\t%s\n", s.Description)
	fmt.Fprintf(w, "Category:\t%s\n", s.Category.CategoryName)
	fmt.Fprintf(w, "Author:\t%s (%s)\n", s.Author.DisplayName, s.Author.ID)
	fmt.Fprintf(w, "Created:\t%s\n", s.DateCreated.Format(time.RFC3339))
	fmt.Fprintf(w, "Votes:\t%d %s\n", len(s.UserVotes), strings.Join(s.UserVotes, ","))
	fmt.Fprintf(w, "Review:\t%s\n", reviewState(s))
	fmt.Fprintf(w, "Status:\t%s\n", status)
	fmt.Fprintf(w, "Notes:\t%s\n", s.OwnerNotes)
	fmt.Fprintf(w, "Archived:\t%t\n", s.Archive)
	w.Flush()
}

func printUsers(out io.Writer, users []models.User) {
	if len(users) == 0 {
		fmt.Fprintln(out, "No users found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDISPLAY_NAME\tOBJECT_ID\tAUTHORED\tVOTED")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\n",
			u.ID, u.DisplayName, u.ObjectIdentifier, len(u.AuthoredSuggestions), len(u.VotedOnSuggestions))
	}
	w.Flush()
}

func printUser(out io.Writer, u *models.User) {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "ID:\t%s\n", u.ID)
	fmt.Fprintf(w, "Display name:\t%s\n", u.DisplayName)
	fmt.Fprintf(w, "Name:\t%s\n", strings.TrimSpace(u.FirstName+" "+u.LastName))
	fmt.Fprintf(w, "Email:\t%s\n", u.EmailAddress)
	fmt.Fprintf(w, "Object ID:\t%s\n", u.ObjectIdentifier)
	for _, b := range u.AuthoredSuggestions {
		fmt.Fprintf(w, "Authored:\t%s %s\n", b.ID, b.Suggestion)
	}
	for _, b := range u.VotedOnSuggestions {
		fmt.Fprintf(w, "Voted on:\t%s %s\n", b.ID, b.Suggestion)
	}
	w.Flush()
}

func printStatuses(out io.Writer, statuses []models.Status) {
	if len(statuses) == 0 {
		fmt.Fprintln(out, "No statuses found")
		return
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, s := range statuses {
		fmt.Fprintf(w, "%s\t%s\t%s\n", s.ID, s.StatusName, s.StatusDescription)
	}
	w.Flush()
}
