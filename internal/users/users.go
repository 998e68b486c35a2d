// Package users holds the attendee administration helpers.
package users

import (
	"strconv"
	"strings"

	"github.com/idilsaglam/cusrr/internal/model"
)

// NoStatus reports whether a user has not been given a status yet. The
// backend may send null, "", "none" or "null" for that.
func NoStatus(u model.User) bool {
	if u.Status == nil {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(*u.Status)) {
	case "", "none", "null":
		return true
	}
	return false
}

// NoneStatusEmails lists the emails of users without a status, in order.
func NoneStatusEmails(all []model.User) []string {
	var out []string
	for _, u := range all {
		if NoStatus(u) && u.Email != "" {
			out = append(out, u.Email)
		}
	}
	return out
}

// JoinEmails formats addresses for a mail client's To/CC/BCC field.
func JoinEmails(emails []string) string { return strings.Join(emails, ", ") }

// Columns are the table headings matching Cells.
var Columns = []string{"ID", "Name", "Email", "Activity", "Pres. ID", "Status", "Role"}

const missing = "—"

func orMissing(s string) string {
	if s == "" {
		return missing
	}
	return s
}

// Cells renders one user as a table row.
func Cells(u model.User) []string {
	pres := missing
	if u.PresentationID != nil {
		pres = strconv.Itoa(*u.PresentationID)
	}
	name := u.Name
	if name == "" {
		name = strings.TrimSpace(u.Firstname + " " + u.Lastname)
	}
	return []string{
		strconv.Itoa(u.ID),
		orMissing(name),
		orMissing(u.Email),
		orMissing(model.Deref(u.Activity)),
		pres,
		orMissing(model.Deref(u.Status)),
		orMissing(u.Auth),
	}
}
