package users

import (
	"testing"

	"github.com/idilsaglam/cusrr/internal/model"
)

func status(s string) *string { return &s }

func TestNoneStatusEmails(t *testing.T) {
	all := []model.User{
		{Email: "a@x.org"},
		{Email: "b@x.org", Status: status(" None ")},
		{Email: "c@x.org", Status: status("accepted")},
		{Email: "d@x.org", Status: status("NULL")},
		{Email: "", Status: status("")},
		{Email: "e@x.org", Status: status("")},
	}
	got := NoneStatusEmails(all)
	want := []string{"a@x.org", "b@x.org", "d@x.org", "e@x.org"}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if JoinEmails(got[:2]) != "a@x.org, b@x.org" {
		t.Errorf("JoinEmails = %q", JoinEmails(got[:2]))
	}
}

func TestCells(t *testing.T) {
	pid := 12
	cells := Cells(model.User{ID: 3, Firstname: "Ada", Lastname: "L", Email: "a@x.org", PresentationID: &pid, Auth: "admin"})
	want := []string{"3", "Ada L", "a@x.org", "—", "12", "—", "admin"}
	for i := range want {
		if cells[i] != want[i] {
			t.Errorf("cell %d = %q, want %q", i, cells[i], want[i])
		}
	}
	if len(cells) != len(Columns) {
		t.Fatalf("cells and columns disagree")
	}
}
