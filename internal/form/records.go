package form

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

// BlockTypes are the selectable schedule block kinds.
var BlockTypes = []string{"Break", "Keynote", "Poster", "Presentation", "Blitz"}

// AssignableBlockTypes are the block kinds a presentation can be placed in.
var AssignableBlockTypes = []string{"poster", "presentation", "blitz"}

// MatchOption finds s among options ignoring case and returns the
// canonical spelling.
func MatchOption(options []string, s string) (string, bool) {
	for _, o := range options {
		if strings.EqualFold(o, s) {
			return o, true
		}
	}
	return "", false
}

// BlockModal is the schedule block editor.
func BlockModal() *Modal {
	return &Modal{
		Title: "Edit block",
		Fields: []Field{
			{Key: "day", Label: "Day"},
			{Key: "title", Label: "Title"},
			{Key: "description", Label: "Description"},
			{Key: "location", Label: "Location"},
			{Key: "block_type", Label: "Type", Options: choices(BlockTypes)},
			{Key: "start_time", Label: "Start", Placeholder: LocalInputLayout},
			{Key: "end_time", Label: "End", Placeholder: LocalInputLayout},
			{Key: "sub_length", Label: "Slot length (min)", Placeholder: "optional"},
		},
	}
}

func FillBlock(b model.Block) Values {
	v := Values{
		"day":         b.Day,
		"title":       b.Title,
		"description": model.Deref(b.Description),
		"location":    model.Deref(b.Location),
		"block_type":  "",
		"start_time":  ToLocalInput(b.StartTime),
		"end_time":    ToLocalInput(b.EndTime),
		"sub_length":  intString(b.SubLength),
	}
	if t, ok := MatchOption(BlockTypes, model.Deref(b.BlockType)); ok {
		v["block_type"] = t
	}
	return v
}

// BlockPayload builds the PUT body. An empty sub_length is dropped; a
// present one must be a whole number of minutes.
func BlockPayload(v Values) (map[string]any, error) {
	if err := v.Required("day", "title"); err != nil {
		return nil, err
	}
	p := v.Payload("sub_length", "block_type", "start_time", "end_time")

	if s, ok := p["sub_length"].(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n <= 0 {
			return nil, apperr.Invalid("sub_length", "must be a positive number of minutes")
		}
		p["sub_length"] = n
	}
	if s, ok := p["block_type"].(string); ok {
		t, found := MatchOption(BlockTypes, s)
		if !found {
			return nil, apperr.Invalid("block_type", "must be one of "+strings.Join(BlockTypes, ", "))
		}
		p["block_type"] = t
	}
	var start, end model.LocalTime
	for _, k := range []string{"start_time", "end_time"} {
		s, ok := p[k].(string)
		if !ok {
			continue
		}
		t, err := ParseLocalInput(k, s)
		if err != nil {
			return nil, err
		}
		p[k] = t.String()
		if k == "start_time" {
			start = t
		} else {
			end = t
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start.Time) {
		return nil, apperr.Invalid("end_time", "ends before it starts")
	}
	delete(p, "id")
	return p, nil
}

// PresentationModal is the presentation editor.
func PresentationModal(blocks []model.Block) *Modal {
	return &Modal{
		Title: "Edit presentation",
		Fields: []Field{
			{Key: "title", Label: "Title"},
			{Key: "abstract", Label: "Abstract"},
			{Key: "subject", Label: "Subject"},
			{Key: "type", Label: "Type"},
			{Key: "time", Label: "Time", Placeholder: LocalInputLayout},
			{Key: "schedule_id", Label: "Schedule block", Placeholder: "Unassigned", Options: ScheduleOptions(blocks)},
		},
	}
}

func FillPresentation(p model.Presentation) Values {
	return Values{
		"title":       p.Title,
		"abstract":    p.Abstract,
		"subject":     p.Subject,
		"type":        model.Deref(p.Type),
		"time":        ToLocalInput(p.Time),
		"schedule_id": intString(p.ScheduleID),
	}
}

// PresentationPayload builds the PUT body. An empty schedule_id means
// "leave as is" and is dropped.
func PresentationPayload(v Values) (map[string]any, error) {
	if err := v.Required("title"); err != nil {
		return nil, err
	}
	p := v.Payload("schedule_id", "time", "type")
	if s, ok := p["schedule_id"].(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, apperr.Invalid("schedule_id", "must be a block id")
		}
		p["schedule_id"] = n
	}
	if s, ok := p["time"].(string); ok {
		t, err := ParseLocalInput("time", s)
		if err != nil {
			return nil, err
		}
		p["time"] = t.String()
	}
	return p, nil
}

// ScheduleOptions lists blocks by day, then start time, after an
// "Unassigned" entry with an empty value.
func ScheduleOptions(blocks []model.Block) []Option {
	sorted := make([]model.Block, len(blocks))
	copy(sorted, blocks)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Day != sorted[j].Day {
			return sorted[i].Day < sorted[j].Day
		}
		return sorted[i].StartTime.Before(sorted[j].StartTime.Time)
	})

	out := []Option{{Value: "", Label: "Unassigned"}}
	for _, b := range sorted {
		title := b.Title
		if title == "" {
			title = "Untitled"
		}
		out = append(out, Option{
			Value: strconv.Itoa(b.ID),
			Label: fmt.Sprintf("%s — %s (%s)", b.Day, title, b.StartTime),
		})
	}
	return out
}

// UserModal is the user editor.
func UserModal() *Modal {
	return &Modal{
		Title: "Edit user",
		Fields: []Field{
			{Key: "firstname", Label: "First name"},
			{Key: "lastname", Label: "Last name"},
			{Key: "email", Label: "Email"},
			{Key: "activity", Label: "Activity"},
			{Key: "auth", Label: "Role"},
			{Key: "presentation_id", Label: "Presentation ID", Placeholder: "optional"},
		},
	}
}

func FillUser(u model.User) Values {
	return Values{
		"firstname":       u.Firstname,
		"lastname":        u.Lastname,
		"email":           u.Email,
		"activity":        model.Deref(u.Activity),
		"auth":            u.Auth,
		"presentation_id": intString(u.PresentationID),
	}
}

func UserPayload(v Values) (map[string]any, error) {
	if err := v.Required("email"); err != nil {
		return nil, err
	}
	if !strings.Contains(v["email"], "@") {
		return nil, apperr.Invalid("email", "not an email address")
	}
	p := v.Payload("presentation_id", "activity")
	if s, ok := p["presentation_id"].(string); ok {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return nil, apperr.Invalid("presentation_id", "must be a presentation id")
		}
		p["presentation_id"] = n
	}
	return p, nil
}
