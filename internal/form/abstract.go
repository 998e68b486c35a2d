package form

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/idilsaglam/cusrr/internal/apperr"
	"github.com/idilsaglam/cusrr/internal/model"
)

// PlaceholderTime is sent as the talk time until a block is assigned.
const PlaceholderTime = "2026-11-04 13:30"

// ErrPartnerSubmits means the partner files the joint abstract, so this
// user has nothing to submit.
var ErrPartnerSubmits = errors.New("your partner submits the abstract for your pair; only one abstract and one presentation per pair")

// Submitter roles for paired abstracts.
const (
	RoleMe      = "me"
	RolePartner = "partner"
)

// AbstractSubmission is the abstract sign-up form.
type AbstractSubmission struct {
	Title         string
	Abstract      string
	Subject       string
	Type          string
	HasPartner    bool
	PartnerEmail  string
	SubmitterRole string
}

// Validate checks the form before anything is sent. ErrPartnerSubmits is
// returned when the partner is the designated submitter.
func (s AbstractSubmission) Validate() error {
	v := Values{"title": s.Title, "abstract": s.Abstract, "subject": s.Subject}
	if err := v.Required("title", "abstract", "subject"); err != nil {
		return err
	}
	if s.HasPartner {
		if strings.TrimSpace(s.PartnerEmail) == "" {
			return apperr.Invalid("partner_email", "enter your partner's email")
		}
		if s.SubmitterRole == RolePartner {
			return ErrPartnerSubmits
		}
	}
	return nil
}

// Payload is the POST body for a validated submission.
func (s AbstractSubmission) Payload() model.NewPresentation {
	t := PlaceholderTime
	p := model.NewPresentation{
		Title:    strings.TrimSpace(s.Title),
		Abstract: strings.TrimSpace(s.Abstract),
		Subject:  strings.TrimSpace(s.Subject),
		Type:     strings.TrimSpace(s.Type),
		Time:     &t,
	}
	if s.HasPartner {
		email := strings.TrimSpace(s.PartnerEmail)
		p.PartnerEmail = &email
	}
	return p
}

// Score bounds for each abstract criterion.
const (
	MinScore = 0
	MaxScore = 10
)

// Scores is one abstract grading: originality, clarity, significance.
type Scores struct {
	Originality  int
	Clarity      int
	Significance int
	Comment      string
}

func (s Scores) Total() int { return s.Originality + s.Clarity + s.Significance }

// Grade validates the scores and builds the request body.
func (s Scores) Grade(presentationID, userID int) (model.AbstractGrade, error) {
	if presentationID <= 0 {
		return model.AbstractGrade{}, apperr.Invalid("presentation_id", "presentation ID missing")
	}
	for _, c := range []struct {
		name string
		v    int
	}{{"originality", s.Originality}, {"clarity", s.Clarity}, {"significance", s.Significance}} {
		if c.v < MinScore || c.v > MaxScore {
			return model.AbstractGrade{}, apperr.Invalid(c.name, "must be between 0 and 10")
		}
	}
	return model.AbstractGrade{
		PresentationID: presentationID,
		UserID:         userID,
		Criteria1:      s.Originality,
		Criteria2:      s.Clarity,
		Criteria3:      s.Significance,
		Comment:        s.Comment,
	}, nil
}

// ScoreModal is the abstract scoring form.
func ScoreModal(title string) *Modal {
	hint := fmt.Sprintf("%d-%d", MinScore, MaxScore)
	return &Modal{
		Title: title,
		Fields: []Field{
			{Key: "originality", Label: "Originality", Placeholder: hint},
			{Key: "clarity", Label: "Clarity", Placeholder: hint},
			{Key: "significance", Label: "Significance", Placeholder: hint},
			{Key: "comment", Label: "Comment", Placeholder: "optional"},
		},
	}
}

// ScoresFrom reads a filled ScoreModal. Range checks happen in Grade.
func ScoresFrom(v Values) (Scores, error) {
	var s Scores
	for _, c := range []struct {
		key string
		dst *int
	}{{"originality", &s.Originality}, {"clarity", &s.Clarity}, {"significance", &s.Significance}} {
		raw := strings.TrimSpace(v[c.key])
		if raw == "" {
			return Scores{}, apperr.Invalid(c.key, "required")
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return Scores{}, apperr.Invalid(c.key, "must be a whole number")
		}
		*c.dst = n
	}
	s.Comment = strings.TrimSpace(v["comment"])
	return s, nil
}
