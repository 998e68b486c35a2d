package model

// Wire records returned by the conference backend. Field names follow the
// JSON the server emits; optional values are pointers so that null and
// absent stay distinguishable from zero.

type Presenter struct {
	ID        int    `json:"id" yaml:"id"`
	Firstname string `json:"firstname" yaml:"firstname"`
	Lastname  string `json:"lastname" yaml:"lastname"`
	Email     string `json:"email" yaml:"email"`
}

func (p Presenter) Name() string {
	switch {
	case p.Firstname == "":
		return p.Lastname
	case p.Lastname == "":
		return p.Firstname
	}
	return p.Firstname + " " + p.Lastname
}

type Presentation struct {
	ID         int         `json:"id" yaml:"id"`
	Title      string      `json:"title" yaml:"title"`
	Abstract   string      `json:"abstract" yaml:"abstract"`
	Subject    string      `json:"subject" yaml:"subject"`
	Status     string      `json:"status,omitempty" yaml:"status,omitempty"`
	Time       LocalTime   `json:"time" yaml:"time"`
	Room       *string     `json:"room" yaml:"room"`
	Type       *string     `json:"type" yaml:"type"`
	NumInBlock *int        `json:"num_in_block" yaml:"num_in_block"`
	ScheduleID *int        `json:"schedule_id" yaml:"schedule_id"`
	Presenters []Presenter `json:"presenters" yaml:"presenters"`
}

type Poster struct {
	Title    string    `json:"title" yaml:"title"`
	Time     LocalTime `json:"time" yaml:"time"`
	Room     string    `json:"room" yaml:"room"`
	Abstract string    `json:"abstract" yaml:"abstract"`
	ImageURL string    `json:"image_url" yaml:"image_url"`
}

type User struct {
	ID             int     `json:"id" yaml:"id"`
	Firstname      string  `json:"firstname" yaml:"firstname"`
	Lastname       string  `json:"lastname" yaml:"lastname"`
	Name           string  `json:"name" yaml:"name"`
	Email          string  `json:"email" yaml:"email"`
	Activity       *string `json:"activity" yaml:"activity"`
	Presentation   *string `json:"presentation" yaml:"presentation"`
	PresentationID *int    `json:"presentation_id" yaml:"presentation_id"`
	Auth           string  `json:"auth" yaml:"auth"`
	Status         *string `json:"status" yaml:"status"`
}

// Me is the session probe returned by /me.
type Me struct {
	Authenticated  bool    `json:"authenticated" yaml:"authenticated"`
	UserID         *int    `json:"user_id,omitempty" yaml:"user_id,omitempty"`
	Name           string  `json:"name,omitempty" yaml:"name,omitempty"`
	Email          string  `json:"email,omitempty" yaml:"email,omitempty"`
	Picture        string  `json:"picture,omitempty" yaml:"picture,omitempty"`
	PresentationID *int    `json:"presentation_id,omitempty" yaml:"presentation_id,omitempty"`
	Auth           string  `json:"auth,omitempty" yaml:"auth,omitempty"`
	Activity       *string `json:"activity,omitempty" yaml:"activity,omitempty"`
}

type AbstractGrade struct {
	PresentationID int    `json:"presentation_id"`
	UserID         int    `json:"user_id"`
	Criteria1      int    `json:"criteria_1"`
	Criteria2      int    `json:"criteria_2"`
	Criteria3      int    `json:"criteria_3"`
	Comment        string `json:"comment"`
}

// AverageGrade is one row of /grades/averages or /abstractgrades/averages.
type AverageGrade struct {
	PresentationID    int      `json:"presentation_id"`
	PresentationTitle *string  `json:"presentation_title"`
	AverageScore      *float64 `json:"average_score"`
	NumGrades         int      `json:"num_grades"`
}

type Block struct {
	ID          int       `json:"id" yaml:"id"`
	Day         string    `json:"day" yaml:"day"`
	StartTime   LocalTime `json:"start_time" yaml:"start_time"`
	EndTime     LocalTime `json:"end_time" yaml:"end_time"`
	Title       string    `json:"title" yaml:"title"`
	Description *string   `json:"description" yaml:"description"`
	Location    *string   `json:"location" yaml:"location"`
	Length      float64   `json:"length" yaml:"length"`
	BlockType   *string   `json:"block_type" yaml:"block_type"`
	SubLength   *int      `json:"sub_length" yaml:"sub_length"`
}

// NewPresentation is the body of POST /api/v1/presentations/.
type NewPresentation struct {
	Title        string  `json:"title"`
	Abstract     string  `json:"abstract"`
	Subject      string  `json:"subject"`
	Type         string  `json:"type,omitempty"`
	ScheduleID   *int    `json:"schedule_id,omitempty"`
	Time         *string `json:"time"`
	Room         *string `json:"room"`
	PartnerEmail *string `json:"partner_email"`
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
