package entity

type Position struct {
	ID          int64
	PollID      int64
	Title       string
	Description string
	Candidates  []Candidate
}

type Candidate struct {
	ID             int64
	PositionID     int64
	Name           string
	Description    string
	ProfilePicture *string
}
