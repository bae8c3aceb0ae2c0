package entity

import "time"

type CandidateTally struct {
	CandidateID int64  `json:"id"`
	Name        string `json:"name"`
	VoteCount   int64  `json:"vote_count"`
}

type PositionResult struct {
	PositionID int64            `json:"id"`
	Title      string           `json:"title"`
	Candidates []CandidateTally `json:"candidates"`
	Winner     *CandidateTally  `json:"winner"`
}

type PollResult struct {
	PollID    int64            `json:"id"`
	Title     string           `json:"title"`
	Status    PollStatus       `json:"status"`
	Final     bool             `json:"final"`
	Positions []PositionResult `json:"positions"`
}

// ResultSnapshot is the persisted final result of a poll.
type ResultSnapshot struct {
	PollID     int64
	Result     PollResult
	ComputedAt time.Time
}

// TotalVotes is the number of ledger votes the result was computed from.
func (r PollResult) TotalVotes() int64 {
	var n int64
	for _, p := range r.Positions {
		for _, c := range p.Candidates {
			n += c.VoteCount
		}
	}
	return n
}
