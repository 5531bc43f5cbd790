package domain

import "time"

// SupportSender is the literal sender/recipient tag used for the staff side
// of every thread; clients address support as a whole, never an individual.
const SupportSender = "support"

// Message is a single entry in a client's support thread. Either From or To
// is always SupportSender.
type Message struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Read      bool      `json:"read"`
}
