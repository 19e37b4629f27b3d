package domain

import "time"

// Ticket is a community request for material that is not in the library yet.
type Ticket struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Votes       int       `json:"votes"`
	CreatedAt   time.Time `json:"created_at"`
}

// Discussion is a comment on a document. ParentID is empty for top-level
// comments and holds the parent comment id for replies.
type Discussion struct {
	ID         string    `json:"id"`
	DocumentID string    `json:"document_id"`
	ParentID   string    `json:"parent_id,omitempty"`
	Author     string    `json:"author"`
	Content    string    `json:"content"`
	Upvotes    int       `json:"upvotes"`
	Downvotes  int       `json:"downvotes"`
	CreatedAt  time.Time `json:"created_at"`
}

type VoteDirection string

const (
	VoteUp   VoteDirection = "up"
	VoteDown VoteDirection = "down"
)
