package model

import "time"

// RefType tags which thread table a comment points at. Together with
// RefID it forms a polymorphic back-reference resolved through a lookup
// table in the integrity engine rather than by string-based model
// lookup.
type RefType string

const (
	RefInquiry  RefType = "INQUIRY"
	RefFeedback RefType = "FEEDBACK"
	RefNotice   RefType = "NOTICE"
)

// ParseRefType validates a ref type string from a request body.
func ParseRefType(s string) (RefType, bool) {
	switch RefType(s) {
	case RefInquiry, RefFeedback, RefNotice:
		return RefType(s), true
	}
	return "", false
}

// Notice is a staff announcement in the `notices` table. CreatorID may
// be zero for system notices imported without an author.
type Notice struct {
	ID        uint64    // notices.id
	Title     string    // notices.title
	Category  string    // notices.category
	Content   string    // notices.content
	CreatorID uint64    // notices.creator_id
	CreatedAt time.Time // notices.created_at
	UpdatedAt time.Time // notices.updated_at
}

// Inquiry is a member Q&A thread in the `inquiries` table.
type Inquiry struct {
	ID        uint64    // inquiries.id
	Title     string    // inquiries.title
	Category  string    // inquiries.category
	Content   string    // inquiries.content
	CreatorID uint64    // inquiries.creator_id
	CreatedAt time.Time // inquiries.created_at
	UpdatedAt time.Time // inquiries.updated_at
}

// Feedback is a member suggestion thread in the `feedback` table.
type Feedback struct {
	ID        uint64    // feedback.id
	Title     string    // feedback.title
	Content   string    // feedback.content
	CreatorID uint64    // feedback.creator_id
	CreatedAt time.Time // feedback.created_at
	UpdatedAt time.Time // feedback.updated_at
}

// Comment belongs to exactly one thread through (RefType, RefID). Likes
// is a cached count of rows in comment_likes; the like toggle adjusts
// both in one transaction.
type Comment struct {
	ID        uint64    // comments.id
	Content   string    // comments.content
	AuthorID  uint64    // comments.author_id
	RefType   RefType   // comments.ref_type
	RefID     uint64    // comments.ref_id
	Likes     int       // comments.likes
	CreatedAt time.Time // comments.created_at
	UpdatedAt time.Time // comments.updated_at
}
