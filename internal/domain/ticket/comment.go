package ticket

import (
	"fmt"
	"strings"
	"time"
)

const maxCommentLength = 5000

// Comment is a note on a ticket. Internal comments are visible to admins and
// the assignee only.
type Comment struct {
	id         uint
	sid        string
	ticketID   uint
	authorID   uint
	body       string
	isInternal bool
	createdAt  time.Time
}

func NewComment(ticketID, authorID uint, body string, isInternal bool, now time.Time) (*Comment, error) {
	body = strings.TrimSpace(body)
	if ticketID == 0 {
		return nil, fmt.Errorf("ticket ID is required")
	}
	if authorID == 0 {
		return nil, fmt.Errorf("author ID is required")
	}
	if body == "" {
		return nil, fmt.Errorf("comment cannot be empty")
	}
	if len(body) > maxCommentLength {
		return nil, fmt.Errorf("comment exceeds maximum length of %d characters", maxCommentLength)
	}
	return &Comment{
		ticketID:   ticketID,
		authorID:   authorID,
		body:       body,
		isInternal: isInternal,
		createdAt:  now,
	}, nil
}

func ReconstructComment(id uint, sid string, ticketID, authorID uint, body string, isInternal bool, createdAt time.Time) *Comment {
	return &Comment{
		id:         id,
		sid:        sid,
		ticketID:   ticketID,
		authorID:   authorID,
		body:       body,
		isInternal: isInternal,
		createdAt:  createdAt,
	}
}

func (c *Comment) ID() uint             { return c.id }
func (c *Comment) SID() string          { return c.sid }
func (c *Comment) TicketID() uint       { return c.ticketID }
func (c *Comment) AuthorID() uint       { return c.authorID }
func (c *Comment) Body() string         { return c.body }
func (c *Comment) IsInternal() bool     { return c.isInternal }
func (c *Comment) CreatedAt() time.Time { return c.createdAt }

func (c *Comment) SetID(id uint) {
	if c.id == 0 {
		c.id = id
	}
}

func (c *Comment) SetSID(sid string) {
	if c.sid == "" {
		c.sid = sid
	}
}

// SetBody replaces the body with its sanitized form before persisting.
func (c *Comment) SetBody(body string) {
	c.body = body
}
