// Package community implements community pages and membership.
package community

import "time"

// Community is a public fan group around a series or topic.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CoverImage  string    `json:"coverImage,omitempty"`
	MemberCount int64     `json:"memberCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Membership links a user to a community.
type Membership struct {
	CommunityID string    `json:"communityId"`
	UserID      string    `json:"userId"`
	JoinedAt    time.Time `json:"joinedAt"`
}
