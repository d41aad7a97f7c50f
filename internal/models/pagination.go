package models

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// Pagination holds normalized page/limit query parameters.
type Pagination struct {
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

// Normalize clamps page and limit to their allowed ranges, applying
// defaults for omitted values.
func (p *Pagination) Normalize() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.Limit < 1 {
		p.Limit = DefaultLimit
	}
	if p.Limit > MaxLimit {
		p.Limit = MaxLimit
	}
}

// Offset returns the row offset for the current page
func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// UserPage is one page of user summaries with pagination metadata.
type UserPage struct {
	Users []FollowedUser `json:"users"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Limit int            `json:"limit"`
}
