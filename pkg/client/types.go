package client

import "encoding/json"

// User is one record of the listing. Pointer fields distinguish a missing
// key from a zero value.
type User struct {
	ID        *int    `json:"id"`
	Email     string  `json:"email,omitempty"`
	FirstName *string `json:"first_name"`
	LastName  *string `json:"last_name"`
	Avatar    string  `json:"avatar,omitempty"`
}

// PageResponse is one decoded page of the listing.
type PageResponse struct {
	Page       int    `json:"page"`
	PerPage    int    `json:"per_page"`
	Total      int    `json:"total"`
	TotalPages *int   `json:"total_pages"`
	Data       []User `json:"data"`

	// Raw is the response body as received.
	Raw json.RawMessage `json:"-"`
}

// PageCount returns the declared number of pages, or 1 when the body omits it.
func (p *PageResponse) PageCount() int {
	if p.TotalPages == nil {
		return 1
	}
	return *p.TotalPages
}
