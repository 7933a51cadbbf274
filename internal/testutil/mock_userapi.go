// Package testutil provides testing utilities for the user API client.
package testutil

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
)

// UsersPath is the listing path served by MockUserAPI.
const UsersPath = "/api/users"

// FixtureUser is one record of the reference data set.
type FixtureUser struct {
	ID        int    `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Avatar    string `json:"avatar"`
}

// FixturePerPage is the page size of the reference data set.
const FixturePerPage = 6

// FixtureUsers is the reference data set: two pages of six users, ids 1-12.
var FixtureUsers = []FixtureUser{
	{ID: 1, Email: "george.bluth@reqres.in", FirstName: "George", LastName: "Bluth"},
	{ID: 2, Email: "janet.weaver@reqres.in", FirstName: "Janet", LastName: "Weaver"},
	{ID: 3, Email: "emma.wong@reqres.in", FirstName: "Emma", LastName: "Wong"},
	{ID: 4, Email: "tracey.ramos@reqres.in", FirstName: "Tracey", LastName: "Ramos"},
	{ID: 5, Email: "charles.morris@reqres.in", FirstName: "Charles", LastName: "Morris"},
	{ID: 6, Email: "eve.holt@reqres.in", FirstName: "Eve", LastName: "Holt"},
	{ID: 7, Email: "emma.wong2@reqres.in", FirstName: "Emma", LastName: "Wong"},
	{ID: 8, Email: "janet.weaver2@reqres.in", FirstName: "Janet", LastName: "Weaver"},
	{ID: 9, Email: "tobias.funke@reqres.in", FirstName: "Tobias", LastName: "Funke"},
	{ID: 10, Email: "byron.fields@reqres.in", FirstName: "Byron", LastName: "Fields"},
	{ID: 11, Email: "george.edwards@reqres.in", FirstName: "George", LastName: "Edwards"},
	{ID: 12, Email: "rachel.howell@reqres.in", FirstName: "Rachel", LastName: "Howell"},
}

// FixtureTotalPages returns the number of pages in the reference data set.
func FixtureTotalPages() int {
	return (len(FixtureUsers) + FixturePerPage - 1) / FixturePerPage
}

// FixturePageBody renders one page of the reference data set the way the
// listing endpoint does. Pages outside the set have an empty data list.
func FixturePageBody(page int) []byte {
	start := (page - 1) * FixturePerPage
	if page < 1 || start > len(FixtureUsers) {
		start = len(FixtureUsers)
	}
	end := min(start+FixturePerPage, len(FixtureUsers))

	body, _ := json.Marshal(map[string]any{
		"page":        page,
		"per_page":    FixturePerPage,
		"total":       len(FixtureUsers),
		"total_pages": FixtureTotalPages(),
		"data":        FixtureUsers[start:end],
	})
	return body
}

// MockResponse defines the behavior for a single page.
type MockResponse struct {
	StatusCode int
	Body       string
}

// MockUserAPI is a configurable mock of the paginated user-listing endpoint.
type MockUserAPI struct {
	server *httptest.Server
	mu     sync.RWMutex
	pages  map[int]MockResponse

	// Tracking
	RequestCount      int
	RequestedPages    []string
	LastRequestHeader http.Header
}

// NewMockUserAPI creates a mock serving the reference data set.
func NewMockUserAPI() *MockUserAPI {
	mock := &MockUserAPI{
		pages: make(map[int]MockResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		pageParam := r.URL.Query().Get("page")

		mock.mu.Lock()
		mock.RequestCount++
		mock.RequestedPages = append(mock.RequestedPages, pageParam)
		mock.LastRequestHeader = r.Header.Clone()
		mock.mu.Unlock()

		if r.URL.Path != UsersPath {
			http.NotFound(w, r)
			return
		}

		page, err := strconv.Atoi(pageParam)
		if err != nil {
			page = 1
		}

		mock.mu.RLock()
		override, exists := mock.pages[page]
		mock.mu.RUnlock()

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if exists {
			w.WriteHeader(override.StatusCode)
			if override.Body != "" {
				w.Write([]byte(override.Body))
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write(FixturePageBody(page))
	}))

	return mock
}

// URL returns the mock server root URL.
func (m *MockUserAPI) URL() string {
	return m.server.URL
}

// UsersURL returns the full listing URL.
func (m *MockUserAPI) UsersURL() string {
	return m.server.URL + UsersPath
}

// Close shuts down the mock server.
func (m *MockUserAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockUserAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.RequestedPages = nil
	m.LastRequestHeader = nil
}

// SetPage overrides the response for one page.
func (m *MockUserAPI) SetPage(page int, resp MockResponse) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pages[page] = resp
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockUserAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetRequestedPages returns the page parameters in request order.
func (m *MockUserAPI) GetRequestedPages() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string(nil), m.RequestedPages...)
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockUserAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// NewPageResponse creates a 200 OK page with the given declared total.
func NewPageResponse(totalPages int, users ...FixtureUser) MockResponse {
	if users == nil {
		users = []FixtureUser{}
	}
	body, _ := json.Marshal(map[string]any{
		"total_pages": totalPages,
		"data":        users,
	})
	return MockResponse{StatusCode: http.StatusOK, Body: string(body)}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
	}
}

// NewNotFoundResponse creates a 404 Not Found response.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       `{}`,
	}
}
