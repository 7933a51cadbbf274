package pagination

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"slices"
	"strings"
	"testing"

	"github.com/Sternrassler/reqres-client/internal/testutil"
	"github.com/Sternrassler/reqres-client/pkg/client"
	promtest "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves pages from memory and records requested page numbers.
type fakeFetcher struct {
	pages     func(page int) (*client.PageResponse, error)
	requested []int
}

func (f *fakeFetcher) FetchPage(_ context.Context, page int) (*client.PageResponse, error) {
	f.requested = append(f.requested, page)
	return f.pages(page)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func newUser(id int, first, last string) client.User {
	return client.User{ID: intPtr(id), FirstName: strPtr(first), LastName: strPtr(last)}
}

func newFixtureCollector(t *testing.T, mock *testutil.MockUserAPI, logger *zerolog.Logger) *Collector {
	t.Helper()

	cfg := client.DefaultConfig()
	cfg.BaseURL = mock.UsersURL()
	api, err := client.New(cfg)
	require.NoError(t, err)

	return NewCollector(api, Config{MaxPages: DefaultMaxPages, Logger: logger})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 100, cfg.MaxPages)
	assert.Nil(t, cfg.Logger)
}

func TestNewCollector_DefaultsMaxPages(t *testing.T) {
	c := NewCollector(&fakeFetcher{}, Config{MaxPages: 0})
	assert.Equal(t, DefaultMaxPages, c.config.MaxPages)

	c = NewCollector(&fakeFetcher{}, Config{MaxPages: -3})
	assert.Equal(t, DefaultMaxPages, c.config.MaxPages)
}

func TestCollect_FixtureScenarios(t *testing.T) {
	tests := []struct {
		name     string
		minID    int
		maxID    int
		expected []string
	}{
		{
			name:     "ids 5 to 8 span both pages",
			minID:    5,
			maxID:    8,
			expected: []string{"Charles Morris", "Emma Wong", "Eve Holt", "Janet Weaver"},
		},
		{
			name:     "ids 1 to 3",
			minID:    1,
			maxID:    3,
			expected: []string{"Emma Wong", "George Bluth", "Janet Weaver"},
		},
		{
			name:     "single id",
			minID:    12,
			maxID:    12,
			expected: []string{"Rachel Howell"},
		},
		{
			name:     "range beyond data",
			minID:    50,
			maxID:    60,
			expected: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockUserAPI()
			defer mock.Close()

			names, err := newFixtureCollector(t, mock, nil).Collect(context.Background(), tt.minID, tt.maxID)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names)
			assert.Equal(t, []string{"1", "2"}, mock.GetRequestedPages())
		})
	}
}

func TestCollect_InvalidRangeMakesNoRequest(t *testing.T) {
	tests := []struct {
		name   string
		minID  int
		maxID  int
		reason string
	}{
		{"negative minimum", -1, 5, "negative"},
		{"negative maximum", 1, -5, "negative"},
		{"inverted", 10, 1, "inverted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockUserAPI()
			defer mock.Close()

			buf := &bytes.Buffer{}
			logger := zerolog.New(buf)
			before := promtest.ToFloat64(ValidationFailures.WithLabelValues(tt.reason))

			names, err := newFixtureCollector(t, mock, &logger).Collect(context.Background(), tt.minID, tt.maxID)
			require.NoError(t, err)
			assert.NotNil(t, names)
			assert.Empty(t, names)
			assert.Equal(t, 0, mock.GetRequestCount())

			assert.Contains(t, buf.String(), `"level":"error"`)
			assert.Contains(t, buf.String(), "Invalid id range")
			assert.Equal(t, before+1, promtest.ToFloat64(ValidationFailures.WithLabelValues(tt.reason)))
		})
	}
}

func TestCollectArgs(t *testing.T) {
	tests := []struct {
		name     string
		minArg   string
		maxArg   string
		expected []string
		requests int
	}{
		{"valid", "1", "3", []string{"Emma Wong", "George Bluth", "Janet Weaver"}, 2},
		{"minimum not integer", "one", "3", []string{}, 0},
		{"maximum not integer", "1", "3.5", []string{}, 0},
		{"empty maximum", "1", "", []string{}, 0},
		{"negative", "-1", "5", []string{}, 0},
		{"inverted", "10", "1", []string{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockUserAPI()
			defer mock.Close()

			names, err := newFixtureCollector(t, mock, nil).CollectArgs(context.Background(), tt.minArg, tt.maxArg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, names)
			assert.Equal(t, tt.requests, mock.GetRequestCount())
		})
	}
}

func TestCollect_ResultSortedAndInRange(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()
	collector := newFixtureCollector(t, mock, nil)

	for minID := 0; minID <= 13; minID++ {
		for maxID := minID; maxID <= 13; maxID++ {
			names, err := collector.Collect(context.Background(), minID, maxID)
			require.NoError(t, err)

			expected := []string{}
			for _, u := range testutil.FixtureUsers {
				if u.ID >= minID && u.ID <= maxID {
					expected = append(expected, u.FirstName+" "+u.LastName)
				}
			}
			slices.Sort(expected)

			assert.True(t, slices.IsSorted(names), "range [%d, %d] not sorted: %v", minID, maxID, names)
			assert.Equal(t, expected, names, "range [%d, %d]", minID, maxID)
		}
	}
}

func TestCollect_Idempotent(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()
	collector := newFixtureCollector(t, mock, nil)

	first, err := collector.Collect(context.Background(), 2, 11)
	require.NoError(t, err)
	second, err := collector.Collect(context.Background(), 2, 11)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCollect_DuplicatesKept(t *testing.T) {
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		return &client.PageResponse{
			TotalPages: intPtr(1),
			Data: []client.User{
				newUser(1, "Janet", "Weaver"),
				newUser(2, "Emma", "Wong"),
				newUser(3, "Janet", "Weaver"),
			},
		}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Emma Wong", "Janet Weaver", "Janet Weaver"}, names)
}

func TestCollect_CodePointOrder(t *testing.T) {
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		return &client.PageResponse{
			TotalPages: intPtr(1),
			Data: []client.User{
				newUser(1, "émile", "Zola"),
				newUser(2, "eve", "Holt"),
				newUser(3, "Zed", "Adams"),
				newUser(4, "Eve", "Holt"),
			},
		}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"Eve Holt", "Zed Adams", "eve Holt", "émile Zola"}, names)
}

func TestCollect_MissingNamesUsePlaceholder(t *testing.T) {
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		return &client.PageResponse{
			TotalPages: intPtr(1),
			Data: []client.User{
				{ID: intPtr(1), FirstName: strPtr("Emma")},
				{ID: intPtr(2), LastName: strPtr("Holt")},
				{ID: intPtr(3), FirstName: strPtr(""), LastName: strPtr("")},
			},
		}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{" ", "Emma None", "None Holt"}, names)
}

func TestCollect_MissingIDIsDataError(t *testing.T) {
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		return &client.PageResponse{
			TotalPages: intPtr(1),
			Data:       []client.User{{FirstName: strPtr("Emma"), LastName: strPtr("Wong")}},
		}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 10)
	require.ErrorIs(t, err, ErrMissingID)
	assert.Nil(t, names)
}

func TestCollect_EmptyLastPageIsFatal(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()
	mock.SetPage(2, testutil.NewPageResponse(2))

	names, err := newFixtureCollector(t, mock, nil).Collect(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrEmptyPage)
	assert.Contains(t, err.Error(), "page 2")
	assert.Nil(t, names, "no partial result on data errors")
	assert.Equal(t, []string{"1", "2"}, mock.GetRequestedPages())
}

func TestCollect_MissingDataIsFatal(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()
	mock.SetPage(1, testutil.MockResponse{StatusCode: 200, Body: `{"page": 1, "total_pages": 2}`})

	names, err := newFixtureCollector(t, mock, nil).Collect(context.Background(), 1, 3)
	require.ErrorIs(t, err, ErrEmptyPage)
	assert.Nil(t, names)
	assert.Equal(t, 1, mock.GetRequestCount())
}

func TestCollect_NonOKStatusIsFatal(t *testing.T) {
	tests := []struct {
		name     string
		page     int
		resp     testutil.MockResponse
		requests int
	}{
		{"first page server error", 1, testutil.NewServerErrorResponse(), 1},
		{"second page server error", 2, testutil.NewServerErrorResponse(), 2},
		{"second page not found", 2, testutil.NewNotFoundResponse(), 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := testutil.NewMockUserAPI()
			defer mock.Close()
			mock.SetPage(tt.page, tt.resp)

			names, err := newFixtureCollector(t, mock, nil).Collect(context.Background(), 1, 12)
			require.Error(t, err)
			assert.True(t, client.IsTransport(err), "expected transport error, got %v", err)
			assert.ErrorIs(t, err, client.ErrUnexpectedStatus)
			assert.Nil(t, names)
			assert.Equal(t, tt.requests, mock.GetRequestCount(), "no retries")
		})
	}
}

func TestCollect_MalformedBodyIsFatal(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()
	mock.SetPage(2, testutil.MockResponse{StatusCode: 200, Body: `{"data": "oops"`})

	names, err := newFixtureCollector(t, mock, nil).Collect(context.Background(), 1, 12)
	require.ErrorIs(t, err, client.ErrMalformedPage)
	assert.Nil(t, names)
}

func TestCollect_StopsAtDeclaredTotal(t *testing.T) {
	tests := []struct {
		name       string
		totalPages int
		maxPages   int
		requests   int
		capHit     bool
	}{
		{"single page", 1, 100, 1, false},
		{"three pages", 3, 100, 3, false},
		{"total equals cap", 100, 100, 100, false},
		{"total beyond cap", 150, 100, 100, true},
		{"custom cap", 10, 4, 4, true},
		{"total never reached", 0, 5, 5, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
				return &client.PageResponse{
					TotalPages: intPtr(tt.totalPages),
					Data:       []client.User{newUser(page, "User", "Number")},
				}, nil
			}}
			capBefore := promtest.ToFloat64(PageCapReached)

			names, err := NewCollector(fetcher, Config{MaxPages: tt.maxPages}).Collect(context.Background(), 0, 1000)
			require.NoError(t, err, "page cap is not an error")
			assert.Len(t, fetcher.requested, tt.requests)
			assert.Len(t, names, tt.requests, "names accumulated before the cap are returned")
			assert.Equal(t, 1, fetcher.requested[0])
			assert.Equal(t, tt.requests, fetcher.requested[len(fetcher.requested)-1])

			capDelta := promtest.ToFloat64(PageCapReached) - capBefore
			if tt.capHit {
				assert.Equal(t, float64(1), capDelta)
			} else {
				assert.Equal(t, float64(0), capDelta)
			}
		})
	}
}

func TestCollect_MissingTotalPagesMeansSinglePage(t *testing.T) {
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		return &client.PageResponse{Data: []client.User{newUser(1, "George", "Bluth")}}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 5)
	require.NoError(t, err)
	assert.Equal(t, []string{"George Bluth"}, names)
	assert.Equal(t, []int{1}, fetcher.requested)
}

func TestCollect_FetchErrorWrapsPage(t *testing.T) {
	sentinel := errors.New("boom")
	fetcher := &fakeFetcher{pages: func(page int) (*client.PageResponse, error) {
		if page == 3 {
			return nil, sentinel
		}
		return &client.PageResponse{TotalPages: intPtr(5), Data: []client.User{newUser(page, "A", "B")}}, nil
	}}

	names, err := NewCollector(fetcher, DefaultConfig()).Collect(context.Background(), 0, 10)
	require.ErrorIs(t, err, sentinel)
	assert.Equal(t, "fetch page 3: boom", err.Error())
	assert.Nil(t, names)
}

func TestCollect_LogsPagesAndBody(t *testing.T) {
	mock := testutil.NewMockUserAPI()
	defer mock.Close()

	buf := &bytes.Buffer{}
	logger := zerolog.New(buf).Level(zerolog.InfoLevel)

	_, err := newFixtureCollector(t, mock, &logger).Collect(context.Background(), 5, 8)
	require.NoError(t, err)

	var fetchLines, bodyLines int
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry), "log line is JSON: %s", line)
		assert.Equal(t, "collector", entry["component"])

		switch entry["message"] {
		case "Get data from page":
			fetchLines++
		case "Page received":
			bodyLines++
			body, ok := entry["body"].(map[string]any)
			require.True(t, ok, "body is logged as raw JSON")
			assert.Contains(t, body, "data")
		}
	}

	assert.Equal(t, 2, fetchLines)
	assert.Equal(t, 2, bodyLines)
	assert.Contains(t, buf.String(), "Exported users")
}

func TestFullName(t *testing.T) {
	assert.Equal(t, "Eve Holt", FullName(newUser(4, "Eve", "Holt")))
	assert.Equal(t, "None None", FullName(client.User{ID: intPtr(1)}))
}
