package pagination

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Sternrassler/reqres-client/pkg/client"
	"github.com/rs/zerolog"
)

// Data errors. Both abort the collection.
var (
	// ErrEmptyPage is returned when a page has no users, including the last page.
	ErrEmptyPage = errors.New("there is no user data in response")

	// ErrMissingID is returned when a user record has no id.
	ErrMissingID = errors.New("user record has no id")
)

// DefaultMaxPages bounds the number of pages requested in one collection.
const DefaultMaxPages = 100

// MissingName replaces an absent first or last name in a full name.
const MissingName = "None"

// Config holds collector configuration
type Config struct {
	// MaxPages is the maximum number of pages requested per collection.
	// Reaching it ends the collection without an error.
	MaxPages int
	// Logger receives progress and validation logs. Nil discards them.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default collector configuration
func DefaultConfig() Config {
	return Config{
		MaxPages: DefaultMaxPages,
	}
}

// PageFetcher is the interface the user API client implements for single-page fetching
type PageFetcher interface {
	// FetchPage fetches one 1-indexed page of the listing
	FetchPage(ctx context.Context, page int) (*client.PageResponse, error)
}

// Collector walks the listing and filters users by id
type Collector struct {
	fetcher PageFetcher
	config  Config
	logger  zerolog.Logger
}

// NewCollector creates a new collector
func NewCollector(fetcher PageFetcher, config Config) *Collector {
	if config.MaxPages <= 0 {
		config.MaxPages = DefaultMaxPages
	}

	logger := zerolog.Nop()
	if config.Logger != nil {
		logger = config.Logger.With().Str("component", "collector").Logger()
	}

	return &Collector{
		fetcher: fetcher,
		config:  config,
		logger:  logger,
	}
}

// Collect returns the sorted full names of all users with minID <= id <= maxID.
// An invalid range is logged and yields an empty result without an error.
// Transport and data errors abort the collection and no names are returned.
func (c *Collector) Collect(ctx context.Context, minID, maxID int) ([]string, error) {
	r, err := NewRange(minID, maxID)
	if err != nil {
		c.reject(err)
		return []string{}, nil
	}
	return c.collect(ctx, r)
}

// CollectArgs is Collect for textual bounds. Bounds that are not integers
// are logged and yield an empty result without an error.
func (c *Collector) CollectArgs(ctx context.Context, minArg, maxArg string) ([]string, error) {
	r, err := ParseRange(minArg, maxArg)
	if err != nil {
		c.reject(err)
		return []string{}, nil
	}
	return c.collect(ctx, r)
}

func (c *Collector) reject(err error) {
	ValidationFailures.WithLabelValues(validationReason(err)).Inc()
	c.logger.Error().Err(err).Msg("Invalid id range")
}

func (c *Collector) collect(ctx context.Context, r Range) ([]string, error) {
	start := time.Now()
	names := make([]string, 0)

	for page := 1; page <= c.config.MaxPages; page++ {
		c.logger.Info().Int("page", page).Msg("Get data from page")

		resp, err := c.fetcher.FetchPage(ctx, page)
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}
		PagesFetched.Inc()

		if len(resp.Raw) > 0 {
			c.logger.Info().Int("page", page).RawJSON("body", resp.Raw).Msg("Page received")
		}

		if len(resp.Data) == 0 {
			return nil, fmt.Errorf("%w: page %d", ErrEmptyPage, page)
		}

		for _, user := range resp.Data {
			if user.ID == nil {
				return nil, fmt.Errorf("%w: page %d", ErrMissingID, page)
			}
			if r.Contains(*user.ID) {
				names = append(names, FullName(user))
			}
		}

		if page == resp.PageCount() {
			return c.finish(names, r, page, start), nil
		}
	}

	PageCapReached.Inc()
	c.logger.Debug().
		Int("max_pages", c.config.MaxPages).
		Msg("Page cap reached before last page")

	return c.finish(names, r, c.config.MaxPages, start), nil
}

func (c *Collector) finish(names []string, r Range, pages int, start time.Time) []string {
	slices.Sort(names)
	RecordsMatched.Add(float64(len(names)))

	c.logger.Info().
		Int("min_id", r.MinID).
		Int("max_id", r.MaxID).
		Int("pages", pages).
		Int("matched", len(names)).
		Strs("names", names).
		Dur("duration", time.Since(start)).
		Msg("Exported users")

	return names
}

// FullName joins first and last name with a single space. Absent names are
// rendered as MissingName.
func FullName(user client.User) string {
	return nameOrMissing(user.FirstName) + " " + nameOrMissing(user.LastName)
}

func nameOrMissing(name *string) string {
	if name == nil {
		return MissingName
	}
	return *name
}
