package pagination

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PagesFetched tracks pages decoded and accepted by the collector
	PagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "userlist_pages_fetched_total",
			Help: "Total number of listing pages fetched by the collector",
		},
	)

	// RecordsMatched tracks users whose id fell inside the requested range
	RecordsMatched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "userlist_records_matched_total",
			Help: "Total number of users matched by the id range filter",
		},
	)

	// PageCapReached tracks collections stopped by MaxPages
	PageCapReached = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "userlist_page_cap_reached_total",
			Help: "Total number of collections stopped at the page cap",
		},
	)

	// ValidationFailures tracks rejected ranges by reason
	ValidationFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "userlist_validation_failures_total",
			Help: "Total number of rejected id ranges",
		},
		[]string{"reason"}, // "not_integer", "negative", "inverted"
	)
)
