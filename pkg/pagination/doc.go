// Package pagination collects user names from the paginated user listing.
//
// The listing reports its page count in the total_pages field of every page.
// The Collector walks pages sequentially from page 1 until the page number
// equals that count or the configured page cap is reached, keeping the full
// names of users whose id falls inside an inclusive range.
//
// Example usage:
//
//	api, err := client.New(client.DefaultConfig())
//	if err != nil {
//		return err
//	}
//	collector := pagination.NewCollector(api, pagination.DefaultConfig())
//	names, err := collector.Collect(ctx, 5, 8)
//
// The collector:
//   - Validates the range before any request (invalid ranges are logged and yield an empty result)
//   - Fetches one page at a time, without retries
//   - Treats a page with no users as a data error, including the last page
//   - Stops silently at MaxPages (default 100) when the listing never reaches its last page
//   - Returns names sorted in ascending byte order, duplicates kept
package pagination
