// Package callrail provides the paginated API client for the CallRail
// calls listing and recording endpoints.
//
// The package handles two main use cases:
//
//  1. Fetching all call metadata for an account, one page at a time
//  2. Resolving recording references into pre-authorized download URLs
//
// # Paginated Fetch
//
//	client := callrail.NewClient(apiKey, accountID)
//	result, err := client.FetchCalls(ctx, callrail.Filters{
//	    StartDate: "2024-01-01",
//	    EndDate:   "2024-01-31",
//	})
//	if err != nil {
//	    log.Fatal(err) // only cancellation reaches here
//	}
//	fmt.Printf("%d calls across %d pages\n", len(result.Calls), result.Pages)
//
// A mid-fetch provider failure does not discard the pages already
// gathered: FetchCalls returns the partial slice with Complete=false and
// the failure in Err, so callers decide whether a truncated export is
// acceptable.
//
// # Recording Resolution
//
// Recording references from the listing are opaque and need an
// authenticated request to turn into a direct URL:
//
//	url, err := client.ResolveRecordingURL(ctx, call.RecordingRef)
//
// The returned URL is pre-authorized and is fetched without credentials.
//
// # Wire Format
//
// Raw payload shapes and the projection onto model.CallRecord live in the
// nested dto package. The projection is total: records with missing
// optional fields or odd timestamps still project cleanly.
package callrail
