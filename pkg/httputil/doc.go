// Package httputil provides HTTP utilities for fetching remote datasets.
//
// # Overview
//
// The boundary GeoJSON and record datasets usually live behind plain HTTP
// endpoints that change rarely. This package provides the two pieces the
// fetch command needs:
//
//   - [Download]: conditional dataset download with ETag/Last-Modified
//     revalidation, so an unchanged remote file costs one 304 round trip
//   - [Retry]: automatic retry with exponential backoff for transient
//     failures
//
// # Downloading
//
// [Download] writes the response body to a destination file and keeps a
// sidecar metadata file next to it with the validators from the last
// successful fetch. On the next call the stored ETag and Last-Modified are
// sent as If-None-Match / If-Modified-Since; a 304 response leaves the
// local file untouched.
//
//	res, err := httputil.Download(ctx, client, url, "data/counties.json")
//	if res.NotModified {
//	    // local copy is current
//	}
//
// # Retry
//
// [Retry] re-runs an operation for errors wrapped in [RetryableError]
// (network timeouts, 5xx responses) with a doubling delay between
// attempts. Other errors return immediately.
package httputil
