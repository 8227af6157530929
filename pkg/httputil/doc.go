// Package httputil provides HTTP helpers shared by the hosting API clients.
//
// nurl talks to forge and registry APIs at most a handful of times per run,
// so the only infrastructure it needs is a bounded retry for transient
// failures. [Retry] re-runs an operation while it keeps failing with a
// [RetryableError], doubling the delay between attempts up to the policy's
// ceiling:
//
//	err := httputil.Retry(ctx, httputil.DefaultPolicy, func() error {
//	    return client.Get(ctx, url, &data)
//	})
//
// Errors that are not wrapped in [RetryableError] (404s, decoding failures,
// authentication problems) are returned immediately.
package httputil
