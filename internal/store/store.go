// Package store holds the client-side caches, one per backend resource.
// Every mutation goes through the API client and is reconciled by a single
// follow-up re-fetch of the whole collection; the stores keep no version
// stamps and do no conflict detection.
package store

import (
	"errors"

	"floodwatch-client/internal/api"
)

// Default page size used by list fetches and post-mutation re-fetches.
const defaultLimit = 20

// errMessage flattens err for store error state. Globally-handled 401s are
// excluded: the API client has already cleared the session and fired the
// unauthorized hook, so no store records them.
func errMessage(err error) (string, bool) {
	if errors.Is(err, api.ErrUnauthorized) {
		return "", false
	}
	return api.Message(err), true
}
