// Package pagination implements the offset-based incremental list engine
// shared by every list screen.
//
// A Fetcher holds the state of one list: accumulated items, a cursor
// (items requested so far), a fixed page size, hasMore as last reported by
// the server and two mutually exclusive loading flags. At most one fetch is
// in flight per Fetcher. LoadMore while a fetch is running, or after the
// list is exhausted, is a no-op. Refresh while a fetch is running resets the
// state at once and replaces the running fetch: its result is dropped when it
// lands and page one is requested by the same goroutine.
//
// Sources are built per endpoint with NewRemoteSource and a mapping function
// from the wire record type to the row type.
package pagination
