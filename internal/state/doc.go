// Package state holds the client's copy of the three synchronized documents.
//
// STORES:
// BookmarkStore, WidgetStore and SettingsStore are independent containers with
// the same shape:
//
//	Hydrate  → paint from the local slot store before the network answers
//	Fetch    → GET from the server; a non-empty answer replaces local state
//	mutators → change local state first, then persist
//	Subscribe / Phase / Flush / Wait / Close
//
// Each store is meant to be constructed once at startup and shared.
//
// PERSISTENCE POLICY:
// The stores do not fail the same way, on purpose.
//
//	bookmarks, settings → debounced save, never rolled back, failures only logged
//	widgets             → immediate save, rolled back on failure, demo refusals kept
//
// The difference is expressed as a RollbackPolicy on one shared optimistic
// helper, not as separate code paths.
package state
