// Package extract implements the incremental extraction algorithms that
// drive a paginated fetcher for a single parent entity.
//
// Windowed works around a server-side cap on results per query: it
// fetches the window [lower, now), and whenever a window is truncated by
// the cap it narrows the upper bound to the oldest timestamp observed
// and queries again, until a window comes back under the cap. Simple and
// SimpleAscending handle resources where the cap is not a concern.
//
// Extractors stream records through an emit callback one page at a time
// and return the watermark to commit; checkpoint persistence belongs to
// the caller.
package extract
