// Package wizard is the boundary between a host UI and the generation core.
// Hosts talk to a Host: ListItems returns the catalog summaries and Generate
// turns an item id plus a record into a Document. Service is the in-process
// Host over a catalog. Session keeps the active item and its form engine on
// the host side and drops documents produced for an item that is no longer
// active.
package wizard
