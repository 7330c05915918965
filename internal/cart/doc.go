// Package cart implements the in-memory order model of the POS terminal.
//
// ARCHITECTURE:
//
// Single-Owner Mutation:
// The cart is owned by one terminal session and mutated only from discrete
// user events. There is no concurrent access, so no locking. Every mutating
// operation ends with a change notification, which the session uses to
// recompute totals and re-render the order panel in full. No incremental
// diffing: cart sizes are tens of lines at most, and a full recompute
// guarantees the projected view can never diverge from the model.
//
// CONSOLIDATION vs SPLIT:
// Tapping a catalog item merges into an existing line only when that line
// is "clean" (no notes, no custom discount, default sugar). A customized
// line is never merged into, so quick re-taps consolidate while customized
// lines stay distinct. The line editor can conversely split a customization
// out of a multi-quantity line into its own new line.
//
// Line identity is menuItemID plus a session-wide monotonically increasing
// counter, so repeated additions of the same catalog item with different
// customizations get distinct ids.
package cart
