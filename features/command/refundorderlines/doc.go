// Package refundorderlines implements the Refund Order Lines use case.
//
// This feature refunds quantities of an order's product lines, optionally including
// shipping costs. It follows the Command-Query-Decide-Append pattern: the handler
// loads the order snapshot and the order's refund history from the event log, and the
// pure Decide function checks the request against what is still refundable.
//
// Requests that overshoot the refundable quantities, reference unknown order lines,
// or ask for shipping costs a second time generate OrderRefundRejected error events.
// Concurrent refunds of the same order are serialized by the event log's optimistic
// concurrency guard and retried with exponential backoff.
package refundorderlines
