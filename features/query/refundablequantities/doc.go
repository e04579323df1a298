// Package refundablequantities implements the Refundable Quantities query use case.
//
// This feature reports how many units of each of an order's variants can still be
// refunded, and whether shipping costs are still refundable. It folds the order's
// OrderRefunded history from the event log against the order snapshot without
// modifying any data or generating new events.
//
// The query tolerates slightly stale data and reads with eventual consistency.
package refundablequantities
