// Package paymentlines implements the Payment Lines query use case.
//
// This feature flattens an order's or checkout's payable state into the line view
// handed to payment providers: one line per product line, a synthetic shipping line,
// and, for partial payments, a difference line balancing the recorded amount against
// the full computed total.
//
// This is a read-only operation; the projection is pure and deterministic.
package paymentlines
