// Package tasking implements the order lifecycle and assignment engine for
// depot logistics: a bounded pool of reusable orders per depot, worker pools,
// the consumer-side replenishment manager, the producer-side reservation
// manager, and the round-robin assignment scanner that pairs open orders with
// idle workers and supplier depots.
//
// The whole package is single-threaded and tick-driven. Managers advance via
// explicit Tick calls from an owning scheduler loop; throttling is done with
// elapsed-time accumulators, never by blocking. All notification dispatch is
// synchronous, so counter reconciliation is deterministic within one tick.
package tasking
