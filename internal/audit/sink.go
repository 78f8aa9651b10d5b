package audit

import (
	"context"
	"log"

	"github.com/khagesh-wolf/Himalaya-Vitality-sub000/internal/inventory"
)

// Sink receives inventory ledger entries. Appends are fire-and-forget from
// the caller's perspective: a failed append is logged as a warning and must
// never fail the order that produced it.
type Sink interface {
	Append(ctx context.Context, entry inventory.LedgerEntry) error
}

// LogSink writes ledger entries to the process log. It is the default sink
// and the fallback when no broker is configured.
type LogSink struct{}

func (LogSink) Append(_ context.Context, entry inventory.LedgerEntry) error {
	log.Printf("inventory ledger: sku=%v action=%v delta=%v actor=%v", entry.SKU, entry.Action, entry.QuantityDelta, entry.Actor)
	return nil
}
