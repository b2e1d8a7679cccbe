package store

import "context"

// RunWithRequestID wraps ctx with a correlation id and calls fn inside the provided TxRunner.
// Background jobs use this so their queries carry a run id in the tracer output.
func RunWithRequestID(ctx context.Context, tx TxRunner, reqID string, fn func(ctx context.Context, q RowQuerier) error) error {
	ctx = WithRequestID(ctx, reqID)
	return tx.Tx(ctx, func(q RowQuerier) error {
		return fn(ctx, q)
	})
}
