package repositories

import "context"

// TransactionManager runs a function inside a database transaction.
// The transaction is committed if fn returns nil and rolled back otherwise.
type TransactionManager interface {
	ExecTx(ctx context.Context, fn func(ctx context.Context) error) error
}
