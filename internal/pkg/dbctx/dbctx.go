package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Of wraps a bare context with no transaction.
func Of(ctx context.Context) Context {
	return Context{Ctx: ctx}
}

// Resolve returns the transaction bound to dbc, or root when there is none.
func (dbc Context) Resolve(root *gorm.DB) *gorm.DB {
	tx := dbc.Tx
	if tx == nil {
		tx = root
	}
	ctx := dbc.Ctx
	if ctx == nil {
		ctx = context.Background()
	}
	return tx.WithContext(ctx)
}
