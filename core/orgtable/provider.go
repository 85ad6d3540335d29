package orgtable

import (
	"context"
	"sync"
)

// Provider loads a table on first use and hands the same table to every
// later caller. A failed load is remembered too.
type Provider struct {
	once  sync.Once
	load  func() (*Table, error)
	table *Table
	err   error
}

// NewProvider wraps a loader.
func NewProvider(load func() (*Table, error)) *Provider {
	return &Provider{load: load}
}

// FileProvider defers Open until the table is first needed.
func FileProvider(ctx context.Context, orgPath, lineagePath string) *Provider {
	return NewProvider(func() (*Table, error) {
		return Open(ctx, orgPath, lineagePath)
	})
}

// Table returns the loaded table, loading it on the first call.
func (p *Provider) Table() (*Table, error) {
	p.once.Do(func() {
		p.table, p.err = p.load()
	})
	return p.table, p.err
}
