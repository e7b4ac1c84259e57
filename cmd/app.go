/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"

	"github.com/gnames/dictmatrix/internal/iodb"
	"github.com/gnames/dictmatrix/internal/ioimport"
	"github.com/gnames/dictmatrix/internal/ioingest"
	"github.com/gnames/dictmatrix/internal/iolink"
	"github.com/gnames/dictmatrix/internal/ioschema"
	"github.com/gnames/dictmatrix/internal/iostore"
	"github.com/gnames/dictmatrix/pkg/db"
	"github.com/gnames/dictmatrix/pkg/store"
	"github.com/gnames/gn"
)

// app holds the storage and the pipelines shared by the commands.
type app struct {
	op    db.Operator
	store store.Store
	canon *ioingest.Canonicalizer
}

// openApp connects to the configured database. An empty database gets
// the schema first.
func openApp(ctx context.Context) (*app, error) {
	op := iodb.NewOperator()
	if err := op.Connect(ctx, cfg); err != nil {
		return nil, err
	}

	hasTables, err := op.HasTables(ctx)
	if err != nil {
		_ = op.Close()
		return nil, err
	}
	if !hasTables {
		gn.Info("Database is empty, creating schema...")
		if err = ioschema.NewManager(op).Create(ctx); err != nil {
			_ = op.Close()
			return nil, err
		}
	}

	return &app{
		op:    op,
		store: iostore.New(op, cfg.Database.BatchSize),
		canon: ioingest.New(cfg),
	}, nil
}

func (a *app) importer(opts ...ioimport.Option) *ioimport.Importer {
	return ioimport.New(cfg, a.store, a.canon, opts...)
}

func (a *app) linker() *iolink.Linker {
	return iolink.New(cfg, a.store, a.canon)
}

func (a *app) Close() error {
	return a.op.Close()
}
