package assertdb

import (
	"errors"
	"sync"

	"github.com/AntonStoeckl/assertdb-go/assertdb/soft"
)

// Registry returns the reconstruction registry of every node type of this package.
// It is built once; the error is returned on every call if building failed.
var Registry = sync.OnceValues(buildRegistry)

func buildRegistry() (*soft.Registry, error) {
	r := soft.NewRegistry()

	return r, errors.Join(
		soft.RegisterRoot(r, newTableAssert),
		soft.RegisterRoot(r, newRequestAssert),
		soft.RegisterRoot(r, newChangesAssert),

		soft.RegisterShape(r, newRowAssert[*TableAssert]),
		soft.RegisterShape(r, newRowAssert[*RequestAssert]),
		soft.RegisterShape(r, newRowAssert[*ChangeAssert]),

		soft.RegisterShape(r, newColumnAssert[*TableAssert]),
		soft.RegisterShape(r, newColumnAssert[*RequestAssert]),

		soft.RegisterShape(r, newValueAssert[*RowAssert[*TableAssert]]),
		soft.RegisterShape(r, newValueAssert[*RowAssert[*RequestAssert]]),
		soft.RegisterShape(r, newValueAssert[*RowAssert[*ChangeAssert]]),
		soft.RegisterShape(r, newValueAssert[*ColumnAssert[*TableAssert]]),
		soft.RegisterShape(r, newValueAssert[*ColumnAssert[*RequestAssert]]),
		soft.RegisterShape(r, newValueAssert[*ChangeColumnAssert]),

		soft.RegisterShape(r, newChangeAssert),
		r.Register(changeColumnDescriptor()),
	)
}
