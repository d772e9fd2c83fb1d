// Package sqlxrepos implements every core repository against PostgreSQL.
// Repositories are stateless; each call runs on the pooled connection unless
// the caller hands in the transaction it is composing.
package sqlxrepos

import (
	"github.com/axcelc2326/Group2-Capstone-SchoolRecord/core"
)

func executor(db core.DBExecutor, exec []core.DBExecutor) core.DBExecutor {
	if len(exec) > 0 && exec[0] != nil {
		return exec[0]
	}
	return db
}
