package repomanager

import (
	"github.com/dmitrijs2005/intelshare/internal/dbx"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/events"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/grants"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/groups"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/objects"
	"github.com/dmitrijs2005/intelshare/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a connection or a
// transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
	Groups(db dbx.DBTX) groups.Repository
	Events(db dbx.DBTX) events.Repository
	Objects(db dbx.DBTX) objects.Repository
	Grants(db dbx.DBTX) grants.Repository
}
