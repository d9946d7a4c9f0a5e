package store

import (
	"timer2ticket.app/gateway/core/db"
)

type Stores struct {
	queries db.DBTX
}

func NewStores(queries db.DBTX) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Connections() ConnectionStore {
	return newConnectionStore(s.queries)
}

func (s *Stores) Mappings() MappingStore {
	return newMappingStore(s.queries)
}

func (s *Stores) TimeEntries() TimeEntryStore {
	return newTimeEntryStore(s.queries)
}

func (s *Stores) Memberships() MembershipStore {
	return newMembershipStore(s.queries)
}
