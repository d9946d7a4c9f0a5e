package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node with the given node ID.
// Each gateway replica needs its own node ID.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a new time-ordered int64 ID. It is used to tag every inbound
// webhook delivery so logs, spans and decision records can be correlated.
// Node 0 is used when Init was never called.
func New() int64 {
	if err := Init(0); err != nil {
		panic(err)
	}
	return node.Generate().Int64()
}
