package utils

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/segmentio/ksuid"
)

var (
	nodeMu sync.Mutex
	node   *snowflake.Node
)

// NewID returns a sortable, globally unique record id.
func NewID() string {
	return ksuid.New().String()
}

// SetSnowflakeNode configures the node used by NewSnowflake. Node ids range 0..1023.
func SetSnowflakeNode(id int64) error {
	n, err := snowflake.NewNode(id)
	if err != nil {
		return err
	}
	nodeMu.Lock()
	node = n
	nodeMu.Unlock()
	return nil
}

// NewSnowflake returns a numeric, time-ordered id. Node 1 is used until SetSnowflakeNode is called.
func NewSnowflake() int64 {
	nodeMu.Lock()
	defer nodeMu.Unlock()
	if node == nil {
		// node 1 is always in range
		node, _ = snowflake.NewNode(1)
	}
	return node.Generate().Int64()
}
