package snowflake

import (
	"sync"

	"github.com/bwmarrin/snowflake"
)

var (
	mu   sync.Mutex
	node *snowflake.Node
)

// Init initializes the snowflake node with the given node ID.
// Node ID should be unique across all instances (0-1023).
func Init(nodeID int64) error {
	n, err := snowflake.NewNode(nodeID)
	if err != nil {
		return err
	}
	mu.Lock()
	node = n
	mu.Unlock()
	return nil
}

func current() *snowflake.Node {
	mu.Lock()
	defer mu.Unlock()
	if node == nil {
		// Node 0 is always valid.
		node, _ = snowflake.NewNode(0)
	}
	return node
}

// NextID generates a new unique, time-ordered snowflake ID.
func NextID() int64 {
	return current().Generate().Int64()
}

// NextString returns NextID in decimal form, the shape entry ids are stored in.
func NextString() string {
	return current().Generate().String()
}
