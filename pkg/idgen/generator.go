package idgen

import (
	"fmt"
	"sync"

	"github.com/bwmarrin/snowflake"
)

// Generator hands out IDs used to correlate log lines of one
// authentication attempt.
type Generator interface {
	NewID() string
}

// SnowflakeGenerator implements Generator using Twitter Snowflake
type SnowflakeGenerator struct {
	node *snowflake.Node
	mu   sync.Mutex
}

// NewSnowflakeGenerator initializes a new ID generator.
// nodeID must be unique per server instance (0-1023) to prevent collisions.
func NewSnowflakeGenerator(nodeID int64) (*SnowflakeGenerator, error) {
	node, err := snowflake.NewNode(nodeID)
	if err != nil {
		return nil, fmt.Errorf("failed to create snowflake node: %w", err)
	}

	return &SnowflakeGenerator{
		node: node,
	}, nil
}

// NewID returns a new unique ID in base36 form.
func (g *SnowflakeGenerator) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.node.Generate().Base36()
}
