package node

import (
	"os"
	"sync"

	"github.com/google/uuid"
)

// Node describes the running process. Version and CommitHash are set at
// build time with -ldflags.
type Node struct {
	ID         string
	Hostname   string
	Version    string
	CommitHash string
}

var Version = "development"
var CommitHash = "unknown"

var (
	nodeID     string
	nodeIDOnce sync.Once
)

func GetNodeInfo() *Node {
	return &Node{
		ID:         getNodeID(),
		Hostname:   hostname(),
		Version:    Version,
		CommitHash: CommitHash,
	}
}

// ClientID builds a broker client id that is unique per process.
func (n *Node) ClientID(prefix string) string {
	return prefix + "-" + n.ID[:8]
}

func getNodeID() string {
	nodeIDOnce.Do(func() {
		nodeID = uuid.NewString()
	})
	return nodeID
}

func hostname() string {
	name, err := os.Hostname()
	if err != nil || name == "" {
		return "localhost"
	}
	return name
}
