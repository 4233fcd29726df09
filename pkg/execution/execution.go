// Package execution supplies the identifiers external agent components
// stamp into a node's Execution slot (pkg/node.Execution). The slot's
// contents are left entirely to external callers; this package is the
// concrete helper loom ships so those callers have a collision-resistant
// ID scheme rather than inventing their own.
package execution

import (
	"crypto/sha256"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/loomtree/loom/pkg/node"
)

// NewID returns a fresh random execution identifier, suitable for
// correlating a node's Execution slot with logs, metrics and traces emitted
// while an external agent runs against it.
func NewID() string {
	return uuid.NewString()
}

// ContentHash returns the stable hash external callers store in
// Execution.ContentHash, used to detect whether a re-run would observe the
// same effective input.
func ContentHash(content string) string {
	sum := sha256.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// Status enumerates the fixed lifecycle for the execution slot's status
// field.
type Status string

const (
	Pending  Status = "pending"
	Running  Status = "running"
	Complete Status = "complete"
	Error    Status = "error"
)

// Start stamps n.Execution with a fresh, running execution carrying a new
// ID (via NewID) and the given content hash. It never touches any other
// field on n.
func Start(n *node.Node, contentHash string) {
	n.Execution = &node.Execution{ID: NewID(), Status: string(Running), ContentHash: contentHash}
}

// Finish transitions n.Execution to Complete with result, or to Error with
// err if err is non-nil. Calling Finish on a node with no Execution slot is
// a no-op: external callers are expected to Start before Finish.
func Finish(n *node.Node, result interface{}, err error) {
	if n.Execution == nil {
		return
	}
	if err != nil {
		n.Execution.Status = string(Error)
		n.Execution.Error = err
		return
	}
	n.Execution.Status = string(Complete)
	n.Execution.Result = result
}
