package execution

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomtree/loom/pkg/node"
)

func TestStartStampsFreshIDAndRunningStatus(t *testing.T) {
	n := node.New("agent")

	Start(n, "hash-a")

	assert.NotEmpty(t, n.Execution.ID)
	assert.Equal(t, string(Running), n.Execution.Status)
	assert.Equal(t, "hash-a", n.Execution.ContentHash)
}

func TestStartStampsDistinctIDsAcrossCalls(t *testing.T) {
	a := node.New("agent")
	b := node.New("agent")

	Start(a, "hash-a")
	Start(b, "hash-a")

	assert.NotEqual(t, a.Execution.ID, b.Execution.ID)
}

func TestFinishRecordsResultOnSuccess(t *testing.T) {
	n := node.New("agent")
	Start(n, "hash-a")

	Finish(n, "ok", nil)

	assert.Equal(t, string(Complete), n.Execution.Status)
	assert.Equal(t, "ok", n.Execution.Result)
	assert.NoError(t, n.Execution.Error)
}

func TestFinishRecordsErrorOnFailure(t *testing.T) {
	n := node.New("agent")
	Start(n, "hash-a")

	Finish(n, nil, errors.New("boom"))

	assert.Equal(t, string(Error), n.Execution.Status)
	assert.EqualError(t, n.Execution.Error, "boom")
}

func TestFinishOnNodeWithoutExecutionIsNoOp(t *testing.T) {
	n := node.New("agent")

	assert.NotPanics(t, func() {
		Finish(n, "ok", nil)
	})
	assert.Nil(t, n.Execution)
}
