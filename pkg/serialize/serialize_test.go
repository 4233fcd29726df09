package serialize

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/loomtree/loom/pkg/node"
)

func TestSerializeEmptyRoot(t *testing.T) {
	root := node.New(node.Root)
	assert.Equal(t, "", Serialize(root))
}

func TestSerializeSingleElement(t *testing.T) {
	root := node.New(node.Root)
	phase := node.CreateElement("phase")
	node.SetProperty(phase, "name", "build")
	node.Insert(root, phase, nil)

	assert.Equal(t, `<phase name="build" />`, Serialize(root))
}

func TestSerializeTextOnlyRoot(t *testing.T) {
	root := node.New(node.Root)
	node.Insert(root, node.CreateText("Fix bug"), nil)
	assert.Equal(t, "Fix bug", Serialize(root))
}

func TestSerializeNestedWithText(t *testing.T) {
	root := node.New(node.Root)
	ralph := node.CreateElement("ralph")
	node.SetProperty(ralph, "key", 0)
	phase := node.CreateElement("phase")
	node.SetProperty(phase, "name", "build")
	claude := node.CreateElement("claude")
	node.SetProperty(claude, "status", "pending")
	node.Insert(claude, node.CreateText("Fix bug"), nil)
	node.Insert(phase, claude, nil)
	node.Insert(ralph, phase, nil)
	node.Insert(root, ralph, nil)

	expected := "<ralph key=\"0\">\n  <phase name=\"build\">\n    <claude status=\"pending\">\n      Fix bug\n    </claude>\n  </phase>\n</ralph>"
	assert.Equal(t, expected, Serialize(root))
}

func TestSerializeEntityEscaping(t *testing.T) {
	root := node.New(node.Root)
	n := node.CreateElement("t")
	node.SetProperty(n, "key", "a&b")
	node.SetProperty(n, "message", `<hello & "world">`)
	node.Insert(root, n, nil)

	assert.Equal(t, `<t key="a&amp;b" message="&lt;hello &amp; &quot;world&quot;&gt;" />`, Serialize(root))
}

func TestSerializeCallbackFiltering(t *testing.T) {
	root := node.New(node.Root)
	n := node.CreateElement("t")
	node.SetProperty(n, "name", "x")
	node.SetProperty(n, "onFinished", func() {})
	node.SetProperty(n, "status", "running")
	node.Insert(root, n, nil)

	assert.Equal(t, `<t name="x" status="running" />`, Serialize(root))
}

func TestSerializeFunctionOnlyPropDropsEverything(t *testing.T) {
	root := node.New(node.Root)
	n := node.CreateElement("tag")
	node.SetProperty(n, "handler", func() {})
	node.Insert(root, n, nil)

	assert.Equal(t, "<tag />", Serialize(root))
}

func TestSerializeMalformedNodeIsEmptyString(t *testing.T) {
	n := &node.Node{}
	assert.Equal(t, "", Serialize(n))
}

func TestSerializeIsIdempotentAcrossRuns(t *testing.T) {
	root := node.New(node.Root)
	loop := node.CreateElement("loop")
	claude := node.CreateElement("claude")
	node.Insert(loop, claude, nil)
	node.Insert(root, loop, nil)

	first := Serialize(root)
	second := Serialize(root)
	assert.Equal(t, first, second)
}

func TestSerializeRevertedTreeByteIdentical(t *testing.T) {
	root := node.New(node.Root)
	phase := node.CreateElement("phase")
	node.SetProperty(phase, "name", "build")
	node.Insert(root, phase, nil)

	before := Serialize(root)

	node.SetProperty(phase, "name", "test")
	Serialize(root)
	node.SetProperty(phase, "name", "build")

	after := Serialize(root)
	assert.Equal(t, before, after)
}

func TestWarningOnUnknownTagParent(t *testing.T) {
	root := node.New(node.Root)
	loop := node.CreateElement("loop")
	claude := node.CreateElement("claude")
	node.Insert(loop, claude, nil)
	node.Insert(root, loop, nil)

	xml := Serialize(root)

	assert.NotContains(t, xml, "warning")
	assert.Len(t, claude.Warnings, 1)
	assert.Contains(t, claude.Warnings[0], "loop")
	assert.Empty(t, loop.Warnings)
}

func TestNoWarningUnderKnownTagParent(t *testing.T) {
	root := node.New(node.Root)
	phase := node.CreateElement("phase")
	claude := node.CreateElement("claude")
	node.Insert(phase, claude, nil)
	node.Insert(root, phase, nil)

	Serialize(root)
	assert.Empty(t, claude.Warnings)
}

func TestKeyWithAngleBracketEscaped(t *testing.T) {
	root := node.New(node.Root)
	n := node.CreateElement("tag")
	node.SetProperty(n, "key", "<")
	node.Insert(root, n, nil)

	assert.Equal(t, `<tag key="&lt;" />`, Serialize(root))
}
