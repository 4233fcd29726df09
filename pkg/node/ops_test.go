package node

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCreateElement(t *testing.T) {
	n := CreateElement("phase")
	assert.Equal(t, "phase", n.Type)
	assert.Empty(t, n.Props)
	assert.Empty(t, n.Children)
	assert.Nil(t, n.Parent)
	assert.Nil(t, n.Key)
}

func TestCreateText(t *testing.T) {
	n := CreateText("hello")
	assert.Equal(t, Text, n.Type)
	assert.Equal(t, "hello", n.Props["value"])
	assert.Empty(t, n.Children)
}

func TestSetPropertyIgnoresChildren(t *testing.T) {
	n := CreateElement("claude")
	SetProperty(n, "children", []int{1, 2, 3})
	assert.Empty(t, n.Props)
}

func TestSetPropertyRoutesKey(t *testing.T) {
	n := CreateElement("agent")
	SetProperty(n, "key", 3)
	assert.Equal(t, 3, n.Key)
	assert.NotContains(t, n.Props, "key")
}

func TestSetPropertyOrdinary(t *testing.T) {
	n := CreateElement("phase")
	SetProperty(n, "name", "build")
	assert.Equal(t, "build", n.Props["name"])
}

func TestReplaceTextOnTextNode(t *testing.T) {
	n := CreateText("old")
	ReplaceText(n, "new")
	assert.Equal(t, "new", n.Props["value"])
}

func TestReplaceTextOnNonTextPanics(t *testing.T) {
	n := CreateElement("phase")
	assert.Panics(t, func() {
		ReplaceText(n, "oops")
	})
}

func TestInsertAppendsWithoutAnchor(t *testing.T) {
	parent := CreateElement(Root)
	a := CreateElement("a")
	b := CreateElement("b")
	Insert(parent, a, nil)
	Insert(parent, b, nil)
	assert.Equal(t, []*Node{a, b}, parent.Children)
	assert.Same(t, parent, a.Parent)
	assert.Same(t, parent, b.Parent)
}

func TestInsertBeforeAnchor(t *testing.T) {
	parent := CreateElement(Root)
	a := CreateElement("a")
	b := CreateElement("b")
	c := CreateElement("c")
	Insert(parent, a, nil)
	Insert(parent, b, nil)
	Insert(parent, c, a)
	assert.Equal(t, []*Node{c, a, b}, parent.Children)
}

func TestInsertAnchorNotPresentAppends(t *testing.T) {
	parent := CreateElement(Root)
	other := CreateElement(Root)
	strayAnchor := CreateElement("anchor")
	a := CreateElement("a")
	Insert(parent, a, strayAnchor)
	assert.Equal(t, []*Node{a}, parent.Children)
	_ = other
}

func TestRemoveDetachesByIdentity(t *testing.T) {
	parent := CreateElement(Root)
	a := CreateElement("a")
	b := CreateElement("b")
	Insert(parent, a, nil)
	Insert(parent, b, nil)

	Remove(parent, a)
	assert.Equal(t, []*Node{b}, parent.Children)
	assert.Nil(t, a.Parent)
}

func TestRemoveMissingChildIsNoop(t *testing.T) {
	parent := CreateElement(Root)
	stray := CreateElement("stray")
	assert.NotPanics(t, func() {
		Remove(parent, stray)
	})
}

func TestInsertThenRemoveRoundTrip(t *testing.T) {
	parent := CreateElement(Root)
	before := append([]*Node{}, parent.Children...)

	child := CreateElement("x")
	Insert(parent, child, nil)
	Remove(parent, child)

	assert.Equal(t, before, parent.Children)
	assert.Nil(t, child.Parent)
}

func TestClearChildrenDoesNotNullParent(t *testing.T) {
	parent := CreateElement(Root)
	a := CreateElement("a")
	Insert(parent, a, nil)

	ClearChildren(parent)
	assert.Empty(t, parent.Children)
	assert.Same(t, parent, a.Parent)
}

func TestAttached(t *testing.T) {
	root := CreateElement(Root)
	child := CreateElement("a")
	grandchild := CreateElement("b")
	Insert(root, child, nil)
	Insert(child, grandchild, nil)

	assert.True(t, Attached(root, root))
	assert.True(t, Attached(root, child))
	assert.True(t, Attached(root, grandchild))

	detached := CreateElement("c")
	assert.False(t, Attached(root, detached))
}

func TestContractViolationError(t *testing.T) {
	n := CreateElement("phase")
	defer func() {
		r := recover()
		if err, ok := r.(*ContractViolation); ok {
			assert.Contains(t, err.Error(), "replace_text")
		} else {
			t.Fatalf("expected *ContractViolation, got %v", r)
		}
	}()
	ReplaceText(n, "x")
}
