package node

// CreateElement returns a fresh detached node with the given tag. It is
// infallible: an empty or reserved typ is accepted as-is, the same way a
// reconciler never validates tag strings itself.
func CreateElement(typ string) *Node {
	return New(typ)
}

// CreateText returns a fresh TEXT node with Props["value"] = value.
func CreateText(value string) *Node {
	return NewText(value)
}

// SetProperty assigns a single prop on n. "children" is structural and is a
// no-op here; "key" is routed to n.Key instead of the prop bag. Everything
// else lands in n.Props.
func SetProperty(n *Node, name string, value interface{}) {
	switch name {
	case "children":
		return
	case "key":
		n.Key = value
	default:
		n.Props[name] = value
	}
}

// DeleteProperty removes name from n's prop bag. Used by commit-update to
// apply a patch's delete sentinel.
func DeleteProperty(n *Node, name string) {
	switch name {
	case "children", "key":
		return
	default:
		delete(n.Props, name)
	}
}

// ReplaceText sets n.Props["value"] = value. Precondition: n.Type == Text;
// violating it is a programmer-contract error.
func ReplaceText(n *Node, value string) {
	if n.Type != Text {
		violate("replace_text", "node type %q is not TEXT", n.Type)
	}
	n.Props["value"] = value
}

// Insert attaches child to parent. If anchor is non-nil and present in
// parent.Children (checked by pointer identity, not equality), child is
// inserted immediately before it; otherwise child is appended.
func Insert(parent, child *Node, anchor *Node) {
	child.Parent = parent

	if anchor != nil {
		if i := indexOf(parent, anchor); i >= 0 {
			parent.Children = append(parent.Children, nil)
			copy(parent.Children[i+1:], parent.Children[i:])
			parent.Children[i] = child
			return
		}
	}
	parent.Children = append(parent.Children, child)
}

// Remove detaches child from parent if present (identity search), closing
// the gap in parent.Children and nulling child.Parent. A missing child is a
// no-op rather than an error, since the reconciler can legitimately ask to
// remove something already gone during container teardown races.
func Remove(parent, child *Node) {
	i := indexOf(parent, child)
	if i < 0 {
		return
	}
	parent.Children = append(parent.Children[:i], parent.Children[i+1:]...)
	child.Parent = nil
}

// ClearChildren empties parent's children without nulling their Parent
// pointers — used by container reset, where the removed nodes are garbage
// and nulling would be wasted work.
func ClearChildren(parent *Node) {
	parent.Children = nil
}
