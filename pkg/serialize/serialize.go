// Package serialize turns a pkg/node tree into a deterministic,
// human-reviewable XML-shaped document: self-closing tags for childless
// elements, two-space indentation, key-first attribute ordering, a fixed
// prop filter, entity escaping, and an idempotent warning annotation
// pre-pass over a reserved set of "framework-meaningful" tags.
package serialize

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"strconv"
	"strings"

	"github.com/loomtree/loom/pkg/node"
)

// knownTags is the reserved known-tag set the warning pass checks
// ancestors against. Adding a tag here requires updating this list — there
// is no other source of truth.
var knownTags = map[string]bool{
	"claude":        true,
	"ralph":         true,
	"phase":         true,
	"step":          true,
	"task":          true,
	"persona":       true,
	"constraints":   true,
	"human":         true,
	"smithers-stop": true,
	"subagent":      true,
	"orchestration": true,
	"review":        true,
	"text":          true,
	"root":          true,
	"messages":      true,
	"message":       true,
	"tool-call":     true,
}

// reservedCallbacks are prop keys dropped from attribute output regardless
// of their value's type.
var reservedCallbacks = map[string]bool{
	"onFinished":    true,
	"onError":       true,
	"onStreamStart": true,
	"onStreamDelta": true,
	"onStreamEnd":   true,
	"validate":      true,
}

// Serialize runs the warning annotation pre-pass over root, then returns
// its XML-shaped serialization. It is the implementation behind both
// Root.ToXML and the package-level serialize(node) operation on the
// public surface.
func Serialize(root *node.Node) string {
	annotate(root, nil)
	return render(root)
}

// annotate implements the warning pre-pass: it clears every node's warnings
// first (so repeated runs are idempotent), then walks the tree assigning a
// warning to any known-tag node whose nearest non-ROOT ancestor is not
// itself a known tag.
func annotate(n *node.Node, parent *node.Node) {
	n.Warnings = nil
	for _, c := range n.Children {
		annotate(c, n)
	}

	if n.Type == node.Root || parent == nil {
		return
	}

	tag := strings.ToLower(n.Type)
	if !knownTags[tag] {
		return
	}

	ancestor := nearestNonRootAncestor(parent)
	if ancestor == nil {
		return
	}
	ancestorTag := strings.ToLower(ancestor.Type)
	if !knownTags[ancestorTag] {
		n.Warnings = []string{fmt.Sprintf("unknown parent tag %q", ancestorTag)}
	}
}

// nearestNonRootAncestor returns n unless n is the ROOT node, in which case
// there is no ancestor to report.
func nearestNonRootAncestor(n *node.Node) *node.Node {
	if n == nil || n.Type == node.Root {
		return nil
	}
	return n
}

// render recursively serializes n without touching Warnings; annotate must
// have already run.
func render(n *node.Node) string {
	if n == nil || n.Type == "" {
		return ""
	}

	if n.Type == node.Root {
		lines := make([]string, 0, len(n.Children))
		for _, c := range n.Children {
			lines = append(lines, render(c))
		}
		return strings.Join(lines, "\n")
	}

	if n.Type == node.Text {
		value, _ := n.Props["value"].(string)
		return escape(value)
	}

	tag := strings.ToLower(n.Type)
	attrs := attributes(n)

	if len(n.Children) == 0 {
		if len(attrs) == 0 {
			return fmt.Sprintf("<%s />", tag)
		}
		return fmt.Sprintf("<%s %s />", tag, strings.Join(attrs, " "))
	}

	childLines := make([]string, 0, len(n.Children))
	for _, c := range n.Children {
		rendered := render(c)
		for _, line := range strings.Split(rendered, "\n") {
			childLines = append(childLines, "  "+line)
		}
	}

	open := tag
	if len(attrs) > 0 {
		open = tag + " " + strings.Join(attrs, " ")
	}
	return fmt.Sprintf("<%s>\n%s\n</%s>", open, strings.Join(childLines, "\n"), tag)
}

// attributes builds the ordered attribute list: key first (if present),
// then every surviving prop, each already escaped and quoted.
func attributes(n *node.Node) []string {
	var attrs []string
	if n.Key != nil {
		attrs = append(attrs, fmt.Sprintf(`key="%s"`, escape(keyString(n.Key))))
	}

	names := make([]string, 0, len(n.Props))
	for k := range n.Props {
		names = append(names, k)
	}
	sort.Strings(names)

	for _, k := range names {
		if !keepProp(k, n.Props[k]) {
			continue
		}
		attrs = append(attrs, fmt.Sprintf(`%s="%s"`, k, escape(formatValue(n.Props[k]))))
	}
	return attrs
}

// keepProp applies the fixed prop filter: structural keys, functions, nil,
// and the reserved callback names are all dropped.
func keepProp(name string, value interface{}) bool {
	if name == "children" || name == "key" {
		return false
	}
	if reservedCallbacks[name] {
		return false
	}
	if value == nil {
		return false
	}
	if isFunc(value) {
		return false
	}
	return true
}

func isFunc(v interface{}) bool {
	return reflect.ValueOf(v).Kind() == reflect.Func
}

func keyString(key interface{}) string {
	switch k := key.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return formatValue(k)
	}
}

// formatValue renders scalar values in their natural string form and
// compound values as their JSON-encoded string form.
func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'g', -1, 64)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}

// escape applies the five named-entity escapes, ampersand first so the
// others' entities are never themselves escaped.
func escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "'", "&apos;")
	return s
}
