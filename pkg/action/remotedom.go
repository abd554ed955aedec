package action

import (
	"encoding/json"
	"fmt"
)

// RemoteNode is one node of a guest-declared remote-DOM tree. Children is
// either a string (text content) or a []*RemoteNode (element content);
// UnmarshalJSON enforces that shape.
type RemoteNode struct {
	ID       string         `json:"id"`
	Type     string         `json:"type"`
	Props    map[string]any `json:"props,omitempty"`
	Children any            `json:"children,omitempty"`
}

type remoteNodeWire struct {
	ID       string          `json:"id"`
	Type     string          `json:"type"`
	Props    map[string]any  `json:"props,omitempty"`
	Children json.RawMessage `json:"children,omitempty"`
}

// UnmarshalJSON decodes Children as either a JSON string or an array of
// RemoteNode, rejecting any other shape.
func (n *RemoteNode) UnmarshalJSON(data []byte) error {
	var w remoteNodeWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	n.ID, n.Type, n.Props = w.ID, w.Type, w.Props

	if len(w.Children) == 0 {
		n.Children = nil
		return nil
	}

	var text string
	if err := json.Unmarshal(w.Children, &text); err == nil {
		n.Children = text
		return nil
	}

	var children []*RemoteNode
	if err := json.Unmarshal(w.Children, &children); err == nil {
		n.Children = children
		return nil
	}

	return fmt.Errorf("action: remote node %q children must be a string or an array of nodes", w.ID)
}

// DiffOp is the kind of operation carried by a DomDiff entry.
type DiffOp string

// Recognized diff operations, applied in removes -> updates -> inserts
// order by the reconciler regardless of the order they appear in DomDiff.Ops.
const (
	DiffRemove DiffOp = "remove"
	DiffUpdate DiffOp = "update"
	DiffInsert DiffOp = "insert"
)

// DiffEntry is one operation within a DomDiff.
type DiffEntry struct {
	Op       DiffOp      `json:"op"`
	NodeID   string      `json:"nodeId"`
	ParentID string      `json:"parentId,omitempty"`
	Index    int         `json:"index,omitempty"`
	Node     *RemoteNode `json:"node,omitempty"`
	Props    map[string]any `json:"props,omitempty"`
}

// DomDiff is a guest-declared set of changes to an existing remote-DOM
// tree, grouped by operation for deterministic application order.
type DomDiff struct {
	Ops []DiffEntry `json:"ops"`
}

// Removes returns the diff's remove entries, in declaration order.
func (d *DomDiff) Removes() []DiffEntry { return d.byOp(DiffRemove) }

// Updates returns the diff's update entries, in declaration order.
func (d *DomDiff) Updates() []DiffEntry { return d.byOp(DiffUpdate) }

// Inserts returns the diff's insert entries, in declaration order.
func (d *DomDiff) Inserts() []DiffEntry { return d.byOp(DiffInsert) }

func (d *DomDiff) byOp(op DiffOp) []DiffEntry {
	var out []DiffEntry
	for _, e := range d.Ops {
		if e.Op == op {
			out = append(out, e)
		}
	}
	return out
}
