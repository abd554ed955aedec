package render

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/stacklok/mcpui/pkg/action"
	"github.com/stacklok/mcpui/pkg/mcpuierrors"
)

// ElementSink is the host-side DOM materialization target for a
// Remote-DOM renderer. A concrete implementation owns real DOM elements
// (or their moral equivalent); this module never creates or mutates DOM
// directly, matching the iframe-boundary translation elsewhere in this
// package.
type ElementSink interface {
	CreateElement(id, elementType string) error
	SetProp(id, key string, value any) error
	SetText(id, text string) error
	AppendChild(parentID, childID string) error
	RemoveElement(id string) error
}

// EmitEvent is the host-owned emitter an "on*" prop binds to. It never
// receives a function value from the guest tree — only the node id and
// event name, forwarded by HandleEvent. The renderer posts no tool or
// intent message itself; pkg/hostloop's emitter surfaces the pair as a
// RemoteDOMEvent to the embedding application.
type EmitEvent func(nodeID, eventName string)

// DefaultMaxTreeDepth is the depth cap applied when RemoteDOMOptions
// leaves MaxTreeDepth unset.
const DefaultMaxTreeDepth = 64

// RemoteDOMOptions configures a RemoteDOMRenderer.
type RemoteDOMOptions struct {
	MaxTreeDepth int
	Emit         EmitEvent
}

// RemoteDOMRenderer materializes and reconciles a serialized RemoteNode
// tree (C7). It exclusively owns an id->RemoteNode map and a mirror
// id->element map; no cross-renderer sharing is permitted.
type RemoteDOMRenderer struct {
	sink     ElementSink
	emit     EmitEvent
	maxDepth int

	nodes    map[string]*action.RemoteNode
	root     *action.RemoteNode
	disposed bool
}

// NewRemoteDOMRenderer constructs a renderer writing into sink.
func NewRemoteDOMRenderer(sink ElementSink, opts RemoteDOMOptions) *RemoteDOMRenderer {
	maxDepth := opts.MaxTreeDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxTreeDepth
	}
	return &RemoteDOMRenderer{
		sink:     sink,
		emit:     opts.Emit,
		maxDepth: maxDepth,
		nodes:    make(map[string]*action.RemoteNode),
	}
}

// Materialize builds the initial DOM for root, recording every node into
// the id->RemoteNode map as it goes.
func (r *RemoteDOMRenderer) Materialize(root *action.RemoteNode) error {
	if r.disposed {
		return mcpuierrors.NewDisposedError("remote-dom renderer is disposed", nil)
	}
	if err := r.materialize(root, "", 0); err != nil {
		return err
	}
	r.root = root
	return nil
}

func (r *RemoteDOMRenderer) materialize(node *action.RemoteNode, parentID string, depth int) error {
	if depth > r.maxDepth {
		return mcpuierrors.NewRemoteDOMDeserializeError(
			fmt.Sprintf("remote-dom tree exceeds max depth %d", r.maxDepth), nil)
	}
	if _, exists := r.nodes[node.ID]; exists {
		return mcpuierrors.NewRemoteDOMDeserializeError(
			fmt.Sprintf("remote-dom node id %q is not unique within the tree", node.ID), nil)
	}

	if err := r.sink.CreateElement(node.ID, node.Type); err != nil {
		return err
	}
	r.nodes[node.ID] = node
	if parentID != "" {
		if err := r.sink.AppendChild(parentID, node.ID); err != nil {
			return err
		}
	}
	if err := r.applyProps(node); err != nil {
		return err
	}

	switch children := node.Children.(type) {
	case nil:
		// no content
	case string:
		if err := r.sink.SetText(node.ID, children); err != nil {
			return err
		}
	case []*action.RemoteNode:
		for _, child := range children {
			if err := r.materialize(child, node.ID, depth+1); err != nil {
				return err
			}
		}
	default:
		return mcpuierrors.NewRemoteDOMDeserializeError(
			fmt.Sprintf("remote-dom node %q has unrecognized children type", node.ID), nil)
	}
	return nil
}

func (r *RemoteDOMRenderer) applyProps(node *action.RemoteNode) error {
	for key, value := range node.Props {
		if value == nil {
			continue
		}
		if strings.HasPrefix(key, "on") && len(key) > 2 {
			handlerName, ok := value.(string)
			if !ok {
				return mcpuierrors.NewRemoteDOMDeserializeError(
					fmt.Sprintf("remote-dom node %q prop %q must name a handler, not a function", node.ID, key), nil)
			}
			nodeID := node.ID
			if r.emit != nil {
				if err := r.sink.SetProp(nodeID, key, handlerName); err != nil {
					return err
				}
			}
			continue
		}
		if err := r.sink.SetProp(node.ID, key, value); err != nil {
			return err
		}
	}
	return nil
}

// HandleEvent is called by the host when a bound handler fires inside a
// mounted tree; it forwards to the configured EmitEvent.
func (r *RemoteDOMRenderer) HandleEvent(nodeID, eventName string) {
	if r.emit != nil {
		r.emit(nodeID, eventName)
	}
}

// Reconcile applies diff to the current tree: removes, then updates,
// then inserts, regardless of the order diff.Ops declares them in.
func (r *RemoteDOMRenderer) Reconcile(diff *action.DomDiff) error {
	if r.disposed {
		return mcpuierrors.NewDisposedError("remote-dom renderer is disposed", nil)
	}

	for _, e := range diff.Removes() {
		if err := r.sink.RemoveElement(e.NodeID); err != nil {
			return err
		}
		delete(r.nodes, e.NodeID)
	}
	for _, e := range diff.Updates() {
		if err := r.sink.RemoveElement(e.NodeID); err != nil {
			return err
		}
		delete(r.nodes, e.NodeID)
		if e.Node != nil {
			if err := r.materialize(e.Node, e.ParentID, 0); err != nil {
				return err
			}
		}
	}
	for _, e := range diff.Inserts() {
		if e.Node == nil {
			continue
		}
		if err := r.materialize(e.Node, e.ParentID, 0); err != nil {
			return err
		}
	}
	return nil
}

// ReconcileTree computes the diff between the renderer's last-known tree
// and newRoot (a full-tree snapshot), then applies it exactly as
// Reconcile would. Guests that resync by posting a whole tree rather than
// a pre-built diff go through this path instead of Reconcile.
func (r *RemoteDOMRenderer) ReconcileTree(newRoot *action.RemoteNode) error {
	if r.disposed {
		return mcpuierrors.NewDisposedError("remote-dom renderer is disposed", nil)
	}
	diff, err := ComputeDiff(r.root, newRoot)
	if err != nil {
		return mcpuierrors.NewRemoteDOMDeserializeError(err.Error(), nil)
	}
	if err := r.Reconcile(diff); err != nil {
		return err
	}
	r.root = newRoot
	return nil
}

// ComputeDiff flattens old and new to id-keyed maps and derives the
// DomDiff between them: an id present only in new is an insert, an id
// present in both whose serialized form differs is an update, an id
// present only in old is a remove. Entries are ordered new-tree-first
// (pre-order) followed by removes in old-tree pre-order; Reconcile
// re-groups them into removes/updates/inserts regardless of this order.
func ComputeDiff(old, newRoot *action.RemoteNode) (*action.DomDiff, error) {
	oldFlat, err := flattenRemoteTree(old)
	if err != nil {
		return nil, fmt.Errorf("action: old remote-dom tree: %w", err)
	}
	newFlat, err := flattenRemoteTree(newRoot)
	if err != nil {
		return nil, fmt.Errorf("action: new remote-dom tree: %w", err)
	}

	oldByID := make(map[string]remoteFlatNode, len(oldFlat))
	for _, f := range oldFlat {
		oldByID[f.node.ID] = f
	}

	var ops []action.DiffEntry
	inNew := make(map[string]bool, len(newFlat))
	for _, f := range newFlat {
		inNew[f.node.ID] = true
		oldEntry, existed := oldByID[f.node.ID]
		switch {
		case !existed:
			ops = append(ops, action.DiffEntry{Op: action.DiffInsert, NodeID: f.node.ID, ParentID: f.parentID, Node: f.node})
		case !reflect.DeepEqual(remoteNodeShape(oldEntry.node), remoteNodeShape(f.node)):
			ops = append(ops, action.DiffEntry{Op: action.DiffUpdate, NodeID: f.node.ID, ParentID: f.parentID, Node: f.node})
		}
	}
	for _, f := range oldFlat {
		if !inNew[f.node.ID] {
			ops = append(ops, action.DiffEntry{Op: action.DiffRemove, NodeID: f.node.ID, ParentID: f.parentID})
		}
	}

	return &action.DomDiff{Ops: ops}, nil
}

type remoteFlatNode struct {
	node     *action.RemoteNode
	parentID string
}

// flattenRemoteTree walks root in pre-order, recording each node's id and
// parent id and rejecting duplicate ids within the same tree.
func flattenRemoteTree(root *action.RemoteNode) ([]remoteFlatNode, error) {
	if root == nil {
		return nil, nil
	}
	var out []remoteFlatNode
	seen := make(map[string]bool)
	var walk func(node *action.RemoteNode, parentID string) error
	walk = func(node *action.RemoteNode, parentID string) error {
		if seen[node.ID] {
			return fmt.Errorf("node id %q is not unique within the tree", node.ID)
		}
		seen[node.ID] = true
		out = append(out, remoteFlatNode{node: node, parentID: parentID})
		if children, ok := node.Children.([]*action.RemoteNode); ok {
			for _, child := range children {
				if err := walk(child, node.ID); err != nil {
					return err
				}
			}
		}
		return nil
	}
	if err := walk(root, ""); err != nil {
		return nil, err
	}
	return out, nil
}

// remoteNodeShape reduces a node to the fields that determine whether it
// changed: type, props, and text content. Element children are not part
// of a node's shape: each child is compared as its own entry, so a child
// added or removed shows up as that child's insert or remove rather than
// as an update of its parent, and a reorder of the same children yields
// no entry at all.
func remoteNodeShape(node *action.RemoteNode) any {
	if _, ok := node.Children.([]*action.RemoteNode); ok {
		return struct {
			Type  string
			Props map[string]any
		}{node.Type, node.Props}
	}
	return struct {
		Type     string
		Props    map[string]any
		Children any
	}{node.Type, node.Props, node.Children}
}

// Dispose clears both maps; further operations fail with ErrDisposed.
func (r *RemoteDOMRenderer) Dispose() error {
	r.disposed = true
	r.nodes = nil
	r.root = nil
	return nil
}

// Len reports the number of live nodes, exposed for tests asserting the
// id->RemoteNode map exactly mirrors the current tree.
func (r *RemoteDOMRenderer) Len() int {
	return len(r.nodes)
}
