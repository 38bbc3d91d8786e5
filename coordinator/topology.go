package coordinator

import "github.com/shardedsql/qcoord/pkg/plan"

// findLeftmostOfTypes returns the id of the leftmost leaf node in tree's
// flattened preorder array iff that node's type is one of types, else
// plan.InvalidNodeID. The leftmost leaf is the first node encountered in
// preorder with NumChildren == 0 — that is always well-defined for a
// non-empty tree, since some node must eventually be childless.
func findLeftmostOfTypes(tree plan.Tree, types ...plan.NodeType) int32 {
	idx := 0
	for idx < len(tree.Nodes) && tree.Nodes[idx].NumChildren != 0 {
		idx++
	}
	if idx == len(tree.Nodes) {
		return plan.InvalidNodeID
	}
	node := tree.Nodes[idx]
	for _, t := range types {
		if node.Type == t {
			return node.ID
		}
	}
	return plan.InvalidNodeID
}

// findLeftmostInputFragment returns the index of the fragment whose output
// stream sink targets fragmentIdx's leftmost exchange node, or
// plan.InvalidNodeID (as an int) if fragmentIdx has no leftmost exchange
// node, or -1 if no fragment is found to feed it (an inconsistent request).
func findLeftmostInputFragment(fragmentIdx int, req *plan.ExecRequest) int {
	exchID := findLeftmostOfTypes(req.Fragments[fragmentIdx].Plan, plan.NodeExchange)
	if exchID == plan.InvalidNodeID {
		return -1
	}

	for i, destIdx := range req.DestFragmentIdx {
		if destIdx != fragmentIdx {
			continue
		}
		inputFragment := req.Fragments[i+1]
		if inputFragment.Sink == nil || inputFragment.Sink.Stream == nil {
			continue
		}
		if inputFragment.Sink.Stream.DestNodeID == exchID {
			return i + 1
		}
	}
	return -1
}
