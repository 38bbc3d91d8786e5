// Package plan holds the data model for a pre-planned query: a DAG of
// fragments, each a flattened operator tree plus an optional output sink.
// Nothing in this package parses or optimizes a plan — it is produced
// upstream by the (out of scope) SQL frontend and only read here.
package plan

import "fmt"

// HostPort names a single host, either a source of data (a "data host") or
// a worker that can run fragment instances (an "execution host"). The same
// type serves both roles; which role a given value plays is contextual.
type HostPort struct {
	Host string
	Port int32
}

func (h HostPort) String() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

func (h HostPort) Less(o HostPort) bool {
	if h.Host != o.Host {
		return h.Host < o.Host
	}
	return h.Port < o.Port
}

// PartitionType says whether a fragment runs on exactly one host
// (Unpartitioned, conventionally the coordinator) or fans out across many
// (Partitioned).
type PartitionType int

const (
	Unpartitioned PartitionType = iota
	Partitioned
)

// NodeType is the small closed set of operator kinds the coordinator itself
// needs to reason about. Every other node type the frontend may emit is
// opaque to the coordinator and tagged Other.
type NodeType int

const (
	NodeOther NodeType = iota
	NodeScan
	NodeExchange
)

// InvalidNodeID is the sentinel returned when no matching node exists.
const InvalidNodeID int32 = -1

// Node is one entry of a fragment's flattened preorder operator tree.
type Node struct {
	ID          int32
	Type        NodeType
	NumChildren int
}

// Tree is a fragment's flattened preorder plan: Tree.Nodes[0] is the root,
// and the first node with NumChildren == 0 encountered in preorder is the
// "leftmost leaf" (see coordinator/topology.go).
type Tree struct {
	Nodes []Node
}

// StreamSink is an output sink that feeds rows to an exchange node in
// another (downstream) fragment.
type StreamSink struct {
	DestNodeID      int32
	OutputPartition PartitionType
}

// TableSink is an output sink that writes rows to a filesystem table,
// driving finalization (coordinator/finalize.go) once the query completes.
type TableSink struct {
	TargetTable string
}

// Sink models Thrift's "optional one-of" idiom with plain nil-able fields
// rather than an interface, since a fragment has at most one sink and both
// kinds carry enough state to be worth keeping distinguishable by field
// rather than by type switch.
type Sink struct {
	Stream *StreamSink
	Table  *TableSink
}

// Fragment is one node of the query's fragment DAG: fragment 0 is always
// the root.
type Fragment struct {
	Plan      Tree
	Sink      *Sink
	Partition PartitionType
}

// FileSplit is a contiguous byte range of a single input file.
type FileSplit struct {
	Path   string
	Offset int64
	Length int64
}

// ScanRange is either a file split or some other (non-file) scan unit; the
// coordinator only cares about file splits for byte-balancing purposes.
type ScanRange struct {
	FileSplit *FileSplit
}

// Length returns the scan range's byte length for balancing purposes, 0 for
// non-file splits.
func (r ScanRange) Length() int64 {
	if r.FileSplit == nil {
		return 0
	}
	return r.FileSplit.Length
}

// ScanRangeLocation is one replica location of a scan range: the data host
// that holds it, plus an opaque volume-id hint passed through to the
// worker's local disk scheduler.
type ScanRangeLocation struct {
	Host     HostPort
	VolumeID int32
}

// ScanRangeLocations is a scan range together with every host that holds a
// replica of it.
type ScanRangeLocations struct {
	ScanRange ScanRange
	Locations []ScanRangeLocation
}

// ScanRangeParams is what actually gets shipped to a worker: the scan range
// plus the volume-id hint the assigner picked for it.
type ScanRangeParams struct {
	ScanRange ScanRange
	VolumeID  int32
}

// FinalizeParams configures post-query filesystem commit for bulk-insert
// queries (coordinator/finalize.go).
type FinalizeParams struct {
	BaseDir     string
	IsOverwrite bool
}

// DescriptorTable and QueryGlobals/QueryOptions are opaque, passed through
// to workers unmodified (spec §6 "Configuration"). Blobs rather than typed
// structs because the coordinator never inspects their contents.
type DescriptorTable []byte
type QueryGlobals map[string]string
type QueryOptions map[string]string

// ExecRequest is the complete pre-planned query handed to the coordinator
// by the (out-of-scope) frontend.
type ExecRequest struct {
	Fragments []Fragment
	// DestFragmentIdx[i] is the fragment index that fragment i+1 sends its
	// output to, for i in [0, len(Fragments)-2]; fragment 0 has no entry
	// since the root fragment has no destination.
	DestFragmentIdx []int
	// PerNodeScanRanges maps a scan node id to every scan range assigned to
	// that node, across the whole query.
	PerNodeScanRanges map[int32][]ScanRangeLocations
	DescTbl           DescriptorTable
	QueryGlobals      QueryGlobals
	FinalizeParams    *FinalizeParams
}

func (r *ExecRequest) NeedsFinalization() bool {
	return r.FinalizeParams != nil
}
