// Package queryid implements the 128-bit query/instance identifier scheme:
// an instance id is the query id's low 64 bits plus a monotonically
// assigned instance number, checked against overflow.
package queryid

import (
	"fmt"
	"math"

	"github.com/google/uuid"
)

// ID is a 128-bit identifier split into two halves, mirroring the original
// TUniqueId{hi, lo} layout.
type ID struct {
	Hi uint64
	Lo uint64
}

func (id ID) String() string {
	return fmt.Sprintf("%016x:%016x", id.Hi, id.Lo)
}

func (id ID) IsZero() bool {
	return id.Hi == 0 && id.Lo == 0
}

// New mints a fresh query id from a random UUID, for standalone/test use.
// Production callers receive a query id from the frontend that planned the
// query; this constructor exists so the coordinator never needs to reach
// for a process-global id generator on its own.
func New() ID {
	u := uuid.New()
	hi := uint64(0)
	lo := uint64(0)
	for i := 0; i < 8; i++ {
		hi = hi<<8 | uint64(u[i])
	}
	for i := 8; i < 16; i++ {
		lo = lo<<8 | uint64(u[i])
	}
	return ID{Hi: hi, Lo: lo}
}

// Instance derives the globally-unique instance id for instance number n
// (0-based) of this query, per the invariant in spec §3: lo + n + 1. It
// rejects overflow rather than silently wrapping.
func (id ID) Instance(n int64) (ID, error) {
	if n < 0 {
		return ID{}, fmt.Errorf("queryid: negative instance number %d", n)
	}
	if id.Lo > uint64(math.MaxInt64)-uint64(n)-1 {
		return ID{}, fmt.Errorf("queryid: instance number %d overflows query id %s", n, id)
	}
	return ID{Hi: id.Hi, Lo: id.Lo + uint64(n) + 1}, nil
}
