package coordinator

import (
	"github.com/shardedsql/qcoord/pkg/plan"
)

// assignedScanRanges is what one fragment instance (identified by its
// execution host) is told to scan.
type assignedScanRanges struct {
	ranges []plan.ScanRangeParams
}

// assignScanRanges implements component C: a greedy min-assigned-bytes
// balancer. For each scan range it picks, among the hosts holding a
// replica, the host with the least total bytes assigned so far (ties
// broken by the order of the range's replica locations), and assigns that
// replica's volume id.
// A scan range whose data host has no matching execution host (the
// scheduler maps 1:1 by construction, but defensive coding keeps this from
// silently corrupting the byte totals) falls back to round-robin across
// the fragment's hosts.
func assignScanRanges(
	hosts []plan.HostPort,
	dataServerMap map[plan.HostPort]plan.HostPort,
	locations []plan.ScanRangeLocations,
) map[plan.HostPort]*assignedScanRanges {
	assignedBytes := make(map[plan.HostPort]int64, len(hosts))
	assignment := make(map[plan.HostPort]*assignedScanRanges, len(hosts))
	hostIdx := make(map[plan.HostPort]int, len(hosts))
	for i, h := range hosts {
		assignment[h] = &assignedScanRanges{}
		hostIdx[h] = i
	}

	nextRoundRobin := 0
	for _, srl := range locations {
		best := pickMinAssignedHost(hosts, dataServerMap, srl.Locations, assignedBytes)
		var volumeID int32 = -1
		if best == (plan.HostPort{}) || hostIdx[best] < 0 {
			best = hosts[nextRoundRobin%len(hosts)]
			nextRoundRobin++
		} else {
			for _, loc := range srl.Locations {
				if dataServerMap[loc.Host] == best {
					volumeID = loc.VolumeID
					break
				}
			}
		}

		assignment[best].ranges = append(assignment[best].ranges, plan.ScanRangeParams{
			ScanRange: srl.ScanRange,
			VolumeID:  volumeID,
		})
		assignedBytes[best] += srl.ScanRange.Length()
	}

	return assignment
}

func pickMinAssignedHost(
	hosts []plan.HostPort,
	dataServerMap map[plan.HostPort]plan.HostPort,
	locs []plan.ScanRangeLocation,
	assignedBytes map[plan.HostPort]int64,
) plan.HostPort {
	var best plan.HostPort
	var bestBytes int64 = -1
	for _, loc := range locs {
		execHost, ok := dataServerMap[loc.Host]
		if !ok {
			continue
		}
		b := assignedBytes[execHost]
		if bestBytes == -1 || b < bestBytes {
			bestBytes = b
			best = execHost
		}
	}
	return best
}
