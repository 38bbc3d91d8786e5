package coordinator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/plan"
)

func mkSplit(n int64) plan.ScanRange {
	return plan.ScanRange{FileSplit: &plan.FileSplit{Path: "f", Offset: 0, Length: n}}
}

func TestAssignScanRangesRoundTrip(t *testing.T) {
	assert := assert.New(t)

	h1 := plan.HostPort{Host: "h1", Port: 1}
	h2 := plan.HostPort{Host: "h2", Port: 1}
	hosts := []plan.HostPort{h1, h2}
	dataServerMap := map[plan.HostPort]plan.HostPort{h1: h1, h2: h2}

	locations := []plan.ScanRangeLocations{
		{ScanRange: mkSplit(10), Locations: []plan.ScanRangeLocation{{Host: h1, VolumeID: 1}}},
		{ScanRange: mkSplit(20), Locations: []plan.ScanRangeLocation{{Host: h2, VolumeID: 2}}},
		{ScanRange: mkSplit(5), Locations: []plan.ScanRangeLocation{{Host: h1, VolumeID: 3}}},
	}

	assignment := assignScanRanges(hosts, dataServerMap, locations)

	total := 0
	for _, a := range assignment {
		total += len(a.ranges)
	}
	assert.Equal(len(locations), total, "every scan range must be assigned exactly once")

	assert.Len(assignment[h1].ranges, 2)
	assert.Len(assignment[h2].ranges, 1)
}

func TestAssignScanRangesBalance(t *testing.T) {
	assert := assert.New(t)

	h1 := plan.HostPort{Host: "h1", Port: 1}
	h2 := plan.HostPort{Host: "h2", Port: 1}
	hosts := []plan.HostPort{h1, h2}
	dataServerMap := map[plan.HostPort]plan.HostPort{h1: h1, h2: h2}

	var locations []plan.ScanRangeLocations
	for i := 0; i < 10; i++ {
		locations = append(locations, plan.ScanRangeLocations{
			ScanRange: mkSplit(100),
			Locations: []plan.ScanRangeLocation{{Host: h1}, {Host: h2}},
		})
	}

	assignment := assignScanRanges(hosts, dataServerMap, locations)

	bytes := map[plan.HostPort]int64{}
	for host, a := range assignment {
		for _, r := range a.ranges {
			bytes[host] += r.ScanRange.Length()
		}
	}
	assert.InDelta(bytes[h1], bytes[h2], 100, "balancer should split evenly within one range's worth of bytes")
}

func TestAssignScanRangesFallsBackToRoundRobin(t *testing.T) {
	assert := assert.New(t)

	h1 := plan.HostPort{Host: "h1", Port: 1}
	h2 := plan.HostPort{Host: "h2", Port: 1}
	hosts := []plan.HostPort{h1, h2}
	// dataServerMap has no entry for the data host the ranges actually live on.
	dataServerMap := map[plan.HostPort]plan.HostPort{}
	unmapped := plan.HostPort{Host: "unmapped", Port: 1}

	locations := []plan.ScanRangeLocations{
		{ScanRange: mkSplit(1), Locations: []plan.ScanRangeLocation{{Host: unmapped}}},
		{ScanRange: mkSplit(1), Locations: []plan.ScanRangeLocation{{Host: unmapped}}},
	}

	assignment := assignScanRanges(hosts, dataServerMap, locations)
	total := 0
	for _, a := range assignment {
		total += len(a.ranges)
	}
	assert.Equal(2, total)
}
