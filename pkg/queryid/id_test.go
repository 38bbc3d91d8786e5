package queryid_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shardedsql/qcoord/pkg/queryid"
)

func TestInstance(t *testing.T) {
	assert := assert.New(t)

	qid := queryid.ID{Hi: 1, Lo: 100}

	i0, err := qid.Instance(0)
	assert.NoError(err)
	assert.Equal(queryid.ID{Hi: 1, Lo: 101}, i0)

	i1, err := qid.Instance(1)
	assert.NoError(err)
	assert.Equal(queryid.ID{Hi: 1, Lo: 102}, i1)

	_, err = qid.Instance(-1)
	assert.Error(err)
}

func TestInstanceOverflow(t *testing.T) {
	assert := assert.New(t)

	qid := queryid.ID{Hi: 1, Lo: uint64(math.MaxInt64)}
	_, err := qid.Instance(0)
	assert.Error(err)
}

func TestNewIsNonZero(t *testing.T) {
	assert := assert.New(t)
	assert.False(queryid.New().IsZero())
}
