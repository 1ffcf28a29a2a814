package dvbdesc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeCRC32(t *testing.T) {
	assert.Equal(t, uint32(0x0376e6e7), computeCRC32([]byte("123456789")))
	assert.Equal(t, uint32(0), computeCRC32([]byte{'1', '2', '3', '4', '5', '6', '7', '8', '9', 0x03, 0x76, 0xe6, 0xe7}))
}
