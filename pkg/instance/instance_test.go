package instance

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetID(t *testing.T) {
	t.Setenv("FOODORDER_WORKER_ID", "")
	assert.Equal(t, "outbox-publisher-0", GetID())

	t.Setenv("FOODORDER_WORKER_ID", "publisher-7")
	assert.Equal(t, "publisher-7", GetID())
}
