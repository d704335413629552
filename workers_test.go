package fastslic

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultWorkers(t *testing.T) {
	assert.Equal(t, runtime.GOMAXPROCS(0), DefaultWorkers(nil))
	assert.Equal(t, runtime.GOMAXPROCS(0), DefaultWorkers(NoopLogger()))
}
