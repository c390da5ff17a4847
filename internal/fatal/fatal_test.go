package fatal

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFatalCallsExitFunc(t *testing.T) {
	original := exitFunc
	defer func() { exitFunc = original }()

	var gotCode int
	exitFunc = func(code int) { gotCode = code }

	Fatal("boom", "reason", "test")
	require.Equal(t, 1, gotCode)
}
