//go:build cgo && opencv

package backend

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hsiuhsiu/opencv-go/pkg/cv/types"
)

// The Go value types are reinterpreted as their C counterparts at the call
// boundary, so the compiled header must agree with the recorded table.
func TestCStructLayoutsMatchGoTypes(t *testing.T) {
	got := cLayouts()
	require.Len(t, got, len(types.NativeLayouts))

	for name, want := range types.NativeLayouts {
		t.Run(name, func(t *testing.T) {
			c, ok := got[name]
			require.True(t, ok, "no C layout for %s", name)
			assert.Equal(t, want.Size, c.Size, "size")
			assert.Equal(t, want.Offsets, c.Offsets, "offsets")
		})
	}
}
