package imaging

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCanvasSize(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		degrees       float64
		wantW, wantH  int
	}{
		{"identity", 10, 10, 0, 10, 10},
		{"landscape identity", 640, 480, 0, 640, 480},
		{"quarter turn", 4, 3, 90, 3, 4},
		{"negative quarter turn", 4, 3, -90, 3, 4},
		{"half turn", 100, 50, 180, 100, 50},
		{"past full turn", 4, 3, 450, 3, 4},
		{"diagonal", 10, 10, 45, 14, 14},
		// 13.66 truncates to 13; rounding would give 14.
		{"truncates", 10, 10, 30, 13, 13},
		{"single pixel", 1, 1, 45, 1, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := CanvasSize(tt.width, tt.height, tt.degrees*deg2Rad)
			require.Equal(t, tt.wantW, w)
			require.Equal(t, tt.wantH, h)
		})
	}
}

func TestMapper_CentreMapsToCentre(t *testing.T) {
	srcW, srcH := 11, 7
	for _, degrees := range []float64{0, 15, 90, 135, -200} {
		radians := degrees * deg2Rad
		dstW, dstH := CanvasSize(srcW, srcH, radians)
		m := NewMapper(srcW, srcH, dstW, dstH, radians)

		ox, oy := m.Map(dstW/2, dstH/2)
		require.Equal(t, float64(srcW/2), ox, "degrees %v", degrees)
		require.Equal(t, float64(srcH/2), oy, "degrees %v", degrees)
	}
}

func TestMapper_IdentityAtZero(t *testing.T) {
	m := NewMapper(6, 5, 6, 5, 0)
	for y := 0; y < 5; y++ {
		for x := 0; x < 6; x++ {
			ox, oy := m.Map(x, y)
			require.Equal(t, float64(x), ox)
			require.Equal(t, float64(y), oy)
		}
	}
}

func TestMapper_InverseRotation(t *testing.T) {
	// One step right of the canvas centre at +90 degrees comes from one step
	// above the source centre.
	radians := 90 * deg2Rad
	m := NewMapper(9, 9, 9, 9, radians)

	ox, oy := m.Map(5, 4)
	require.InDelta(t, 4, ox, 1e-9)
	require.InDelta(t, 3, oy, 1e-9)
}

func TestMapper_IntegerCentres(t *testing.T) {
	// Even canvas, odd source: centres are 2 and 1, not 2.5 and 1.5.
	m := NewMapper(5, 3, 4, 4, 0)
	ox, oy := m.Map(2, 2)
	require.Equal(t, 2.0, ox)
	require.Equal(t, 1.0, oy)
}
