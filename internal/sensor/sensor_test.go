package sensor

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want float32
	}{
		{"zero", []byte{0x00, 0x00, 0x00, 0x00}, 0},
		{"23.5", []byte{0x41, 0xbc, 0x00, 0x00}, 23.5},
		{"-1", []byte{0xbf, 0x80, 0x00, 0x00}, -1},
		{"24.1", []byte{0x41, 0xc0, 0xcc, 0xcd}, 24.1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Decode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDecodeRejectsWrongLength(t *testing.T) {
	for _, in := range [][]byte{nil, {0x41}, {0x41, 0xbc, 0x00}, {0x41, 0xbc, 0x00, 0x00, 0x00}} {
		_, err := Decode(in)
		assert.ErrorIs(t, err, ErrMalformedDatagram, "Decode(% x)", in)
	}
}

func TestEncodeIsBigEndian(t *testing.T) {
	b := Encode(23.5)
	assert.Equal(t, [4]byte{0x41, 0xbc, 0x00, 0x00}, b)

	v, err := Decode(b[:])
	require.NoError(t, err)
	assert.Equal(t, float32(23.5), v)
}

func TestGenerator(t *testing.T) {
	start := time.Date(2026, 2, 21, 14, 0, 0, 0, time.Local)
	g := NewGenerator(start)

	assert.Equal(t, float32(24), g.Generate(start))

	// sin(elapsed/4) peaks at elapsed = 2π seconds.
	quarter := 2 * math.Pi * float64(time.Second)
	peak := start.Add(time.Duration(quarter))
	assert.InDelta(t, 25, float64(g.Generate(peak)), 1e-4)

	for i := 0; i < 120; i++ {
		v := g.Generate(start.Add(time.Duration(i) * time.Second))
		require.GreaterOrEqual(t, v, float32(23), "sample %d", i)
		require.LessOrEqual(t, v, float32(25), "sample %d", i)
	}
}

func TestReadingStale(t *testing.T) {
	assert.True(t, Reading{Temp: 23.5}.Stale(), "disconnected reading is stale")
	assert.False(t, Reading{Temp: 23.5, Connected: true}.Stale(), "connected reading is current")
}
