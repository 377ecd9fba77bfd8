package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineKm(t *testing.T) {
	bh := Coord{Lat: -19.9167, Lon: -43.9345}        // Belo Horizonte
	ouroPreto := Coord{Lat: -20.3856, Lon: -43.5035} // Ouro Preto

	d := HaversineKm(bh, ouroPreto)
	assert.InDelta(t, 68.0, d, 5.0)
	assert.InDelta(t, d, HaversineKm(ouroPreto, bh), 1e-9)
	assert.Zero(t, HaversineKm(bh, bh))
}

func TestMatrixShape(t *testing.T) {
	assets := []Coord{{Lat: -20.1, Lon: -43.9}, {Lat: -20.2, Lon: -43.8}}
	bases := []Coord{{Lat: -20.1, Lon: -43.9}, {Lat: -20.4, Lon: -43.8}, {Lat: -19.9, Lon: -44.0}}

	m := Matrix(assets, bases)
	require.Len(t, m, 2)
	for _, row := range m {
		require.Len(t, row, 3)
	}
	assert.Zero(t, m[0][0])
	assert.Greater(t, m[0][1], 0.0)
}
