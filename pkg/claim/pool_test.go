package claim_test

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/stretchr/testify/require"

	"github.com/yourorg/zecnam/pkg/claim"
)

func TestParsePool(t *testing.T) {
	p, err := claim.ParsePool("sapling")
	require.NoError(t, err)
	require.Equal(t, claim.Sapling, p)

	p, err = claim.ParsePool("orchard")
	require.NoError(t, err)
	require.Equal(t, claim.Orchard, p)

	_, err = claim.ParsePool("sprout")
	require.Error(t, err)
}

func TestPoolCurves(t *testing.T) {
	require.Equal(t, ecc.BLS12_381, claim.Sapling.Curve())
	require.Equal(t, ecc.BN254, claim.Orchard.Curve())
	require.False(t, claim.PoolKind(2).Valid())
}

func TestCompressNodeSeparatesPools(t *testing.T) {
	var left, right [32]byte
	left[31] = 1
	right[31] = 2

	s := claim.Sapling.CompressNode(left, right)
	require.Equal(t, s, claim.Sapling.CompressNode(left, right))
	require.NotEqual(t, s, claim.Sapling.CompressNode(right, left))
	require.NotEqual(t, s, claim.Orchard.CompressNode(left, right))
}
