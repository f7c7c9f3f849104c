package fetcher

import (
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mintBytes lays out an 82-byte SPL mint.
func mintBytes(mintAuth *solana.PublicKey, supply uint64, decimals uint8, initialized bool, freezeAuth *solana.PublicKey) []byte {
	buf := make([]byte, 82)
	if mintAuth != nil {
		binary.LittleEndian.PutUint32(buf[0:4], 1)
		copy(buf[4:36], mintAuth[:])
	}
	binary.LittleEndian.PutUint64(buf[36:44], supply)
	buf[44] = decimals
	if initialized {
		buf[45] = 1
	}
	if freezeAuth != nil {
		binary.LittleEndian.PutUint32(buf[46:50], 1)
		copy(buf[50:82], freezeAuth[:])
	}
	return buf
}

func TestDecodeMint_NoAuthorities(t *testing.T) {
	m, err := DecodeMint(mintBytes(nil, 1_000_000, 6, true, nil))
	require.NoError(t, err)
	assert.Equal(t, &MintRecord{
		Supply:        1_000_000,
		Decimals:      6,
		IsInitialized: true,
	}, m)
}

func TestDecodeMint_WithAuthorities(t *testing.T) {
	mintAuth := solana.NewWallet().PublicKey()
	freezeAuth := solana.NewWallet().PublicKey()

	m, err := DecodeMint(mintBytes(&mintAuth, 42, 9, true, &freezeAuth))
	require.NoError(t, err)
	require.NotNil(t, m.MintAuthority)
	require.NotNil(t, m.FreezeAuthority)
	assert.Equal(t, mintAuth, *m.MintAuthority)
	assert.Equal(t, freezeAuth, *m.FreezeAuthority)
	assert.Equal(t, uint64(42), m.Supply)
	assert.Equal(t, uint8(9), m.Decimals)
}

func TestDecodeMint_Mismatch(t *testing.T) {
	valid := mintBytes(nil, 1, 0, true, nil)

	badMintTag := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badMintTag[0:4], 2)

	badFreezeTag := append([]byte(nil), valid...)
	binary.LittleEndian.PutUint32(badFreezeTag[46:50], 0xffffffff)

	badBool := append([]byte(nil), valid...)
	badBool[45] = 7

	tests := []struct {
		name string
		data []byte
	}{
		{"empty", nil},
		{"short", valid[:81]},
		{"long", append(append([]byte(nil), valid...), 0)},
		{"token account size", make([]byte, 165)},
		{"mint authority tag", badMintTag},
		{"freeze authority tag", badFreezeTag},
		{"initialized byte", badBool},
		{"uninitialized", mintBytes(nil, 1, 0, false, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				m   *MintRecord
				err error
			)
			assert.NotPanics(t, func() { m, err = DecodeMint(tt.data) })
			assert.Nil(t, m)
			assert.ErrorIs(t, err, ErrDecodeMismatch)
		})
	}
}

func TestDecodeMint_ReadsAuthorityKeys(t *testing.T) {
	mintAuth := solana.MustPublicKeyFromBase58("EPjFWdd5AufqSSqeM2qN1xzybapC8G4wEGGkZwyTDt1v")
	data := mintBytes(&mintAuth, 7, 2, true, nil)

	m, err := DecodeMint(data)
	require.NoError(t, err)
	require.NotNil(t, m.MintAuthority)
	assert.Equal(t, mintAuth, *m.MintAuthority)
	assert.Nil(t, m.FreezeAuthority)

	binary.LittleEndian.PutUint32(data[0:4], 2)
	_, err = DecodeMint(data)
	assert.EqualError(t, err, "not decodable as a mint: mint_authority tag 2")
}

func TestParseKey(t *testing.T) {
	pk, err := ParseKey("  So11111111111111111111111111111111111111112 ")
	require.NoError(t, err)
	assert.Equal(t, solana.SolMint, pk)

	for _, bad := range []string{
		"",
		"not-base58-0OIl",
		"1111",
		"So11111111111111111111111111111111111111112So11111111111",
	} {
		_, err := ParseKey(bad)
		assert.ErrorIs(t, err, ErrInvalidKey, bad)
	}
}
