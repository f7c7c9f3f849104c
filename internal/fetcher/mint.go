package fetcher

import (
	"encoding/binary"
	"fmt"

	"github.com/fystack/solana-account-fetcher/pkg/common/constant"
	bin "github.com/gagliardetto/binary"
	"github.com/gagliardetto/solana-go"
)

// MintRecord is the SPL Token mint state.
//
// Layout (82 bytes, little endian):
//
//	[0:4]   mint authority COption tag
//	[4:36]  mint authority
//	[36:44] supply
//	[44]    decimals
//	[45]    is_initialized
//	[46:50] freeze authority COption tag
//	[50:82] freeze authority
type MintRecord struct {
	MintAuthority   *solana.PublicKey `json:"mint_authority"   yaml:"mint_authority"`
	Supply          uint64            `json:"supply"           yaml:"supply"`
	Decimals        uint8             `json:"decimals"         yaml:"decimals"`
	IsInitialized   bool              `json:"is_initialized"   yaml:"is_initialized"`
	FreezeAuthority *solana.PublicKey `json:"freeze_authority" yaml:"freeze_authority"`
}

// DecodeMint interprets data as an SPL mint. Every failure wraps
// ErrDecodeMismatch; an uninitialized mint is rejected like spl-token's
// Pack::unpack does.
func DecodeMint(data []byte) (*MintRecord, error) {
	if len(data) != constant.MintAccountSize {
		return nil, fmt.Errorf("%w: length %d, want %d", ErrDecodeMismatch, len(data), constant.MintAccountSize)
	}

	dec := bin.NewBinDecoder(data)
	var (
		m   MintRecord
		err error
	)
	if m.MintAuthority, err = readOptionalKey(dec, "mint_authority"); err != nil {
		return nil, err
	}
	if m.Supply, err = dec.ReadUint64(binary.LittleEndian); err != nil {
		return nil, fmt.Errorf("%w: supply: %v", ErrDecodeMismatch, err)
	}
	if m.Decimals, err = dec.ReadUint8(); err != nil {
		return nil, fmt.Errorf("%w: decimals: %v", ErrDecodeMismatch, err)
	}
	initialized, err := dec.ReadUint8()
	if err != nil {
		return nil, fmt.Errorf("%w: is_initialized: %v", ErrDecodeMismatch, err)
	}
	switch initialized {
	case 0:
		return nil, fmt.Errorf("%w: mint is not initialized", ErrDecodeMismatch)
	case 1:
		m.IsInitialized = true
	default:
		return nil, fmt.Errorf("%w: is_initialized byte %d", ErrDecodeMismatch, initialized)
	}
	if m.FreezeAuthority, err = readOptionalKey(dec, "freeze_authority"); err != nil {
		return nil, err
	}
	return &m, nil
}

func readOptionalKey(dec *bin.Decoder, field string) (*solana.PublicKey, error) {
	tag, err := dec.ReadUint32(binary.LittleEndian)
	if err != nil {
		return nil, fmt.Errorf("%w: %s tag: %v", ErrDecodeMismatch, field, err)
	}
	raw, err := dec.ReadNBytes(solana.PublicKeyLength)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrDecodeMismatch, field, err)
	}
	switch tag {
	case 0:
		return nil, nil
	case 1:
		key := solana.PublicKeyFromBytes(raw)
		return &key, nil
	default:
		return nil, fmt.Errorf("%w: %s tag %d", ErrDecodeMismatch, field, tag)
	}
}
