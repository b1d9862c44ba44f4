package storage

import (
	"fmt"

	"github.com/fxamacker/cbor/v2"
	"github.com/solavote/solavote-node/types"
)

var encMode = func() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	em, err := opts.EncMode()
	if err != nil {
		panic(fmt.Sprintf("invalid cbor encoding options: %v", err))
	}
	return em
}()

// Artifact encoding/decoding
func encodeArtifact(a any) ([]byte, error) {
	data, err := encMode.Marshal(a)
	if err != nil {
		return nil, fmt.Errorf("encode artifact: %w", err)
	}
	return data, nil
}

func decodeArtifact(data []byte, out any) error {
	return cbor.Unmarshal(data, out)
}

// voterKey is the key of every per-voter artifact: election ID + identity.
func voterKey(electionID types.ElectionID, voter types.Identity) []byte {
	key := make([]byte, 0, types.HashLen+types.IdentityLen)
	key = append(key, electionID[:]...)
	return append(key, voter[:]...)
}
