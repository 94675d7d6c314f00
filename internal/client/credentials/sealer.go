package credentials

import (
	"github.com/dmitrijs2005/trackinventory/internal/common"
	"github.com/dmitrijs2005/trackinventory/internal/cryptox"
)

const deviceSecretSize = 32

// sealer encrypts values with a key derived from the device secret and a
// per-store salt.
type sealer struct {
	key []byte
}

func newSealer(secret, salt []byte) *sealer {
	return &sealer{key: cryptox.DeriveKey(secret, salt)}
}

func (s *sealer) seal(value string) (ciphertext, nonce []byte, err error) {
	return cryptox.Seal([]byte(value), s.key)
}

func (s *sealer) open(ciphertext, nonce []byte) (string, error) {
	pt, err := cryptox.Open(ciphertext, nonce, s.key)
	if err != nil {
		return "", err
	}
	v := string(pt)
	common.WipeByteArray(pt)
	return v, nil
}

func (s *sealer) wipe() {
	common.WipeByteArray(s.key)
}
