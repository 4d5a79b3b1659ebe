package derive

import (
	"fmt"

	"github.com/dmitrijs2005/sitepass/internal/common"
	"golang.org/x/crypto/argon2"
)

// Params is a versioned Argon2id cost parameter set. The constants are part
// of the algorithm: changing any of them changes every derived password, so
// a change requires a new Version and old profiles must keep being derived
// with their original parameter set.
type Params struct {
	Version     uint8
	Time        uint32
	Memory      uint32 // KiB
	Parallelism uint8
	KeyLen      uint32
}

// ParamsV1 is algorithm version 1. Time/memory/parallelism match the vault's
// established master-key costs; KeyLen is provisioned for the encoder's worst
// case (length 64 over the full 92-character alphabet, including class
// repair) with a wide margin, so a single KDF call always suffices.
var ParamsV1 = Params{
	Version:     1,
	Time:        1,
	Memory:      64 * 1024,
	Parallelism: 4,
	KeyLen:      512,
}

// validate rejects parameter sets the Argon2 primitive would refuse (it
// panics instead of returning errors, so the check must happen here).
func (p Params) validate() error {
	if p.Time < 1 {
		return fmt.Errorf("%w: time cost must be at least 1", common.ErrKDFParams)
	}
	if p.Parallelism < 1 {
		return fmt.Errorf("%w: parallelism must be at least 1", common.ErrKDFParams)
	}
	if p.Memory < 8*uint32(p.Parallelism) {
		return fmt.Errorf("%w: memory cost %d KiB below minimum for parallelism %d",
			common.ErrKDFParams, p.Memory, p.Parallelism)
	}
	if p.KeyLen < 4 {
		return fmt.Errorf("%w: output length %d too small", common.ErrKDFParams, p.KeyLen)
	}
	return nil
}

// deriveKey stretches the framed input into p.KeyLen pseudorandom bytes.
// Pure CPU/memory work, no I/O. The caller must wipe the returned buffer.
func deriveKey(framed, salt []byte, p Params) ([]byte, error) {
	if err := p.validate(); err != nil {
		return nil, err
	}
	return argon2.IDKey(framed, salt, p.Time, p.Memory, p.Parallelism, p.KeyLen), nil
}
