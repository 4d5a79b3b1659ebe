package derive

import "github.com/dmitrijs2005/sitepass/internal/shared"

// Password derives the site password for the given profile. It is the single
// entry point combining framing, key stretching and alphabet encoding, using
// the current algorithm version.
//
// The call is synchronous and CPU/memory-bound (one Argon2id invocation
// dominates). It performs no I/O and keeps no state; concurrent calls for
// different profiles are independent. Intermediate buffers holding secret
// material are wiped before returning. No partial password is ever returned:
// on any error the result string is empty.
func Password(secret []byte, p Profile, salt []byte) (string, error) {
	return password(secret, p, salt, ParamsV1)
}

func password(secret []byte, p Profile, salt []byte, params Params) (string, error) {
	if err := p.Validate(); err != nil {
		return "", err
	}

	framed := frame(secret, p, params.Version)
	defer shared.WipeByteArray(framed)

	key, err := deriveKey(framed, salt, params)
	if err != nil {
		return "", err
	}
	defer shared.WipeByteArray(key)

	return encode(key, p.Length, p.Classes)
}
