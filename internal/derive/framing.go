package derive

import "encoding/binary"

// frameMagic domain-separates the derivation input from any other use of
// the same KDF primitive.
const frameMagic = "sitepass"

// frame serializes (secret, profile) into the canonical byte sequence fed to
// the KDF. Every variable-length field is length-prefixed, so the encoding
// is injective: any change to the secret, site label, counter or class set
// changes the framed bytes, and no two distinct inputs can collide by
// concatenation ambiguity.
//
// Layout (big-endian):
//
//	magic "sitepass" | version | u32 len(secret) | secret
//	| u32 len(site_label) | site_label | u32 counter | u8 class bitmask
//
// The returned slice contains the master secret; callers must wipe it after
// the KDF call.
func frame(secret []byte, p Profile, version uint8) []byte {
	label := []byte(p.SiteLabel)

	buf := make([]byte, 0, len(frameMagic)+1+4+len(secret)+4+len(label)+4+1)
	buf = append(buf, frameMagic...)
	buf = append(buf, version)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(secret)))
	buf = append(buf, secret...)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(label)))
	buf = append(buf, label...)
	buf = binary.BigEndian.AppendUint32(buf, p.Counter)
	buf = append(buf, byte(p.Classes))
	return buf
}
