package digest

import (
	"bytes"
	"crypto/hmac"
)

// Finalized is the immutable snapshot of a completed hash computation.
// Its XML form is <hash algName="SHA256">{base64 digest}</hash>.
type Finalized struct {
	algName string
	kind    string
	digest  []byte
}

// AlgName returns the name of the algorithm that produced the digest.
func (self Finalized) AlgName() string {
	return self.algName
}

// Bytes returns a copy of the raw digest bytes.
func (self Finalized) Bytes() []byte {
	rv := make([]byte, len(self.digest))
	copy(rv, self.digest)
	return rv
}

// Equal reports whether other holds the same algorithm & digest bytes.
// Digest comparison is constant time.
func (self Finalized) Equal(other Finalized) bool {
	return self.algName == other.algName && hmac.Equal(self.digest, other.digest)
}

// Xml returns the canonical XML fragment of the Finalized digest.
func (self Finalized) Xml() (string, error) {
	buf := bytes.Buffer{}
	digest := self.digest
	if nil == digest {
		digest = []byte{}
	}
	err := writeAlgXml(&buf, self.kindOrDefault(), self.algName, digest)
	if nil != err {
		return "", wrapError(err, "failed writing Finalized xml")
	}
	return buf.String(), nil
}

func (self Finalized) kindOrDefault() string {
	if "" == self.kind {
		return kindHash
	}
	return self.kind
}

// HmacFinalized is the immutable snapshot of a completed HMAC computation.
// Its XML form is <hmac algName="HMACSHA256">{base64 digest}</hmac>.
type HmacFinalized struct {
	Finalized
}
