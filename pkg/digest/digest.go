// Package digest implements the streaming hash & HMAC primitive used to sign
// requests sent to the health-record service.
//
// A Digest accumulates input through repeated ComputeHash calls and is closed
// by Finalize, which returns an immutable Finalized snapshot. Once finalized a
// Digest refuses further input until Reset. The algorithm identity (and, for
// HMAC, the key material) serializes to the XML fragments the service expects.
//
// Digest instances are not safe for concurrent use; callers own the
// sequencing of one finalize cycle.
package digest

import (
	"hash"
	"io"

	"code.hvlink.org/golang/internal/algos"
)

// digest kinds select the XML element names.
const (
	kindHash = "hash"
	kindHmac = "hmac"
)

// Digest is an in-progress keyless hash computation.
type Digest struct {
	algName   string
	engine    hash.Hash
	kind      string
	finalized bool
}

// New returns a Digest computing the algName Hash algorithm.
// It errors with ErrUnsupportedAlgo if algName is not registered in cfg.
func New(cfg algos.Config, algName string) (*Digest, error) {
	if "" == algName {
		return nil, newFlagError(ErrUsage, "empty algorithm name")
	}
	engine, err := cfg.NewHash(algName)
	if nil != err {
		return nil, wrapFlagError(err, ErrUnsupportedAlgo, "failed creating Hash engine for %s", algName)
	}
	return &Digest{algName: algName, engine: engine, kind: kindHash}, nil
}

// NewDefault returns a Digest computing the cfg default Hash algorithm.
func NewDefault(cfg algos.Config) (*Digest, error) {
	return New(cfg, cfg.DefaultHashAlg())
}

// AlgName returns the name of the algorithm being computed.
func (self *Digest) AlgName() string {
	return self.algName
}

// IsFinalized reports whether Finalize was called since construction or the
// last Reset.
func (self *Digest) IsFinalized() bool {
	return self.finalized
}

// ComputeHash accumulates data into the running digest.
// It errors with ErrState if the Digest is finalized.
func (self *Digest) ComputeHash(data []byte) error {
	if nil == data {
		return newFlagError(ErrUsage, "nil data")
	}
	return self.computeHash(data)
}

// ComputeHashRange accumulates count bytes of data starting at offset.
func (self *Digest) ComputeHashRange(data []byte, offset, count int) error {
	if nil == data {
		return newFlagError(ErrUsage, "nil data")
	}
	if offset < 0 || count < 0 || offset+count > len(data) {
		return newFlagError(ErrUsage, "range [%d, %d+%d) outside data", offset, offset, count)
	}
	return self.computeHash(data[offset : offset+count])
}

// ComputeHashString UTF-8 encodes s and accumulates it into the running digest.
// It errors with ErrUsage if s is empty.
func (self *Digest) ComputeHashString(s string) error {
	if "" == s {
		return newFlagError(ErrUsage, "empty string data")
	}
	return self.computeHash([]byte(s))
}

func (self *Digest) computeHash(data []byte) error {
	if self.finalized {
		return newFlagError(ErrState, "Digest is finalized, call Reset to reuse it")
	}
	if nil == self.engine {
		return newFlagError(ErrState, "Digest has no engine, re-key required")
	}
	_, err := self.engine.Write(data)
	return wrapError(err, "failed engine Write") // nil if err is nil
}

// Finalize closes the current computation cycle and returns its Finalized
// snapshot. It errors with ErrState if the Digest is already finalized.
func (self *Digest) Finalize() (Finalized, error) {
	if self.finalized {
		return Finalized{}, newFlagError(ErrState, "Digest is already finalized")
	}
	if nil == self.engine {
		return Finalized{}, newFlagError(ErrState, "Digest has no engine, re-key required")
	}
	self.finalized = true
	return Finalized{algName: self.algName, kind: self.kind, digest: self.engine.Sum(nil)}, nil
}

// Reset clears the finalized state and reinitializes the engine, allowing the
// Digest to run a new computation cycle. It is permitted at any time.
func (self *Digest) Reset() {
	if nil != self.engine {
		self.engine.Reset()
	}
	self.finalized = false
}

// WriteInfoXml emits the algorithm identity XML fragment consumed by the
// service, eg <hash-alg algName="SHA256"/>.
// It errors with ErrUsage if w is nil.
func (self *Digest) WriteInfoXml(w io.Writer) error {
	if nil == w {
		return newFlagError(ErrUsage, "nil writer")
	}
	return writeAlgXml(w, self.kind+"-alg", self.algName, nil)
}
