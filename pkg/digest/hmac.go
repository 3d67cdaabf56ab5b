package digest

import (
	"io"

	"code.hvlink.org/golang/internal/algos"
)

// Hmac is a Digest specialization computing a keyed HMAC.
//
// The key material is the session shared secret; its XML serialization embeds
// the key Base64 encoded and must only travel over a secured channel.
type Hmac struct {
	Digest
	cfg algos.Config
	key []byte
}

// NewHmac returns an Hmac computing the algName HMAC algorithm keyed with key.
// It errors with ErrUnsupportedAlgo if algName is not registered in cfg and
// with ErrUsage if key length differs from the algorithm key size.
func NewHmac(cfg algos.Config, algName string, key []byte) (*Hmac, error) {
	if "" == algName {
		return nil, newFlagError(ErrUsage, "empty algorithm name")
	}
	rv := &Hmac{cfg: cfg}
	rv.algName = algName
	rv.kind = kindHmac
	err := rv.SetKeyMaterial(key)
	if nil != err {
		return nil, err
	}
	return rv, nil
}

// NewDefaultHmac returns an Hmac computing the cfg default HMAC algorithm.
func NewDefaultHmac(cfg algos.Config, key []byte) (*Hmac, error) {
	return NewHmac(cfg, cfg.DefaultHmacAlg(), key)
}

// GenerateHmac returns an Hmac keyed with fresh random key material of the
// algorithm key size, read from rand.
func GenerateHmac(cfg algos.Config, algName string, rand io.Reader) (*Hmac, error) {
	ksz, err := cfg.HmacKeySize(algName)
	if nil != err {
		return nil, wrapFlagError(err, ErrUnsupportedAlgo, "failed resolving key size for %s", algName)
	}
	key := make([]byte, ksz)
	_, err = io.ReadFull(rand, key)
	if nil != err {
		return nil, wrapError(err, "failed reading key material")
	}
	return NewHmac(cfg, algName, key)
}

// KeyMaterial returns a copy of the current key material.
func (self *Hmac) KeyMaterial() []byte {
	rv := make([]byte, len(self.key))
	copy(rv, self.key)
	return rv
}

// SetKeyMaterial re-keys the HMAC engine immediately and clears any finalized
// state. It errors with ErrUsage if key length differs from the algorithm key
// size.
func (self *Hmac) SetKeyMaterial(key []byte) error {
	ksz, err := self.cfg.HmacKeySize(self.algName)
	if nil != err {
		return wrapFlagError(err, ErrUnsupportedAlgo, "failed resolving key size for %s", self.algName)
	}
	if len(key) != ksz {
		return newFlagError(ErrUsage, "invalid key length, %d != %d", len(key), ksz)
	}
	engine, err := self.cfg.NewHmac(self.algName, key)
	if nil != err {
		return wrapError(err, "failed creating HMAC engine for %s", self.algName)
	}
	self.zeroKey()
	self.key = make([]byte, len(key))
	copy(self.key, key)
	self.engine = engine
	self.finalized = false
	return nil
}

// Finalize closes the current computation cycle and returns its HmacFinalized
// snapshot. It errors with ErrState if the Hmac is already finalized.
func (self *Hmac) Finalize() (HmacFinalized, error) {
	fin, err := self.Digest.Finalize()
	if nil != err {
		return HmacFinalized{}, err
	}
	return HmacFinalized{Finalized: fin}, nil
}

// WriteInfoXml emits the HMAC identity XML fragment consumed by the service,
// eg <hmac-alg algName="HMACSHA256">{base64 key material}</hmac-alg>.
//
// The fragment carries the shared secret; transmit it only over a secured
// channel. It errors with ErrUsage if w is nil.
func (self *Hmac) WriteInfoXml(w io.Writer) error {
	if nil == w {
		return newFlagError(ErrUsage, "nil writer")
	}
	key := self.key
	if nil == key {
		key = []byte{}
	}
	return writeAlgXml(w, self.kind+"-alg", self.algName, key)
}

// Zero wipes the retained key material. The Hmac is unusable afterwards and
// must be re-keyed through SetKeyMaterial.
func (self *Hmac) Zero() {
	self.zeroKey()
	self.engine = nil
	self.finalized = false
}

func (self *Hmac) zeroKey() {
	for pos := range self.key {
		self.key[pos] = 0
	}
	self.key = nil
}
