package algos

import (
	"hash"
)

// Config carries the crypto algorithm selection injected into digest and
// credential constructors. Initialize it once at startup and treat it as
// read-only afterwards; the zero value selects the service defaults.
type Config struct {
	// DefaultHashName overrides the default keyless Hash algorithm.
	DefaultHashName string

	// DefaultHmacName overrides the default HMAC algorithm.
	DefaultHmacName string
}

// DefaultHashAlg returns the configured default Hash algorithm name.
func (self Config) DefaultHashAlg() string {
	if "" != self.DefaultHashName {
		return self.DefaultHashName
	}
	return HASH_SHA256
}

// DefaultHmacAlg returns the configured default HMAC algorithm name.
func (self Config) DefaultHmacAlg() string {
	if "" != self.DefaultHmacName {
		return self.DefaultHmacName
	}
	return HMAC_SHA256
}

// NewHash returns a Hash engine for name.
// It errors with ErrUnsupportedAlgo if name is not registered.
func (self Config) NewHash(name string) (hash.Hash, error) {
	algo, err := GetHash(name)
	if nil != err {
		return nil, err
	}
	return algo.New(), nil
}

// NewHmac returns a keyed HMAC engine for name.
func (self Config) NewHmac(name string, key []byte) (hash.Hash, error) {
	return NewHmac(name, key)
}

// HashSize returns the digest byte length of the name Hash algorithm.
func (self Config) HashSize(name string) (int, error) {
	algo, err := GetHash(name)
	if nil != err {
		return 0, err
	}
	return algo.Size(), nil
}

// HmacKeySize returns the required key byte length of the name HMAC algorithm.
func (self Config) HmacKeySize(name string) (int, error) {
	return HmacKeySize(name)
}

// Check verifies that the configured defaults resolve to registered algorithms.
func (self Config) Check() error {
	_, err := GetHash(self.DefaultHashAlg())
	if nil != err {
		return wrapError(err, "invalid default Hash algorithm")
	}
	_, err = GetHmacHash(self.DefaultHmacAlg())
	if nil != err {
		return wrapError(err, "invalid default HMAC algorithm")
	}
	return nil
}
