package algos

import (
	"crypto"
	"crypto/hmac"
	"hash"
	"strings"
)

// HMAC algorithm names mirror the Hash names with an HMAC prefix.
// These are the identifiers the remote service expects in authentication XML.
const (
	HMAC_SHA1   = "HMACSHA1"
	HMAC_SHA256 = "HMACSHA256"
	HMAC_SHA384 = "HMACSHA384"
	HMAC_SHA512 = "HMACSHA512"
)

const hmacPrefix = "HMAC"

// HmacAlgOf returns the HMAC algorithm name paired with hashName.
func HmacAlgOf(hashName string) string {
	return hmacPrefix + hashName
}

// HashAlgOfHmac returns the Hash algorithm name underlying hmacName.
// It errors if hmacName does not carry the HMAC prefix.
func HashAlgOfHmac(hmacName string) (string, error) {
	if !strings.HasPrefix(hmacName, hmacPrefix) {
		return "", newError("invalid HMAC algorithm name, %s", hmacName)
	}
	return strings.TrimPrefix(hmacName, hmacPrefix), nil
}

// GetHmacHash resolves hmacName to the underlying registered Hash.
func GetHmacHash(hmacName string) (crypto.Hash, error) {
	hashName, err := HashAlgOfHmac(hmacName)
	if nil != err {
		return 0, err
	}
	return GetHash(hashName)
}

// NewHmac returns a keyed HMAC engine for hmacName.
// It errors if the underlying Hash is not registered or key length differs
// from HmacKeySize(hmacName).
func NewHmac(hmacName string, key []byte) (hash.Hash, error) {
	algo, err := GetHmacHash(hmacName)
	if nil != err {
		return nil, wrapError(err, "failed resolving HMAC algorithm %s", hmacName)
	}
	if len(key) != algo.Size() {
		return nil, newError("invalid key length for %s, %d != %d", hmacName, len(key), algo.Size())
	}
	return hmac.New(algo.New, key), nil
}

// HmacKeySize returns the required key byte length for hmacName.
// Key material length matches the underlying Hash output size.
func HmacKeySize(hmacName string) (int, error) {
	algo, err := GetHmacHash(hmacName)
	if nil != err {
		return 0, err
	}
	return algo.Size(), nil
}
