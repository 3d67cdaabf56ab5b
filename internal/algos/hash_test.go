package algos

import (
	"crypto"
	"errors"
	"testing"
)

func TestGetHash(t *testing.T) {
	for _, name := range []string{HASH_SHA256, HASH_SHA512, HASH_BLAKE2B} {
		algo, err := GetHash(name)
		if nil != err {
			t.Errorf("failed GetHash(%s), got error %v", name, err)
		}
		if !algo.Available() {
			t.Errorf("Oops, Hash %s has no implementation", name)
		}
	}
}

func TestGetHashUnknown(t *testing.T) {
	_, err := GetHash("MD5")
	if !errors.Is(err, ErrUnsupportedAlgo) {
		t.Errorf("Oops, expected ErrUnsupportedAlgo, got %v", err)
	}
}

func TestHmacNames(t *testing.T) {
	if HmacAlgOf(HASH_SHA256) != HMAC_SHA256 {
		t.Errorf("failed HmacAlgOf, got %s", HmacAlgOf(HASH_SHA256))
	}
	hashName, err := HashAlgOfHmac(HMAC_SHA512)
	if nil != err {
		t.Fatalf("failed HashAlgOfHmac, got error %v", err)
	}
	if hashName != HASH_SHA512 {
		t.Errorf("failed HashAlgOfHmac, got %s", hashName)
	}
	_, err = HashAlgOfHmac("SHA256")
	if nil == err {
		t.Error("Oops, HashAlgOfHmac accepted a name without HMAC prefix")
	}
}

func TestNewHmacKeySize(t *testing.T) {
	ksz, err := HmacKeySize(HMAC_SHA256)
	if nil != err {
		t.Fatalf("failed HmacKeySize, got error %v", err)
	}
	if ksz != crypto.SHA256.Size() {
		t.Errorf("failed HmacKeySize control, %d != %d", ksz, crypto.SHA256.Size())
	}

	_, err = NewHmac(HMAC_SHA256, make([]byte, ksz-1))
	if nil == err {
		t.Error("Oops, NewHmac accepted a short key")
	}
	_, err = NewHmac(HMAC_SHA256, make([]byte, ksz))
	if nil != err {
		t.Errorf("failed NewHmac, got error %v", err)
	}
}

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	if cfg.DefaultHashAlg() != HASH_SHA256 {
		t.Errorf("failed DefaultHashAlg, got %s", cfg.DefaultHashAlg())
	}
	if cfg.DefaultHmacAlg() != HMAC_SHA256 {
		t.Errorf("failed DefaultHmacAlg, got %s", cfg.DefaultHmacAlg())
	}
	if err := cfg.Check(); nil != err {
		t.Errorf("failed Check, got error %v", err)
	}

	cfg = Config{DefaultHashName: "MD4", DefaultHmacName: "HMACMD4"}
	if err := cfg.Check(); nil == err {
		t.Error("Oops, Check accepted unregistered defaults")
	}
}
