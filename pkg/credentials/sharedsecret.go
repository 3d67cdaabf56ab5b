package credentials

import (
	"crypto"
	"crypto/rand"
	"crypto/sha256"
	"io"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"

	"code.hvlink.org/golang/internal/algos"
	"code.hvlink.org/golang/pkg/certstore"
	"code.hvlink.org/golang/pkg/digest"
)

// hkdf info prefix, domain separation for session key derivation.
const sessionKeyInfo = "hvlink session shared secret:"

// SharedSecret is the password/shared-secret Credential variant.
//
// Its XML block is <passport><shared-secret>{hmac-alg xml}</shared-secret></passport>.
type SharedSecret struct {
	appId  uuid.UUID
	cfg    algos.Config
	secret *digest.Hmac
	state  AuthenticationState
}

// NewSharedSecret returns a SharedSecret credential for appId.
// The credential can not sign until a secret is established through
// EstablishSecret (or restored through RestoreSecret) and a Success result is
// applied.
func NewSharedSecret(cfg algos.Config, appId uuid.UUID) *SharedSecret {
	return &SharedSecret{appId: appId, cfg: cfg}
}

// AppId implements Credential.
func (self *SharedSecret) AppId() uuid.UUID {
	return self.appId
}

// SharedSecret implements Credential.
func (self *SharedSecret) SharedSecret() *digest.Hmac {
	return self.secret
}

// State implements Credential.
func (self *SharedSecret) State() *AuthenticationState {
	return &self.state
}

// EstablishSecret derives the session shared secret from a service challenge:
// the challenge is signed with the application certificate, and the session
// HMAC key is derived from the signature through HKDF.
//
// The service holds the certificate public key and performs the matching
// verification & derivation on its side.
func (self *SharedSecret) EstablishSecret(cert *certstore.ApplicationCertificate, challenge []byte) error {
	if nil == cert {
		return newError("nil certificate")
	}
	if 0 == len(challenge) {
		return newError("empty challenge")
	}

	signer, err := cert.Signer()
	if nil != err {
		return wrapError(err, "failed accessing signing key")
	}
	hashed := sha256.Sum256(challenge)
	signature, err := signer.Sign(rand.Reader, hashed[:], crypto.SHA256)
	if nil != err {
		return wrapError(err, "failed signing challenge")
	}

	secret, err := deriveSessionSecret(self.cfg, self.appId, signature, challenge)
	if nil != err {
		return err
	}

	self.setSecret(secret)
	return nil
}

// RestoreSecret installs key material previously issued by the service, eg
// when resuming a persisted session.
func (self *SharedSecret) RestoreSecret(key []byte) error {
	secret, err := digest.NewDefaultHmac(self.cfg, key)
	if nil != err {
		return wrapError(err, "failed restoring shared secret")
	}
	self.setSecret(secret)
	return nil
}

func (self *SharedSecret) setSecret(secret *digest.Hmac) {
	if nil != self.secret {
		self.secret.Zero()
	}
	self.secret = secret
}

// WriteInfoXml implements Credential.
func (self *SharedSecret) WriteInfoXml(w io.Writer) error {
	return writeSecretXml(w, "passport", self.secret)
}

// Zero wipes the shared secret key material.
func (self *SharedSecret) Zero() {
	if nil != self.secret {
		self.secret.Zero()
		self.secret = nil
	}
}

// isCredential seals SharedSecret as a variant of [Credential].
func (self *SharedSecret) isCredential() {}

var _ Credential = &SharedSecret{}

// deriveSessionSecret derives HMAC key material for appId via HKDF, using ikm
// as secret & salt as derivation salt.
func deriveSessionSecret(cfg algos.Config, appId uuid.UUID, ikm, salt []byte) (*digest.Hmac, error) {
	hmacName := cfg.DefaultHmacAlg()
	ksz, err := cfg.HmacKeySize(hmacName)
	if nil != err {
		return nil, wrapError(err, "failed resolving key size for %s", hmacName)
	}

	info := append([]byte(sessionKeyInfo), appId[:]...)
	rdr := hkdf.New(sha256.New, ikm, salt, info)
	key := make([]byte, ksz)
	_, err = io.ReadFull(rdr, key)
	if nil != err {
		return nil, wrapError(err, "failed HKDF key reading")
	}

	return digest.NewHmac(cfg, hmacName, key)
}
