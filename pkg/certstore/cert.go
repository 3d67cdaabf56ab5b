// Package certstore manages the self-signed X.509 certificates that
// applications use to sign their initial authentication exchange with the
// health-record service.
//
// Each application id owns at most one active certificate per store. The
// certificate subject is derived deterministically from the application id,
// which makes it the lookup key recognized by the service. Backends live in
// the boltdb (user scoped, single file) and pgdb (machine/shared scoped,
// postgres) sub-packages.
package certstore

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"io"
	"math/big"
	"time"

	"github.com/google/uuid"
)

const (
	// subjectPrefix is a wire compatibility contract: the service locates an
	// application certificate through its "CN=HVClientApp-{appId}" subject.
	subjectPrefix = "HVClientApp-"

	// containerPrefix names the key container holding the signing key pair.
	containerPrefix = "SelfSignedCert"

	// DefaultValidityYears is the validity window of generated certificates.
	// Existing stored certificates were issued with this constant; changing it
	// only affects new generations.
	DefaultValidityYears = 31
)

// MakeCertSubject returns the deterministic certificate subject for appId.
func MakeCertSubject(appId uuid.UUID) string {
	return "CN=" + MakeCommonName(appId)
}

// MakeCommonName returns the subject common name for appId.
func MakeCommonName(appId uuid.UUID) string {
	return subjectPrefix + appId.String()
}

// MakeKeyContainerName returns the name of the key container holding the
// appId signing key pair.
func MakeKeyContainerName(appId uuid.UUID) string {
	return containerPrefix + appId.String()
}

// CreateParams tunes certificate generation. The zero value selects the
// service defaults.
type CreateParams struct {
	// Validity overrides the DefaultValidityYears window.
	Validity time.Duration

	// Rand overrides crypto/rand.Reader as entropy source.
	Rand io.Reader

	// Now overrides the validity window origin, for tests.
	Now func() time.Time
}

func (self CreateParams) validity() time.Duration {
	if self.Validity > 0 {
		return self.Validity
	}
	return time.Duration(DefaultValidityYears) * 365 * 24 * time.Hour
}

func (self CreateParams) rand() io.Reader {
	if nil != self.Rand {
		return self.Rand
	}
	return rand.Reader
}

func (self CreateParams) now() time.Time {
	if nil != self.Now {
		return self.Now()
	}
	return time.Now()
}

// ApplicationCertificate owns the self-signed certificate & signing key pair
// of one application id.
//
// Close releases the key material deterministically; do not rely on garbage
// collection to wipe signing keys.
type ApplicationCertificate struct {
	appId     uuid.UUID
	container string
	cert      *x509.Certificate
	key       *ecdsa.PrivateKey
	closed    bool
}

// Generate creates a fresh ECDSA P-256 key pair and a self-signed certificate
// bound to appId, valid from now for the params validity window.
// Failures are flagged ErrCrypto and leave nothing allocated in any store.
func Generate(appId uuid.UUID, params CreateParams) (*ApplicationCertificate, error) {
	key, err := ecdsa.GenerateKey(elliptic.P256(), params.rand())
	if nil != err {
		return nil, wrapFlagError(err, ErrCrypto, "failed generating key pair for %s", appId)
	}

	serial, err := rand.Int(params.rand(), new(big.Int).Lsh(big.NewInt(1), 128))
	if nil != err {
		zeroPrivateKey(key)
		return nil, wrapFlagError(err, ErrCrypto, "failed generating certificate serial")
	}

	notBefore := params.now()
	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: MakeCommonName(appId)},
		NotBefore:             notBefore,
		NotAfter:              notBefore.Add(params.validity()),
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageCertSign,
		BasicConstraintsValid: true,
	}
	der, err := x509.CreateCertificate(params.rand(), &template, &template, &key.PublicKey, key)
	if nil != err {
		zeroPrivateKey(key)
		return nil, wrapFlagError(err, ErrCrypto, "failed self signing certificate for %s", appId)
	}
	cert, err := x509.ParseCertificate(der)
	if nil != err {
		zeroPrivateKey(key)
		return nil, wrapFlagError(err, ErrCrypto, "failed parsing generated certificate")
	}

	rv := &ApplicationCertificate{
		appId:     appId,
		container: MakeKeyContainerName(appId),
		cert:      cert,
		key:       key,
	}
	return rv, nil
}

// AppId returns the application id the certificate is bound to.
func (self *ApplicationCertificate) AppId() uuid.UUID {
	return self.appId
}

// Subject returns the certificate subject, "CN=HVClientApp-{appId}".
func (self *ApplicationCertificate) Subject() string {
	return MakeCertSubject(self.appId)
}

// KeyContainerName returns the name of the key container holding the key pair.
func (self *ApplicationCertificate) KeyContainerName() string {
	return self.container
}

// Certificate returns the X.509 certificate.
// It errors with ErrClosed after Close.
func (self *ApplicationCertificate) Certificate() (*x509.Certificate, error) {
	if self.closed {
		return nil, newFlagError(ErrClosed, "certificate %s is closed", self.appId)
	}
	return self.cert, nil
}

// Signer returns the private key as a crypto.Signer.
// It errors with ErrClosed after Close.
func (self *ApplicationCertificate) Signer() (crypto.Signer, error) {
	if self.closed {
		return nil, newFlagError(ErrClosed, "certificate %s is closed", self.appId)
	}
	return self.key, nil
}

// NotAfter returns the end of the certificate validity window.
func (self *ApplicationCertificate) NotAfter() time.Time {
	if nil == self.cert {
		return time.Time{}
	}
	return self.cert.NotAfter
}

// Close releases the certificate & wipes the private key scalar.
// Calling Close multiple times is safe.
func (self *ApplicationCertificate) Close() {
	if self.closed {
		return
	}
	self.closed = true
	zeroPrivateKey(self.key)
	self.key = nil
	self.cert = nil
}

// zeroPrivateKey wipes the words backing the private scalar.
func zeroPrivateKey(key *ecdsa.PrivateKey) {
	if nil == key || nil == key.D {
		return
	}
	bits := key.D.Bits()
	for pos := range bits {
		bits[pos] = 0
	}
}
