package certstore

import (
	"crypto/ecdsa"
	"crypto/x509"
	"time"

	"github.com/google/uuid"
)

// Record is the stored form of an application certificate.
// CBOR tags define the boltdb encoding; pgdb maps fields to table columns.
type Record struct {
	AppId     []byte `json:"1" cbor:"1,keyasint"` // 16 raw uuid bytes
	Subject   string `json:"2" cbor:"2,keyasint"`
	Container string `json:"3" cbor:"3,keyasint"`
	CertDER   []byte `json:"4" cbor:"4,keyasint"`
	KeyPKCS8  []byte `json:"5" cbor:"5,keyasint"` // sensitive, store protection is the deployment's duty
	CreatedAt int64  `json:"6" cbor:"6,keyasint"` // unix seconds
}

// NewRecord returns the stored form of cert.
func NewRecord(cert *ApplicationCertificate) (Record, error) {
	var rv Record

	x509cert, err := cert.Certificate()
	if nil != err {
		return rv, wrapError(err, "failed reading certificate")
	}
	signer, err := cert.Signer()
	if nil != err {
		return rv, wrapError(err, "failed reading signer")
	}
	keyDER, err := x509.MarshalPKCS8PrivateKey(signer)
	if nil != err {
		return rv, wrapFlagError(err, ErrCrypto, "failed marshaling private key")
	}

	appId := cert.AppId()
	rv = Record{
		AppId:     appId[:],
		Subject:   cert.Subject(),
		Container: cert.KeyContainerName(),
		CertDER:   x509cert.Raw,
		KeyPKCS8:  keyDER,
		CreatedAt: time.Now().Unix(),
	}
	return rv, nil
}

// Check returns an error if the Record is invalid.
func (self Record) Check() error {
	if len(self.AppId) != 16 {
		return newError("Invalid AppId, length != 16")
	}
	if "" == self.Subject {
		return newError("Empty Subject")
	}
	if "" == self.Container {
		return newError("Empty Container")
	}
	if 0 == len(self.CertDER) {
		return newError("Empty CertDER")
	}
	if 0 == len(self.KeyPKCS8) {
		return newError("Empty KeyPKCS8")
	}
	return nil
}

// UUID returns the Record application id.
func (self Record) UUID() (uuid.UUID, error) {
	rv, err := uuid.FromBytes(self.AppId)
	return rv, wrapError(err, "invalid AppId bytes") // nil if err is nil
}

// Certificate rebuilds the ApplicationCertificate owned by the Record.
// The caller owns the returned certificate and must Close it.
func (self Record) Certificate() (*ApplicationCertificate, error) {
	err := self.Check()
	if nil != err {
		return nil, wrapError(err, "invalid record")
	}
	appId, err := self.UUID()
	if nil != err {
		return nil, err
	}
	cert, err := x509.ParseCertificate(self.CertDER)
	if nil != err {
		return nil, wrapFlagError(err, ErrCrypto, "failed parsing stored certificate")
	}
	anykey, err := x509.ParsePKCS8PrivateKey(self.KeyPKCS8)
	if nil != err {
		return nil, wrapFlagError(err, ErrCrypto, "failed parsing stored private key")
	}
	key, ok := anykey.(*ecdsa.PrivateKey)
	if !ok {
		return nil, newFlagError(ErrCrypto, "stored key is not an ECDSA key, %T", anykey)
	}

	rv := &ApplicationCertificate{
		appId:     appId,
		container: self.Container,
		cert:      cert,
		key:       key,
	}
	return rv, nil
}
