package certstore

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

// subject determinism: the subject is "CN=HVClientApp-" + dashed uuid.
func TestMakeCertSubject(t *testing.T) {
	appId := uuid.MustParse("0123cdef-4567-89ab-cdef-0123456789ab")
	want := "CN=HVClientApp-0123cdef-4567-89ab-cdef-0123456789ab"
	if MakeCertSubject(appId) != want {
		t.Errorf("failed subject control, got %s", MakeCertSubject(appId))
	}
	if MakeCertSubject(appId) != MakeCertSubject(appId) {
		t.Error("Oops, MakeCertSubject is not deterministic")
	}
	if MakeKeyContainerName(appId) != "SelfSignedCert0123cdef-4567-89ab-cdef-0123456789ab" {
		t.Errorf("failed container control, got %s", MakeKeyContainerName(appId))
	}
}

func TestGenerate(t *testing.T) {
	appId := uuid.New()
	cert, err := Generate(appId, CreateParams{})
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}
	defer cert.Close()

	x509cert, err := cert.Certificate()
	if nil != err {
		t.Fatalf("failed Certificate, got error %v", err)
	}
	if x509cert.Subject.CommonName != MakeCommonName(appId) {
		t.Errorf("failed common name control, got %s", x509cert.Subject.CommonName)
	}
	if x509cert.Issuer.CommonName != x509cert.Subject.CommonName {
		t.Error("Oops, certificate is not self signed")
	}

	// default validity window is 31 years
	years := x509cert.NotAfter.Sub(x509cert.NotBefore).Hours() / (365 * 24)
	if years < 30.9 || years > 31.1 {
		t.Errorf("failed validity control, got %.1f years", years)
	}

	signer, err := cert.Signer()
	if nil != err {
		t.Fatalf("failed Signer, got error %v", err)
	}
	if nil == signer.Public() {
		t.Error("Oops, signer has no public key")
	}
}

func TestGenerateCustomValidity(t *testing.T) {
	origin := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	cert, err := Generate(uuid.New(), CreateParams{
		Validity: 24 * time.Hour,
		Now:      func() time.Time { return origin },
	})
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}
	defer cert.Close()
	if !cert.NotAfter().Equal(origin.Add(24 * time.Hour)) {
		t.Errorf("failed validity control, got %s", cert.NotAfter())
	}
}

// idempotent disposal: repeated Close calls are safe.
func TestCloseIdempotent(t *testing.T) {
	cert, err := Generate(uuid.New(), CreateParams{})
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}

	cert.Close()
	cert.Close()
	cert.Close()

	_, err = cert.Signer()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Oops, Signer after Close got %v", err)
	}
	_, err = cert.Certificate()
	if !errors.Is(err, ErrClosed) {
		t.Errorf("Oops, Certificate after Close got %v", err)
	}
}

func TestRecordRoundtrip(t *testing.T) {
	appId := uuid.New()
	cert, err := Generate(appId, CreateParams{})
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}
	defer cert.Close()

	rec, err := NewRecord(cert)
	if nil != err {
		t.Fatalf("failed NewRecord, got error %v", err)
	}
	if err = rec.Check(); nil != err {
		t.Fatalf("failed Check, got error %v", err)
	}
	if rec.Subject != MakeCertSubject(appId) {
		t.Errorf("failed subject control, got %s", rec.Subject)
	}

	restored, err := rec.Certificate()
	if nil != err {
		t.Fatalf("failed Certificate, got error %v", err)
	}
	defer restored.Close()
	if restored.Subject() != cert.Subject() {
		t.Error("failed roundtrip subject control")
	}

	orig, _ := cert.Certificate()
	back, _ := restored.Certificate()
	if !orig.Equal(back) {
		t.Error("failed roundtrip certificate control")
	}
}

func TestRecordCheck(t *testing.T) {
	bad := Record{}
	if err := bad.Check(); nil == err {
		t.Error("Oops, Check accepted an empty Record")
	}
	_, err := bad.Certificate()
	if nil == err {
		t.Error("Oops, Certificate accepted an empty Record")
	}
}
