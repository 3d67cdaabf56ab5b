package credentials

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"code.hvlink.org/golang/internal/algos"
	"code.hvlink.org/golang/pkg/certstore"
)

func newEstablishedCredential(t *testing.T) *SharedSecret {
	t.Helper()

	appId := uuid.New()
	cert, err := certstore.Generate(appId, certstore.CreateParams{})
	if nil != err {
		t.Fatalf("failed Generate, got error %v", err)
	}
	t.Cleanup(cert.Close)

	cred := NewSharedSecret(algos.Config{}, appId)
	err = cred.EstablishSecret(cert, []byte("service challenge"))
	if nil != err {
		t.Fatalf("failed EstablishSecret, got error %v", err)
	}
	return cred
}

func TestEstablishSecret(t *testing.T) {
	cred := newEstablishedCredential(t)
	if nil == cred.SharedSecret() {
		t.Fatal("Oops, no shared secret after EstablishSecret")
	}
	if len(cred.SharedSecret().KeyMaterial()) != 32 {
		t.Errorf("failed key size control, got %d", len(cred.SharedSecret().KeyMaterial()))
	}
}

func TestWriteInfoXmlRequiresSecret(t *testing.T) {
	cred := NewSharedSecret(algos.Config{}, uuid.New())
	buf := bytes.Buffer{}
	err := cred.WriteInfoXml(&buf)
	if !errors.Is(err, ErrNoSecret) {
		t.Errorf("Oops, expected ErrNoSecret, got %v", err)
	}
}

func TestWriteInfoXmlShape(t *testing.T) {
	cred := newEstablishedCredential(t)

	buf := bytes.Buffer{}
	err := cred.WriteInfoXml(&buf)
	if nil != err {
		t.Fatalf("failed WriteInfoXml, got error %v", err)
	}
	frag := buf.String()
	if !strings.HasPrefix(frag, `<passport><shared-secret><hmac-alg algName="HMACSHA256">`) {
		t.Errorf("failed block prefix control, got %s", frag)
	}
	if !strings.HasSuffix(frag, `</hmac-alg></shared-secret></passport>`) {
		t.Errorf("failed block suffix control, got %s", frag)
	}

	// byte identical across calls
	again := bytes.Buffer{}
	_ = cred.WriteInfoXml(&again)
	if frag != again.String() {
		t.Error("failed determinism control, blocks differ")
	}
}

// A credential must not sign until its status is Success.
func TestSignRequestGating(t *testing.T) {
	ctx := context.Background()
	cred := newEstablishedCredential(t)
	body := []byte("<request>payload</request>")

	_, _, err := SignRequest(cred, body)
	if !errors.Is(err, ErrNotSignable) {
		t.Errorf("Oops, Unknown status credential signed, got %v", err)
	}

	err = UpdateAuthenticationResults(ctx, cred, TokenCreationResult{Status: StatusPersonAppAcceptanceRequired})
	if nil != err {
		t.Fatalf("failed UpdateAuthenticationResults, got error %v", err)
	}
	_, _, err = SignRequest(cred, body)
	if !errors.Is(err, ErrNotSignable) {
		t.Errorf("Oops, PersonAppAcceptanceRequired credential signed, got %v", err)
	}

	err = UpdateAuthenticationResults(ctx, cred, TokenCreationResult{Status: StatusSuccess, Token: "token"})
	if nil != err {
		t.Fatalf("failed UpdateAuthenticationResults, got error %v", err)
	}
	fin, block, err := SignRequest(cred, body)
	if nil != err {
		t.Fatalf("failed SignRequest, got error %v", err)
	}

	control := hmac.New(sha256.New, cred.SharedSecret().KeyMaterial())
	control.Write(body)
	if !bytes.Equal(fin.Bytes(), control.Sum(nil)) {
		t.Errorf("failed digest control, got %x", fin.Bytes())
	}
	if !strings.HasPrefix(block, "<passport>") {
		t.Errorf("failed block control, got %s", block)
	}
}

func TestSignRequestRepeatable(t *testing.T) {
	ctx := context.Background()
	cred := newEstablishedCredential(t)
	err := UpdateAuthenticationResults(ctx, cred, TokenCreationResult{Status: StatusSuccess})
	if nil != err {
		t.Fatalf("failed UpdateAuthenticationResults, got error %v", err)
	}

	body := []byte("same body")
	fin1, _, err := SignRequest(cred, body)
	if nil != err {
		t.Fatalf("failed SignRequest #1, got error %v", err)
	}
	fin2, _, err := SignRequest(cred, body)
	if nil != err {
		t.Fatalf("failed SignRequest #2, got error %v", err)
	}
	if !fin1.Equal(fin2.Finalized) {
		t.Error("failed repeatability control, digests differ")
	}
}

func TestNewFederatedTicket(t *testing.T) {
	ctx := context.Background()
	appId := uuid.New()
	jwtKey := []byte("0123456789abcdef0123456789abcdef")

	rawTicket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": "person-1",
		"exp": time.Now().Add(time.Hour).Unix(),
	}).SignedString(jwtKey)
	if nil != err {
		t.Fatalf("failed signing test ticket, got error %v", err)
	}
	keyfunc := func(token *jwt.Token) (any, error) { return jwtKey, nil }

	var exchangedTicket string
	exchanger := TicketExchangerFunc(func(ctx context.Context, id uuid.UUID, ticket string) ([]byte, error) {
		exchangedTicket = ticket
		return bytes.Repeat([]byte{0x5A}, 32), nil
	})

	cred, err := NewFederatedTicket(ctx, algos.Config{}, appId, rawTicket, keyfunc, exchanger)
	if nil != err {
		t.Fatalf("failed NewFederatedTicket, got error %v", err)
	}
	if exchangedTicket != rawTicket {
		t.Error("Oops, exchanger did not receive the raw ticket")
	}

	// Success is pre-populated once a local secret is established
	if !cred.State().CanSign() {
		t.Error("Oops, federated credential can not sign after creation")
	}

	buf := bytes.Buffer{}
	err = cred.WriteInfoXml(&buf)
	if nil != err {
		t.Fatalf("failed WriteInfoXml, got error %v", err)
	}
	if !strings.HasPrefix(buf.String(), "<ticket><shared-secret>") {
		t.Errorf("failed block control, got %s", buf.String())
	}
}

func TestNewFederatedTicketRejectsExpired(t *testing.T) {
	ctx := context.Background()
	jwtKey := []byte("0123456789abcdef0123456789abcdef")

	rawTicket, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"exp": time.Now().Add(-time.Hour).Unix(),
	}).SignedString(jwtKey)
	if nil != err {
		t.Fatalf("failed signing test ticket, got error %v", err)
	}
	keyfunc := func(token *jwt.Token) (any, error) { return jwtKey, nil }
	exchanger := TicketExchangerFunc(func(ctx context.Context, id uuid.UUID, ticket string) ([]byte, error) {
		t.Fatal("Oops, exchanger called for an expired ticket")
		return nil, nil
	})

	_, err = NewFederatedTicket(ctx, algos.Config{}, uuid.New(), rawTicket, keyfunc, exchanger)
	if !errors.Is(err, ErrTicket) {
		t.Errorf("Oops, expected ErrTicket, got %v", err)
	}
}

func TestCredentialZero(t *testing.T) {
	cred := newEstablishedCredential(t)
	cred.Zero()
	if nil != cred.SharedSecret() {
		t.Error("Oops, shared secret survived Zero")
	}
	buf := bytes.Buffer{}
	err := cred.WriteInfoXml(&buf)
	if !errors.Is(err, ErrNoSecret) {
		t.Errorf("Oops, expected ErrNoSecret after Zero, got %v", err)
	}
}
