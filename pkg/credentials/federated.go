package credentials

import (
	"context"
	"io"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"code.hvlink.org/golang/internal/algos"
	"code.hvlink.org/golang/pkg/digest"
)

// TicketExchanger exchanges a validated identity-provider ticket for a
// session shared secret. Implemented by the transport layer; this package
// only prepares & consumes the authentication payloads.
type TicketExchanger interface {
	ExchangeTicket(ctx context.Context, appId uuid.UUID, ticket string) (keyMaterial []byte, err error)
}

// TicketExchangerFunc is an adapter type to allow using ordinary functions as TicketExchanger.
type TicketExchangerFunc func(ctx context.Context, appId uuid.UUID, ticket string) ([]byte, error)

func (self TicketExchangerFunc) ExchangeTicket(ctx context.Context, appId uuid.UUID, ticket string) ([]byte, error) {
	return self(ctx, appId, ticket)
}

// FederatedTicket is the Credential variant backed by an external identity
// provider ticket (a signed JWT), exchanged for a session shared secret.
//
// Its XML block is <ticket><shared-secret>{hmac-alg xml}</shared-secret></ticket>.
type FederatedTicket struct {
	appId  uuid.UUID
	cfg    algos.Config
	ticket string
	secret *digest.Hmac
	state  AuthenticationState
}

// NewFederatedTicket validates rawTicket with keyfunc, exchanges it for a
// session shared secret through exchanger, and returns the credential with a
// StatusSuccess result pre-populated: establishing a local secret makes the
// credential signable, the server-confirmed status only becomes authoritative
// after the first round trip to the service.
func NewFederatedTicket(
	ctx context.Context,
	cfg algos.Config,
	appId uuid.UUID,
	rawTicket string,
	keyfunc jwt.Keyfunc,
	exchanger TicketExchanger,
) (*FederatedTicket, error) {
	if "" == rawTicket {
		return nil, newFlagError(ErrTicket, "empty ticket")
	}
	if nil == exchanger {
		return nil, newError("nil exchanger")
	}

	_, err := jwt.Parse(
		rawTicket,
		keyfunc,
		jwt.WithValidMethods([]string{"RS256", "ES256", "HS256"}),
		jwt.WithExpirationRequired(),
	)
	if nil != err {
		return nil, wrapFlagError(err, ErrTicket, "failed validating ticket for %s", appId)
	}

	key, err := exchanger.ExchangeTicket(ctx, appId, rawTicket)
	if nil != err {
		return nil, wrapError(err, "failed exchanging ticket for %s", appId)
	}
	secret, err := digest.NewDefaultHmac(cfg, key)
	if nil != err {
		return nil, wrapError(err, "failed keying shared secret for %s", appId)
	}

	rv := &FederatedTicket{appId: appId, cfg: cfg, ticket: rawTicket, secret: secret}
	err = rv.state.Apply(ctx, TokenCreationResult{Status: StatusSuccess})
	if nil != err {
		secret.Zero()
		return nil, err
	}
	return rv, nil
}

// AppId implements Credential.
func (self *FederatedTicket) AppId() uuid.UUID {
	return self.appId
}

// SharedSecret implements Credential.
func (self *FederatedTicket) SharedSecret() *digest.Hmac {
	return self.secret
}

// State implements Credential.
func (self *FederatedTicket) State() *AuthenticationState {
	return &self.state
}

// Ticket returns the raw identity-provider ticket.
func (self *FederatedTicket) Ticket() string {
	return self.ticket
}

// WriteInfoXml implements Credential.
func (self *FederatedTicket) WriteInfoXml(w io.Writer) error {
	return writeSecretXml(w, "ticket", self.secret)
}

// Zero wipes the shared secret key material & forgets the ticket.
func (self *FederatedTicket) Zero() {
	if nil != self.secret {
		self.secret.Zero()
		self.secret = nil
	}
	self.ticket = ""
}

// isCredential seals FederatedTicket as a variant of [Credential].
func (self *FederatedTicket) isCredential() {}

var _ Credential = &FederatedTicket{}
