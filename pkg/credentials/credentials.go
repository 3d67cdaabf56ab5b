// Package credentials represents "this process is authenticated as
// application X" against the health-record service.
//
// Credential is a sealed sum type over the two authentication strategies:
//   - [SharedSecret]: a shared-secret established through a certificate
//     signed challenge exchange.
//   - [FederatedTicket]: a ticket issued by an external identity provider,
//     exchanged for a session shared secret.
//
// Both variants HMAC-sign outgoing request bodies with their shared secret
// and track the authentication token lifecycle through AuthenticationState.
// The HTTP transport is an external collaborator: this package only prepares
// the authentication XML blocks and consumes the returned status codes.
package credentials

import (
	"context"
	"io"

	"github.com/google/uuid"

	"code.hvlink.org/golang/pkg/digest"
)

// Credential is a sealed interface representing proof of application
// identity.
//
// Variants:
//   - [SharedSecret]
//   - [FederatedTicket]
type Credential interface {
	// AppId returns the application id the credential authenticates.
	AppId() uuid.UUID

	// SharedSecret returns the session HMAC shared secret, or nil before one
	// was established.
	SharedSecret() *digest.Hmac

	// State returns the credential authentication token lifecycle state.
	State() *AuthenticationState

	// WriteInfoXml emits the credential authentication block. The fragment
	// embeds the shared secret key material and must only travel over a
	// secured channel.
	WriteInfoXml(w io.Writer) error

	// isCredential seals the interface.
	isCredential()
}

// UpdateAuthenticationResults replaces the credential stored token result
// with result; the latest result always wins, no history is retained.
func UpdateAuthenticationResults(ctx context.Context, cred Credential, result TokenCreationResult) error {
	if nil == cred {
		return newError("nil credential")
	}
	return cred.State().Apply(ctx, result)
}

// writeSecretXml emits <{kind}><shared-secret>{hmac-alg xml}</shared-secret></{kind}>.
func writeSecretXml(w io.Writer, kind string, secret *digest.Hmac) error {
	if nil == w {
		return newError("nil writer")
	}
	if nil == secret {
		return newFlagError(ErrNoSecret, "credential has no shared secret")
	}
	_, err := io.WriteString(w, "<"+kind+"><shared-secret>")
	if nil != err {
		return wrapError(err, "failed writing %s element", kind)
	}
	err = secret.WriteInfoXml(w)
	if nil != err {
		return wrapError(err, "failed writing shared secret")
	}
	_, err = io.WriteString(w, "</shared-secret></"+kind+">")
	return wrapError(err, "failed writing %s element", kind) // nil if err is nil
}
