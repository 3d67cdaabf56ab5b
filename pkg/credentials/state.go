package credentials

import (
	"context"
	"errors"

	"code.hvlink.org/golang/internal/fsm"
	"code.hvlink.org/golang/internal/observability"
)

// TokenCreationResult is the authentication outcome reported by the service
// after a token creation round trip.
//
// Results are data, not errors: callers branch on Status to route the person
// through the matching remediation flow.
type TokenCreationResult struct {
	// Status is the token creation outcome.
	Status TokenCreationStatus

	// Action details the remediation when Status is
	// StatusPersonNotAuthorizedForApp.
	Action AuthorizationAction

	// Token is the issued authentication token, set on StatusSuccess.
	// It supersedes any previously issued token.
	Token string
}

// AuthenticationState tracks the authentication token lifecycle of one
// credential. The zero value starts at StatusUnknown with no result.
//
// Apply drives the status through the token lifecycle table; only the latest
// result is retained.
type AuthenticationState struct {
	status TokenCreationStatus
	result TokenCreationResult
}

// State implements fsm.StateM.
func (self *AuthenticationState) State() TokenCreationStatus {
	return self.status
}

// SetState implements fsm.StateM.
func (self *AuthenticationState) SetState(s TokenCreationStatus) {
	self.status = s
}

// Status returns the current token creation status.
func (self *AuthenticationState) Status() TokenCreationStatus {
	return self.status
}

// Result returns the latest applied TokenCreationResult.
func (self *AuthenticationState) Result() TokenCreationResult {
	return self.result
}

// CanSign reports whether the credential may sign requests: only a Success
// status permits signing.
func (self *AuthenticationState) CanSign() bool {
	return StatusSuccess == self.status
}

// Apply replaces the stored result with result after validating the status
// transition. Receiving StatusUnknown is a service protocol violation: it is
// rejected with ErrProtocol, logged loudly, and the previous result is kept.
//
// A rejected Apply leaves the AuthenticationState unchanged.
func (self *AuthenticationState) Apply(ctx context.Context, result TokenCreationResult) error {
	err := fsm.Update(self, tokenLifecycle[:], result)
	if nil != err {
		if !errors.Is(err, ErrProtocol) {
			err = wrapFlagError(err, ErrProtocol, "rejected authentication result %s", result.Status)
		}
		observability.GetObservability(ctx).Log().Warn(
			"rejected authentication result",
			"status", result.Status.String(),
			"currentStatus", self.status.String(),
			"err", err,
		)
		return err
	}
	self.result = result
	return nil
}

// receiveResult validates one service-reported result against the current
// status. The next status is the reported one; Unknown is never receivable.
func receiveResult(s *AuthenticationState, result TokenCreationResult) (TokenCreationStatus, error) {
	if StatusUnknown == result.Status {
		return s.status, newFlagError(
			ErrProtocol,
			"received Unknown status after %s, keeping previous token",
			s.status,
		)
	}
	if result.Status < 0 || result.Status >= countTokenCreationStatus {
		return s.status, newFlagError(ErrProtocol, "received out of range status %d", result.Status)
	}
	return result.Status, nil
}

// anyReceivable lists every status the service may legitimately report.
var anyReceivable = []TokenCreationStatus{
	StatusSuccess,
	StatusPersonNotAuthorizedForApp,
	StatusPersonAppAcceptanceRequired,
	StatusCredentialNotFound,
	StatusSecondFactorRequired,
}

// tokenLifecycle is the authentication token transition table.
// StatusCredentialNotFound is terminal: the credential must be re-provisioned,
// no result can move it forward.
var tokenLifecycle = [...]fsm.Transition[TokenCreationStatus, *AuthenticationState, TokenCreationResult]{
	StatusUnknown:                     {Call: receiveResult, Exit: anyReceivable},
	StatusSuccess:                     {Call: receiveResult, Exit: anyReceivable},
	StatusPersonNotAuthorizedForApp:   {Call: receiveResult, Exit: anyReceivable},
	StatusPersonAppAcceptanceRequired: {Call: receiveResult, Exit: anyReceivable},
	StatusCredentialNotFound:          {},
	StatusSecondFactorRequired:        {Call: receiveResult, Exit: anyReceivable},
}
