package credentials

import (
	"context"
	"errors"
	"testing"
)

func TestStatusNames(t *testing.T) {
	cases := map[TokenCreationStatus]string{
		StatusUnknown:              "Unknown",
		StatusSuccess:              "Success",
		StatusCredentialNotFound:   "CredentialNotFound",
		StatusSecondFactorRequired: "SecondFactorAuthenticationRequired",
	}
	for status, name := range cases {
		if status.String() != name {
			t.Errorf("failed String control, %s != %s", status.String(), name)
		}
		if ParseTokenCreationStatus(name) != status {
			t.Errorf("failed Parse control for %s", name)
		}
	}
	if ParseTokenCreationStatus("NotAStatus") != StatusUnknown {
		t.Error("Oops, unrecognized name did not map to StatusUnknown")
	}
}

func TestActionNames(t *testing.T) {
	cases := map[AuthorizationAction]string{
		ActionAuthorizationRequired:      "AuthorizationRequired",
		ActionReauthorizationRequired:    "ReauthorizationRequired",
		ActionReauthorizationNotPossible: "ReauthorizationNotPossible",
		ActionNoActionRequired:           "NoActionRequired",
	}
	for action, name := range cases {
		if action.String() != name {
			t.Errorf("failed String control, %s != %s", action.String(), name)
		}
		if ParseAuthorizationAction(name) != action {
			t.Errorf("failed Parse control for %s", name)
		}
	}
}

func TestStateInitial(t *testing.T) {
	state := AuthenticationState{}
	if state.Status() != StatusUnknown {
		t.Errorf("failed initial status control, got %s", state.Status())
	}
	if state.CanSign() {
		t.Error("Oops, initial state can sign")
	}
}

func TestStateSuccess(t *testing.T) {
	ctx := context.Background()
	state := AuthenticationState{}

	err := state.Apply(ctx, TokenCreationResult{Status: StatusSuccess, Token: "token-1"})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if !state.CanSign() {
		t.Error("Oops, Success state can not sign")
	}
	if state.Result().Token != "token-1" {
		t.Errorf("failed token control, got %s", state.Result().Token)
	}

	// renewal supersedes the previous token
	err = state.Apply(ctx, TokenCreationResult{Status: StatusSuccess, Token: "token-2"})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if state.Result().Token != "token-2" {
		t.Errorf("failed renewal control, got %s", state.Result().Token)
	}
}

// Receiving Unknown after a prior Success is a protocol error: rejected,
// previous result kept.
func TestStateUnknownRegression(t *testing.T) {
	ctx := context.Background()
	state := AuthenticationState{}

	err := state.Apply(ctx, TokenCreationResult{Status: StatusSuccess, Token: "token-1"})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}

	err = state.Apply(ctx, TokenCreationResult{Status: StatusUnknown})
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Oops, expected ErrProtocol, got %v", err)
	}
	if state.Status() != StatusSuccess {
		t.Errorf("Oops, status changed to %s", state.Status())
	}
	if state.Result().Token != "token-1" {
		t.Error("Oops, previous result was discarded")
	}
}

// CredentialNotFound is terminal: no further result moves the state.
func TestStateCredentialNotFoundTerminal(t *testing.T) {
	ctx := context.Background()
	state := AuthenticationState{}

	err := state.Apply(ctx, TokenCreationResult{Status: StatusCredentialNotFound})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if state.CanSign() {
		t.Error("Oops, CredentialNotFound state can sign")
	}

	err = state.Apply(ctx, TokenCreationResult{Status: StatusSuccess})
	if !errors.Is(err, ErrProtocol) {
		t.Errorf("Oops, terminal state accepted a result, got %v", err)
	}
	if state.Status() != StatusCredentialNotFound {
		t.Errorf("failed terminal control, got %s", state.Status())
	}
}

func TestStateRemediationFlow(t *testing.T) {
	ctx := context.Background()
	state := AuthenticationState{}

	err := state.Apply(ctx, TokenCreationResult{
		Status: StatusPersonNotAuthorizedForApp,
		Action: ActionReauthorizationRequired,
	})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if state.CanSign() {
		t.Error("Oops, PersonNotAuthorizedForApp state can sign")
	}
	if state.Result().Action != ActionReauthorizationRequired {
		t.Errorf("failed action control, got %s", state.Result().Action)
	}

	// re-authorization succeeded on the service side
	err = state.Apply(ctx, TokenCreationResult{Status: StatusSuccess, Token: "token-3"})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if !state.CanSign() {
		t.Error("Oops, Success after remediation can not sign")
	}
}

func TestStateSecondFactorFlow(t *testing.T) {
	ctx := context.Background()
	state := AuthenticationState{}

	err := state.Apply(ctx, TokenCreationResult{Status: StatusSecondFactorRequired})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if state.CanSign() {
		t.Error("Oops, SecondFactorRequired state can sign")
	}

	err = state.Apply(ctx, TokenCreationResult{Status: StatusSuccess, Token: "token-4"})
	if nil != err {
		t.Fatalf("failed Apply, got error %v", err)
	}
	if !state.CanSign() {
		t.Error("Oops, Success after second factor can not sign")
	}
}
