package credentials

// TokenCreationStatus is the service-reported outcome of an authentication
// token creation round trip.
type TokenCreationStatus int

const (
	// StatusUnknown is the initial status, before any exchange with the
	// service. It is never a valid status to receive from the service.
	StatusUnknown TokenCreationStatus = iota

	// StatusSuccess marks an usable authentication token.
	StatusSuccess

	// StatusPersonNotAuthorizedForApp requires an authorization flow,
	// detailed by the result AuthorizationAction.
	StatusPersonNotAuthorizedForApp

	// StatusPersonAppAcceptanceRequired requires the person to accept the
	// application terms before retrying.
	StatusPersonAppAcceptanceRequired

	// StatusCredentialNotFound is terminal: the credential must be
	// re-provisioned.
	StatusCredentialNotFound

	// StatusSecondFactorRequired requires a second-factor challenge before
	// retrying.
	StatusSecondFactorRequired

	countTokenCreationStatus
)

var statusNames = [...]string{
	StatusUnknown:                     "Unknown",
	StatusSuccess:                     "Success",
	StatusPersonNotAuthorizedForApp:   "PersonNotAuthorizedForApp",
	StatusPersonAppAcceptanceRequired: "PersonAppAcceptanceRequired",
	StatusCredentialNotFound:          "CredentialNotFound",
	StatusSecondFactorRequired:        "SecondFactorAuthenticationRequired",
}

// String returns the service wire name of the status.
func (self TokenCreationStatus) String() string {
	if self < 0 || self >= countTokenCreationStatus {
		return "Unknown"
	}
	return statusNames[self]
}

// ParseTokenCreationStatus maps a service wire name onto a
// TokenCreationStatus. Unrecognized names map to StatusUnknown.
func ParseTokenCreationStatus(name string) TokenCreationStatus {
	for status, statusName := range statusNames {
		if name == statusName {
			return TokenCreationStatus(status)
		}
	}
	return StatusUnknown
}

// AuthorizationAction is the remediation the person must perform before the
// application may access a record, reported alongside
// StatusPersonNotAuthorizedForApp.
type AuthorizationAction int

const (
	ActionUnknown AuthorizationAction = iota
	ActionAuthorizationRequired
	ActionReauthorizationRequired
	ActionReauthorizationNotPossible
	ActionNoActionRequired

	countAuthorizationAction
)

var actionNames = [...]string{
	ActionUnknown:                    "Unknown",
	ActionAuthorizationRequired:      "AuthorizationRequired",
	ActionReauthorizationRequired:    "ReauthorizationRequired",
	ActionReauthorizationNotPossible: "ReauthorizationNotPossible",
	ActionNoActionRequired:           "NoActionRequired",
}

// String returns the service wire name of the action.
func (self AuthorizationAction) String() string {
	if self < 0 || self >= countAuthorizationAction {
		return "Unknown"
	}
	return actionNames[self]
}

// ParseAuthorizationAction maps a service wire name onto an
// AuthorizationAction. Unrecognized names map to ActionUnknown.
func ParseAuthorizationAction(name string) AuthorizationAction {
	for action, actionName := range actionNames {
		if name == actionName {
			return AuthorizationAction(action)
		}
	}
	return ActionUnknown
}
