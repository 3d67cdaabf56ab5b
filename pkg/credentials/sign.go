package credentials

import (
	"bytes"

	"code.hvlink.org/golang/pkg/digest"
)

// SignRequest HMAC-signs body with the credential shared secret and returns
// the finalized digest to attach to the outgoing request, alongside the
// serialized authentication block.
//
// It errors with ErrNotSignable unless the credential status is Success
// (Scenario: a credential whose status moved to PersonAppAcceptanceRequired
// must not sign until a Success result is applied).
//
// SignRequest drives the shared secret Hmac through one Reset/Finalize cycle;
// callers must serialize SignRequest calls on one credential.
func SignRequest(cred Credential, body []byte) (digest.HmacFinalized, string, error) {
	var fin digest.HmacFinalized

	if nil == cred {
		return fin, "", newError("nil credential")
	}
	if !cred.State().CanSign() {
		return fin, "", newFlagError(
			ErrNotSignable,
			"credential status is %s, signing requires %s",
			cred.State().Status(),
			StatusSuccess,
		)
	}
	secret := cred.SharedSecret()
	if nil == secret {
		return fin, "", newFlagError(ErrNoSecret, "credential has no shared secret")
	}

	secret.Reset()
	err := secret.ComputeHash(body)
	if nil != err {
		return fin, "", wrapError(err, "failed hashing request body")
	}
	fin, err = secret.Finalize()
	if nil != err {
		return fin, "", wrapError(err, "failed finalizing request digest")
	}

	block := bytes.Buffer{}
	err = cred.WriteInfoXml(&block)
	if nil != err {
		return fin, "", wrapError(err, "failed writing authentication block")
	}

	return fin, block.String(), nil
}
