package certstore

import (
	"context"

	"github.com/google/uuid"

	"code.hvlink.org/golang/internal/observability"
)

// Store abstracts the persistence of application certificate Records.
//
// A Store holds at most one Record per application id; Save replaces any
// existing entry with the same id.
type Store interface {

	// Load loads the Record bound to appId.
	// It returns false if appId has no stored certificate.
	Load(ctx context.Context, appId uuid.UUID) (Record, bool, error)

	// Save stores rec, replacing any Record with the same application id.
	Save(ctx context.Context, rec Record) error

	// DeleteKeyContainer destroys the stored key container & certificate of
	// appId. It returns true if an entry was effectively removed.
	DeleteKeyContainer(ctx context.Context, appId uuid.UUID) (bool, error)

	// Close releases store resources.
	Close() error
}

// EnsureParams tunes EnsureCertificate.
type EnsureParams struct {
	// AlwaysCreate forces a fresh generation even when a certificate is
	// already stored for the application id.
	AlwaysCreate bool

	// Create tunes the generation step.
	Create CreateParams
}

// EnsureCertificate returns a usable ApplicationCertificate for appId,
// generating & storing one when the store has none (or when AlwaysCreate is
// set). The caller owns the returned certificate and must Close it.
//
// The lookup & conditional create are not atomic; backends that serve several
// processes must serialize provisioning of one application id themselves (the
// pgdb backend exposes WithProvisionLock for this, the boltdb backend is
// protected by its exclusive file lock within one process).
func EnsureCertificate(ctx context.Context, store Store, appId uuid.UUID, params EnsureParams) (*ApplicationCertificate, error) {
	log := observability.GetObservability(ctx).Log()

	if !params.AlwaysCreate {
		rec, found, err := store.Load(ctx, appId)
		if nil != err {
			return nil, wrapError(err, "failed loading certificate record for %s", appId)
		}
		if found {
			cert, err := rec.Certificate()
			if nil != err {
				return nil, wrapError(err, "failed restoring stored certificate for %s", appId)
			}
			return cert, nil
		}
	}

	cert, err := Generate(appId, params.Create)
	if nil != err {
		return nil, err
	}
	rec, err := NewRecord(cert)
	if nil != err {
		cert.Close()
		return nil, err
	}
	err = store.Save(ctx, rec)
	if nil != err {
		cert.Close()
		return nil, wrapError(err, "failed storing certificate record for %s", appId)
	}

	log.Info("generated application certificate", "appId", appId, "subject", cert.Subject())

	return cert, nil
}
