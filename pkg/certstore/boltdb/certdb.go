// Package boltdb provides a persistent certstore.Store that keeps application
// certificates in a single user-scoped file.
package boltdb

import (
	"context"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"code.hvlink.org/golang/pkg/certstore"
)

const (
	connectTimeout = 5 * time.Second
	certBucket     = "certTbl"
)

type certStore struct {
	dbpath string
}

// New returns a Store implementation that persists certificate Records in a
// single file boltdb database. It errors if the database schema can not be
// created.
//
// The boltdb exclusive file lock serializes accesses within one process;
// provisioning the same application id from several processes must be
// serialized by the caller.
func New(dbpath string) (certstore.Store, error) {
	store := certStore{dbpath: dbpath}

	db, err := bolt.Open(dbpath, 0600, &bolt.Options{Timeout: connectTimeout})
	if nil != err {
		return nil, wrapError(err, "failed connecting to database")
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(certBucket))
		return wrapError(err, "failed %s bucket creation", certBucket) // nil if err is nil
	})
	if nil != err {
		return nil, wrapError(err, "failed db initialization")
	}

	return store, nil
}

// Load loads the Record bound to appId.
func (self certStore) Load(ctx context.Context, appId uuid.UUID) (certstore.Record, bool, error) {
	var rec certstore.Record

	db, err := bolt.Open(self.dbpath, 0600, &bolt.Options{Timeout: connectTimeout})
	if nil != err {
		return rec, false, wrapError(err, "failed connecting to database")
	}
	defer db.Close()

	var found bool
	err = db.View(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(certBucket))
		if nil == bucket {
			return newError("missing %s bucket", certBucket)
		}
		srzrec := bucket.Get(appId[:])
		if nil == srzrec {
			return nil
		}
		err := cbor.Unmarshal(srzrec, &rec)
		if nil != err {
			return wrapError(err, "failed cbor.Unmarshal(record)")
		}
		found = true
		return nil
	})
	if nil != err {
		return certstore.Record{}, false, wrapError(err, "failed db.View")
	}

	return rec, found, nil
}

// Save stores rec, replacing any Record with the same application id.
func (self certStore) Save(ctx context.Context, rec certstore.Record) error {
	err := rec.Check()
	if nil != err {
		return wrapError(err, "record is invalid")
	}

	srzrec, err := cbor.Marshal(rec)
	if nil != err {
		return wrapError(err, "failed cbor.Marshal(record)")
	}

	db, err := bolt.Open(self.dbpath, 0600, &bolt.Options{Timeout: connectTimeout})
	if nil != err {
		return wrapError(err, "failed connecting to database")
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(certBucket))
		if nil == bucket {
			return newError("missing %s bucket", certBucket)
		}
		return wrapError(bucket.Put(rec.AppId, srzrec), "failed storing record") // nil if err is nil
	})

	return wrapError(err, "failed db.Update") // nil if err is nil
}

// DeleteKeyContainer destroys the stored key container & certificate of appId.
// It returns true if an entry was effectively removed.
func (self certStore) DeleteKeyContainer(ctx context.Context, appId uuid.UUID) (bool, error) {
	db, err := bolt.Open(self.dbpath, 0600, &bolt.Options{Timeout: connectTimeout})
	if nil != err {
		return false, wrapError(err, "failed connecting to database")
	}
	defer db.Close()

	var removed bool
	err = db.Update(func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(certBucket))
		if nil == bucket {
			return newError("missing %s bucket", certBucket)
		}
		if nil == bucket.Get(appId[:]) {
			return nil
		}
		err := bucket.Delete(appId[:])
		if nil != err {
			return wrapError(err, "failed deleting record")
		}
		removed = true
		return nil
	})
	if nil != err {
		return false, wrapError(err, "failed db.Update")
	}

	return removed, nil
}

// Close implements certstore.Store. The database file is opened per
// operation, there is nothing to release.
func (self certStore) Close() error {
	return nil
}
