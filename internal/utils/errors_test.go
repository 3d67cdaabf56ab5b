package utils

import (
	"errors"
	"io"
	"testing"
)

func TestErrorNew(t *testing.T) {
	err := newError("something failed, code %d", 7)
	t.Logf("err -> %v", err)
	if !errors.Is(err, PkgBaseError) {
		t.Error("Oops, err is not PkgBaseError")
	}
	raised, ok := err.(RaisedErr)
	if !ok {
		t.Fatal("Oops, can not cast err to RaisedErr")
	}
	if 0 == raised.Line {
		t.Error("Oops, missing caller line")
	}
}

func TestErrorWrap(t *testing.T) {
	err := wrapError(io.EOF, "failed reading")
	t.Logf("err -> %v", err)
	if !errors.Is(err, PkgBaseError) {
		t.Error("Oops, err is not PkgBaseError")
	}
	if !errors.Is(err, io.EOF) {
		t.Error("Oops, err is not an io.EOF")
	}
	_, ok := err.(RaisedErr)
	if !ok {
		t.Error("Oops, can not cast err to RaisedErr")
	}
}

func TestErrorWrapNil(t *testing.T) {
	err := wrapError(nil, "shall be nil")
	if nil != err {
		t.Errorf("Oops, wrapError(nil, ...) returned %v", err)
	}
}

func TestRegistry(t *testing.T) {
	registry := NewRegistry[string, int]()
	err := RegistrySet(registry, "one", 1)
	if nil != err {
		t.Fatalf("failed RegistrySet, got error %v", err)
	}
	err = RegistrySet(registry, "one", 2)
	if nil == err {
		t.Error("Oops, RegistrySet accepted a duplicated name")
	}
	got, found := RegistryGet(registry, "one")
	if !found || got != 1 {
		t.Errorf("failed RegistryGet, got (%d, %v)", got, found)
	}
	_, found = RegistryGet(registry, "two")
	if found {
		t.Error("Oops, RegistryGet found an entry that was never set")
	}
}
