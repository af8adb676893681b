package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCLIErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := WrapCLIError(ExitInventoryError, "listing containers", inner)

	assert.Equal(t, "listing containers: boom", err.Error())
	assert.ErrorIs(t, err, inner)
	assert.Equal(t, ExitInventoryError, err.Code)
}

func TestNewCLIErrorNoUnderlying(t *testing.T) {
	err := NewCLIError(ExitUserCancelled, "cancelled")
	assert.Equal(t, "cancelled", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestProviderFileErrorUnwrap(t *testing.T) {
	inner := errors.New("bad yaml")
	err := &ProviderFileError{Container: "ctn1", Path: "/conf/traefik.yml", Err: inner}
	assert.ErrorIs(t, err, inner)
	assert.Contains(t, err.Error(), "ctn1")
	assert.Contains(t, err.Error(), "/conf/traefik.yml")
}

func TestUnresolvedReferenceMessage(t *testing.T) {
	err := &UnresolvedReference{Kind: "middleware", Name: "m1", From: "r1"}
	assert.Equal(t, `unresolved middleware "m1" referenced by router "r1"`, err.Error())
}
