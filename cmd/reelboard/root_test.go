package main

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func TestCloseWith(t *testing.T) {
	errUnlock := errors.New("unlock failed")
	errRun := errors.New("command failed")

	t.Run("close failure surfaces", func(t *testing.T) {
		var err error
		closeWith(&err, closerFunc(func() error { return errUnlock }))
		require.ErrorIs(t, err, errUnlock)
	})

	t.Run("joins with command error", func(t *testing.T) {
		err := errRun
		closeWith(&err, closerFunc(func() error { return errUnlock }))
		require.ErrorIs(t, err, errRun)
		require.ErrorIs(t, err, errUnlock)
	})

	t.Run("clean close keeps result", func(t *testing.T) {
		err := errRun
		closeWith(&err, closerFunc(func() error { return nil }))
		require.Same(t, errRun, err)

		err = nil
		closeWith(&err, closerFunc(func() error { return nil }))
		require.NoError(t, err)
	})
}
