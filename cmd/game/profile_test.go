package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStartProfile_Off(t *testing.T) {
	p, err := startProfile("")
	require.NoError(t, err)
	p.Stop()
}

func TestStartProfile_UnknownMode(t *testing.T) {
	_, err := startProfile("block")
	assert.ErrorContains(t, err, "block")
}
