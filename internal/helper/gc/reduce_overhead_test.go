// Copyright (c) 2025 ctscout All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package gc_test

import (
	"strings"
	"testing"

	"github.com/ctscout/ct-cert-search/internal/helper/gc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultPool(t *testing.T) {
	buf := gc.Default.Get()
	require.NotNil(t, buf)

	_, err := buf.WriteString("hello")
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf.Bytes()))

	buf.Reset()
	assert.Empty(t, buf.Bytes())

	gc.Default.Put(buf)
}

func TestBufferReadFrom(t *testing.T) {
	buf := gc.Default.Get()
	defer func() {
		buf.Reset()
		gc.Default.Put(buf)
	}()

	n, err := buf.ReadFrom(strings.NewReader(`[{"id":1}]`))
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Equal(t, `[{"id":1}]`, string(buf.Bytes()))
}
