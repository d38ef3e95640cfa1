package audit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMetadata(t *testing.T) {
	meta, err := decodeMetadata([]byte(`{"method":"POST","path":"/admin/bootstrap"}`))
	require.NoError(t, err)
	assert.Equal(t, "POST", meta["method"])

	meta, err = decodeMetadata(nil)
	require.NoError(t, err)
	assert.Nil(t, meta)
}

func TestDecodeMetadataCorruptRowIsReported(t *testing.T) {
	_, err := decodeMetadata([]byte(`{"method":`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode metadata")
}
