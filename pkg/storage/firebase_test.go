package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectName(t *testing.T) {
	assert.Equal(t, "abc.png", ObjectName("https://storage.googleapis.com/my-bucket/abc.png"))
	assert.Equal(t, "", ObjectName("https://storage.googleapis.com/my-bucket/"))
	assert.Equal(t, "", ObjectName("no-slashes"))
}

func TestDecodePayloadDataURI(t *testing.T) {
	// "hi" base64-encoded
	data, ext, err := decodePayload("data:image/png;base64,aGk=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
	assert.Equal(t, ".png", ext)
}

func TestDecodePayloadBareBase64DefaultsJpg(t *testing.T) {
	data, ext, err := decodePayload("aGk=")
	require.NoError(t, err)
	assert.Equal(t, []byte("hi"), data)
	assert.Equal(t, ".jpg", ext)
}

func TestDecodePayloadRejectsGarbage(t *testing.T) {
	_, _, err := decodePayload("data:image/png;base64")
	assert.Error(t, err)

	_, _, err = decodePayload("!!not base64!!")
	assert.Error(t, err)
}
