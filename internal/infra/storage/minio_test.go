package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "audio/mp4", ContentTypeFor("alice/v1/a1.m4a"))
	assert.Equal(t, "audio/wav", ContentTypeFor("x.WAV"))
	assert.Equal(t, "audio/3gpp", ContentTypeFor("rec.3gp"))
	assert.Equal(t, "application/octet-stream", ContentTypeFor("rec"))
}
