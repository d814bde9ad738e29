package share

import (
	"testing"

	"notekeeper/internal/crypto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildLink(t *testing.T) {
	link := BuildLink("https://notes.example.com", "abc-123", crypto.Key("deadbeef"))
	assert.Equal(t, "https://notes.example.com/view/abc-123#deadbeef", link)

	// trailing slash on the origin is tolerated
	link = BuildLink("https://notes.example.com/", "abc-123", crypto.Key("deadbeef"))
	assert.Equal(t, "https://notes.example.com/view/abc-123#deadbeef", link)
}

func TestParseLink(t *testing.T) {
	key, err := crypto.GenerateKey()
	require.NoError(t, err)

	link := BuildLink("https://notes.example.com", "abc-123", key)
	id, gotKey, err := ParseLink(link)

	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Equal(t, key, gotKey)
}

func TestParseLink_NoFragment(t *testing.T) {
	id, key, err := ParseLink("https://notes.example.com/view/abc-123")
	require.NoError(t, err)
	assert.Equal(t, "abc-123", id)
	assert.Empty(t, string(key), "key entered manually when the fragment is absent")
}

func TestParseLink_Invalid(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"no view segment", "https://notes.example.com/abc-123#key"},
		{"empty id", "https://notes.example.com/view/#key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ParseLink(tt.raw)
			assert.Error(t, err)
		})
	}
}
