package models

import (
	"encoding/json"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypedIDRoundTrips(t *testing.T) {
	id := NewDocumentID()

	data, err := json.Marshal(id)
	require.NoError(t, err)
	var fromJSON DocumentID
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Equal(t, id, fromJSON)

	raw, err := cbor.Marshal(id)
	require.NoError(t, err)
	var fromCBOR DocumentID
	require.NoError(t, cbor.Unmarshal(raw, &fromCBOR))
	assert.Equal(t, id, fromCBOR)

	parsed, err := ParseDocumentID(id.String())
	require.NoError(t, err)
	assert.Equal(t, id, parsed)

	_, err = ParseDocumentID("not-a-uuid")
	assert.Error(t, err)
}

func TestTypedIDScan(t *testing.T) {
	id := NewFolderID()

	var fromString FolderID
	require.NoError(t, fromString.Scan(id.String()))
	assert.Equal(t, id, fromString)

	var fromBytes FolderID
	require.NoError(t, fromBytes.Scan([]byte(id.String())))
	assert.Equal(t, id, fromBytes)

	var fromNil FolderID
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.IsZero())

	var bad FolderID
	assert.Error(t, bad.Scan(42))
}

func TestZeroIDValueIsNull(t *testing.T) {
	var zero ShareID
	v, err := zero.Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	id := NewShareID()
	v, err = id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.String(), v)
}

func TestStringSliceStorage(t *testing.T) {
	tags := StringSlice{"work", "draft"}
	v, err := tags.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `["work","draft"]`, v.(string))

	var scanned StringSlice
	require.NoError(t, scanned.Scan([]byte(`["a","b"]`)))
	assert.Equal(t, StringSlice{"a", "b"}, scanned)

	var fromNil StringSlice
	require.NoError(t, fromNil.Scan(nil))
	assert.Empty(t, fromNil)

	var nilSlice StringSlice
	v, err = nilSlice.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	assert.True(t, tags.Contains("work"))
	assert.False(t, tags.Contains("play"))
}

func TestNewShareToken(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		token, err := NewShareToken()
		require.NoError(t, err)
		require.Len(t, token, ShareTokenLength)
		for _, r := range token {
			assert.Contains(t, tokenAlphabet, string(r))
		}
		assert.False(t, seen[token], "tokens must not repeat")
		seen[token] = true
	}
}
