package gojson

import (
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eng "github.com/reoring/calfields/internal/engine"
)

func TestNewBytes_Tokens(t *testing.T) {
	ts := NewBytes([]byte(`{"a": ["b", {"c": 125}], "d": null, "e": false}`))
	var got []eng.Token
	for {
		tok, err := ts.NextToken()
		if errors.Is(err, io.EOF) {
			break
		}
		require.NoError(t, err)
		got = append(got, tok)
	}

	want := []eng.Token{
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "a"},
		{Kind: eng.KindBeginArray},
		{Kind: eng.KindString, String: "b"},
		{Kind: eng.KindBeginObject},
		{Kind: eng.KindKey, String: "c"},
		{Kind: eng.KindNumber, Number: "125"},
		{Kind: eng.KindEndObject},
		{Kind: eng.KindEndArray},
		{Kind: eng.KindKey, String: "d"},
		{Kind: eng.KindNull},
		{Kind: eng.KindKey, String: "e"},
		{Kind: eng.KindBool},
		{Kind: eng.KindEndObject},
	}
	require.Len(t, got, len(want))
	for i := range want {
		want[i].Offset = -1
		assert.Equal(t, want[i], got[i], "token %d", i)
	}
	assert.Equal(t, int64(-1), ts.Location())
}

func TestNewBytes_DecodeOrdered(t *testing.T) {
	v, err := eng.DecodeOrdered(NewBytes([]byte(`{"z": 1, "a": "x"}`)))
	require.NoError(t, err)
	obj := v.(*eng.Object)
	assert.Equal(t, []string{"z", "a"}, obj.Keys)
	assert.Equal(t, []any{1.0, "x"}, obj.Values)
}
