package yaml

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	eng "github.com/reoring/calfields/internal/engine"
)

func drain(t *testing.T, ts eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := ts.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		require.NoError(t, err)
		out = append(out, tok)
	}
}

func TestNewBytes_Tokens(t *testing.T) {
	toks := drain(t, NewBytes([]byte("year: 2024\nera: null\nleap: true\nlist: [M01, 1.5]\n")))
	kinds := make([]eng.Kind, len(toks))
	for i, tok := range toks {
		kinds[i] = tok.Kind
	}
	assert.Equal(t, []eng.Kind{
		eng.KindBeginObject,
		eng.KindKey, eng.KindNumber,
		eng.KindKey, eng.KindNull,
		eng.KindKey, eng.KindBool,
		eng.KindKey, eng.KindBeginArray, eng.KindString, eng.KindNumber, eng.KindEndArray,
		eng.KindEndObject,
	}, kinds)
	assert.Equal(t, "2024", toks[2].Number)
	assert.True(t, toks[6].Bool)
	assert.Equal(t, "M01", toks[9].String)
	assert.Equal(t, "1.5", toks[10].Number)
}

func TestNewBytes_QuotedNumbersStayStrings(t *testing.T) {
	toks := drain(t, NewBytes([]byte(`day: "5"`)))
	require.Len(t, toks, 4)
	assert.Equal(t, eng.KindString, toks[2].Kind)
	assert.Equal(t, "5", toks[2].String)
}

func TestNewBytes_SpecialFloats(t *testing.T) {
	toks := drain(t, NewBytes([]byte("[.inf, -.Inf, .nan]")))
	require.Len(t, toks, 5)
	assert.Equal(t, "+Inf", toks[1].Number)
	assert.Equal(t, "-Inf", toks[2].Number)
	assert.Equal(t, "NaN", toks[3].Number)
}

func TestNewBytes_Errors(t *testing.T) {
	_, err := NewBytes(nil).NextToken()
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)

	ts := NewBytes([]byte("day: 1\n? {a: 1}\n: x\n"))
	for range 3 {
		_, err = ts.NextToken()
		require.NoError(t, err, "tokens before the bad key are emitted")
	}
	_, err = ts.NextToken()
	var ke *KeyError
	require.True(t, errors.As(err, &ke))
	assert.Equal(t, 2, ke.Line)
	_, again := ts.NextToken()
	assert.Equal(t, err, again, "errors are sticky")

	_, err = NewBytes([]byte("a: [1\n")).NextToken()
	assert.Error(t, err)
}

// nestedAnchors builds levels of anchors, each a list repeating the previous
// anchor fanout times.
func nestedAnchors(levels, fanout int) []byte {
	b := &strings.Builder{}
	b.WriteString("a0: &a0 [" + strings.TrimSuffix(strings.Repeat("x, ", fanout), ", ") + "]\n")
	for i := 1; i <= levels; i++ {
		prev := fmt.Sprintf("*a%d", i-1)
		fmt.Fprintf(b, "a%d: &a%d [%s]\n", i, i, strings.TrimSuffix(strings.Repeat(prev+", ", fanout), ", "))
	}
	return []byte(b.String())
}

func TestNewBytes_AliasExpansionIsBounded(t *testing.T) {
	ts := NewBytes(nestedAnchors(6, 10))
	var err error
	n := 0
	for err == nil {
		_, err = ts.NextToken()
		n++
	}
	assert.ErrorIs(t, err, ErrTooManyNodes)
	assert.Less(t, n, 2*minNodeBudget)

	small := drain(t, NewBytes(nestedAnchors(2, 3)))
	assert.NotEmpty(t, small)
}

func TestNewBytes_StopsWhenConsumerStops(t *testing.T) {
	ts := eng.WrapWithEnforcement(NewBytes(nestedAnchors(6, 10)), eng.EnforceOptions{MaxDepth: 4})
	_, err := eng.DecodeOrdered(ts)
	var ie eng.IssueError
	require.True(t, errors.As(err, &ie))
	assert.Equal(t, "parse_error", ie.Code)
}

func TestNewBytes_Location(t *testing.T) {
	assert.Equal(t, int64(-1), NewBytes([]byte("a: 1")).Location())
}
