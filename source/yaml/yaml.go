// Package yaml walks a gopkg.in/yaml.v3 node tree and replays it as an
// engine.TokenSource, so YAML property bags go through the same decoding and
// enforcement as JSON ones.
package yaml

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"

	y "gopkg.in/yaml.v3"

	eng "github.com/reoring/calfields/internal/engine"
)

// KeyError reports a mapping key that is not a scalar.
type KeyError struct {
	Line, Col int
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("yaml: mapping key at %d:%d is not a scalar", e.Line, e.Col)
}

// ErrTooManyNodes is returned when alias expansion visits more nodes than the
// document's budget allows.
var ErrTooManyNodes = errors.New("yaml: document expands too many aliases")

type frame struct {
	node    *y.Node
	next    int
	aliases int
}

// source replays the node tree lazily, so enforcement on the consumer side
// stops the walk as soon as a limit is hit.
type source struct {
	pending *y.Node
	aliases int
	stack   []frame
	visited int
	budget  int
	err     error
}

// NewBytes parses the first document of b and returns its token stream.
// Parse errors surface from the first NextToken call.
func NewBytes(b []byte) eng.TokenSource {
	return NewReader(bytes.NewReader(b))
}

// NewReader is NewBytes for an io.Reader.
func NewReader(r io.Reader) eng.TokenSource {
	var root y.Node
	s := &source{}
	if err := y.NewDecoder(r).Decode(&root); err != nil {
		s.err = err
		if err == io.EOF {
			s.err = io.ErrUnexpectedEOF
		}
		return s
	}
	s.pending = &root
	s.budget = max(minNodeBudget, aliasFanout*countNodes(&root))
	return s
}

const (
	// maxAliasDepth bounds alias nesting.
	maxAliasDepth = 64
	// Alias expansion may visit at most aliasFanout times the nodes present
	// in the document, and never less than minNodeBudget.
	aliasFanout   = 16
	minNodeBudget = 10000
)

// countNodes counts the nodes of the parsed tree without following aliases.
func countNodes(n *y.Node) int {
	c := 1
	for _, ch := range n.Content {
		c += countNodes(ch)
	}
	return c
}

func (s *source) fail(err error) (eng.Token, error) {
	s.err = err
	return eng.Token{}, err
}

func (s *source) NextToken() (eng.Token, error) {
	if s.err != nil {
		return eng.Token{}, s.err
	}
	for {
		if n := s.pending; n != nil {
			s.pending = nil
			return s.enter(n, s.aliases)
		}
		if len(s.stack) == 0 {
			return eng.Token{}, io.EOF
		}
		top := &s.stack[len(s.stack)-1]
		if top.next >= len(top.node.Content) {
			done := top.node
			s.stack = s.stack[:len(s.stack)-1]
			if done.Kind == y.MappingNode {
				return eng.Token{Kind: eng.KindEndObject, Offset: -1}, nil
			}
			return eng.Token{Kind: eng.KindEndArray, Offset: -1}, nil
		}
		child := top.node.Content[top.next]
		top.next++
		if top.node.Kind == y.MappingNode && top.next%2 == 1 {
			if child.Kind == y.AliasNode && child.Alias != nil {
				child = child.Alias
			}
			if child.Kind != y.ScalarNode {
				return s.fail(&KeyError{Line: child.Line, Col: child.Column})
			}
			return eng.Token{Kind: eng.KindKey, String: child.Value, Offset: -1}, nil
		}
		s.pending, s.aliases = child, top.aliases
	}
}

// enter emits the opening token of n, pushing containers on the stack.
func (s *source) enter(n *y.Node, aliases int) (eng.Token, error) {
	for {
		s.visited++
		if s.visited > s.budget {
			return s.fail(ErrTooManyNodes)
		}
		switch n.Kind {
		case y.DocumentNode:
			if len(n.Content) == 0 {
				return s.fail(io.ErrUnexpectedEOF)
			}
			n = n.Content[0]
			continue
		case y.AliasNode:
			if aliases >= maxAliasDepth {
				return s.fail(fmt.Errorf("yaml: alias nesting too deep at %d:%d", n.Line, n.Column))
			}
			n, aliases = n.Alias, aliases+1
			continue
		case y.MappingNode:
			s.stack = append(s.stack, frame{node: n, aliases: aliases})
			return eng.Token{Kind: eng.KindBeginObject, Offset: -1}, nil
		case y.SequenceNode:
			s.stack = append(s.stack, frame{node: n, aliases: aliases})
			return eng.Token{Kind: eng.KindBeginArray, Offset: -1}, nil
		case y.ScalarNode:
			tok, err := scalar(n)
			if err != nil {
				return s.fail(err)
			}
			return tok, nil
		}
		return s.fail(fmt.Errorf("yaml: unsupported node kind %d at %d:%d", n.Kind, n.Line, n.Column))
	}
}

func scalar(n *y.Node) (eng.Token, error) {
	switch n.ShortTag() {
	case "!!null":
		return eng.Token{Kind: eng.KindNull, Offset: -1}, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return eng.Token{}, err
		}
		return eng.Token{Kind: eng.KindBool, Bool: b, Offset: -1}, nil
	case "!!int", "!!float":
		var v any
		if err := n.Decode(&v); err != nil {
			return eng.Token{}, err
		}
		num, ok := numberText(v)
		if !ok {
			return eng.Token{}, fmt.Errorf("yaml: number %q at %d:%d out of range", n.Value, n.Line, n.Column)
		}
		return eng.Token{Kind: eng.KindNumber, Number: num, Offset: -1}, nil
	}
	return eng.Token{Kind: eng.KindString, String: n.Value, Offset: -1}, nil
}

// numberText renders a decoded YAML number in a form strconv.ParseFloat reads.
func numberText(v any) (string, bool) {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n), true
	case int64:
		return strconv.FormatInt(n, 10), true
	case uint64:
		return strconv.FormatUint(n, 10), true
	case float64:
		switch {
		case math.IsNaN(n):
			return "NaN", true
		case math.IsInf(n, 1):
			return "+Inf", true
		case math.IsInf(n, -1):
			return "-Inf", true
		}
		return strconv.FormatFloat(n, 'g', -1, 64), true
	}
	return "", false
}

func (s *source) Location() int64 { return -1 }
