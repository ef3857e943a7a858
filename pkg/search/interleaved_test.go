// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInterleavedSearcherRoundRobin(t *testing.T) {
	dfs := NewDFSSearcher()
	bfs := NewBFSSearcher()
	s := NewInterleavedSearcher(dfs, bfs)

	a := newTestState(t, 1)
	b := newTestState(t, 2)
	AddState(dfs, a)
	AddState(bfs, b)

	first := s.Select()
	second := s.Select()
	assert.NotEqual(t, first, second, "round robin should visit both members before repeating")
}

func TestInterleavedSearcherSkipsEmptyMembers(t *testing.T) {
	dfs := NewDFSSearcher()
	bfs := NewBFSSearcher()
	s := NewInterleavedSearcher(dfs, bfs)

	a := newTestState(t, 1)
	AddState(dfs, a)

	assert.Equal(t, a, s.Select())
	assert.Equal(t, a, s.Select())
}

func TestInterleavedSearcherEmpty(t *testing.T) {
	s := NewInterleavedSearcher(NewDFSSearcher(), NewBFSSearcher())
	assert.True(t, s.Empty())
	assert.Panics(t, func() { s.Select() })
}
