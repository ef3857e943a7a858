// Copyright 2025 symsearch project authors. All rights reserved.
// Use of this source code is governed by Apache 2 LICENSE that can be found in the LICENSE file.

package search

import (
	"testing"

	"github.com/a-nogikh/symsearch/pkg/state"
	"github.com/stretchr/testify/assert"
)

func TestDFSSearcherOrder(t *testing.T) {
	s := NewDFSSearcher()
	assert.True(t, s.Empty())

	a, b, c := newTestState(t, 1), newTestState(t, 2), newTestState(t, 3)
	AddState(s, a)
	AddState(s, b)
	AddState(s, c)

	assert.Equal(t, c, s.Select())

	// Forking c produces two children; the most recently added should be
	// picked next, matching depth-first exploration.
	d, e := newTestState(t, 4), newTestState(t, 5)
	s.Update(c, []state.State{d, e}, []state.State{c})
	assert.Equal(t, e, s.Select())

	RemoveState(s, e)
	assert.Equal(t, d, s.Select())
}

func TestDFSSearcherRemoveNotOnTail(t *testing.T) {
	s := NewDFSSearcher()
	a, b, c := newTestState(t, 1), newTestState(t, 2), newTestState(t, 3)
	AddState(s, a)
	AddState(s, b)
	AddState(s, c)

	RemoveState(s, a)
	assert.Equal(t, c, s.Select())
	RemoveState(s, b)
	RemoveState(s, c)
	assert.True(t, s.Empty())
}

func TestDFSSearcherRemoveUntracked(t *testing.T) {
	s := NewDFSSearcher()
	AddState(s, newTestState(t, 1))
	assert.Panics(t, func() {
		RemoveState(s, newTestState(t, 2))
	})
}
