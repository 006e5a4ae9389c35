package interner

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringInterner_InternIsIdempotent(t *testing.T) {
	in := NewStringInterner()
	a := in.Intern("foo")
	b := in.Intern("foo")
	assert.Equal(t, a, b)
	assert.Equal(t, "foo", in.Lookup(a))
}

func TestStringInterner_DistinctStringsGetDistinctIDs(t *testing.T) {
	in := NewStringInterner()
	a := in.Intern("foo")
	b := in.Intern("bar")
	assert.NotEqual(t, a, b)
	assert.Equal(t, 2, in.Len())
}

func TestStringInterner_LookupPanicsOnUnknownID(t *testing.T) {
	in := NewStringInterner()
	assert.Panics(t, func() { in.Lookup(StringID(99)) })
}

func TestStringInterner_ConcurrentInternIsSafe(t *testing.T) {
	in := NewStringInterner()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			in.Intern("shared")
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, in.Len(), "concurrent interning of the same string must not allocate duplicate ids")
}

func TestTagInterner_InternIsIdempotent(t *testing.T) {
	in := NewTagInterner()
	a := in.Intern("Ok")
	b := in.Intern("Ok")
	assert.Equal(t, a, b)
	assert.Equal(t, "Ok", in.Lookup(a))
}
