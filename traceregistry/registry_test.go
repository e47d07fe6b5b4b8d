package traceregistry

import (
	"context"
	"sync"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpanBasics(t *testing.T) {
	r := New()
	root := r.NewSpan("root", nil)
	child := r.NewSpan("child", root)

	assert.Equal(t, "root", root.Name())
	assert.NotEqual(t, root.ID(), child.ID())

	p, ok := child.Parent()
	require.True(t, ok)
	assert.Same(t, root, p)

	_, ok = root.Parent()
	assert.False(t, ok)

	got, ok := r.Span(child.ID())
	require.True(t, ok)
	assert.Same(t, child, got)
}

func TestAncestorsAndScope(t *testing.T) {
	r := New()
	root := r.NewSpan("root", nil)
	mid := r.NewSpan("mid", root)
	leaf := r.NewSpan("leaf", mid)

	ancestors, err := leaf.Ancestors()
	require.NoError(t, err)
	require.Len(t, ancestors, 2)
	assert.Same(t, mid, ancestors[0])
	assert.Same(t, root, ancestors[1])

	scope, err := leaf.Scope()
	require.NoError(t, err)
	require.Len(t, scope, 3)
	assert.Same(t, root, scope[0])
	assert.Same(t, mid, scope[1])
	assert.Same(t, leaf, scope[2])
}

func TestDoneStopsChain(t *testing.T) {
	r := New()
	root := r.NewSpan("root", nil)
	child := r.NewSpan("child", root)
	root.Done()

	_, ok := r.Span(root.ID())
	assert.False(t, ok)

	// A released parent simply drops out of the walk.
	_, ok = child.Parent()
	assert.False(t, ok)
	ancestors, err := child.Ancestors()
	require.NoError(t, err)
	assert.Empty(t, ancestors)
}

func TestParentCycleDetected(t *testing.T) {
	r := New()
	a := r.NewSpan("a", nil)
	b := r.NewSpan("b", a)
	a.parent = b.id

	_, err := b.Ancestors()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMaxDepth))

	_, err = b.Scope()
	assert.True(t, errors.Is(err, ErrMaxDepth))
}

func TestContextCarriesSpan(t *testing.T) {
	r := New()
	span := r.NewSpan("here", nil)

	_, ok := SpanFromContext(context.Background())
	assert.False(t, ok)

	ctx := ContextWithSpan(context.Background(), span)
	got, ok := SpanFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, span, got)
}

func TestUpdateFields(t *testing.T) {
	r := New()
	span := r.NewSpan("s", nil)
	assert.Empty(t, span.Fields())

	require.NoError(t, span.UpdateFields(func(current []byte) ([]byte, error) {
		assert.Empty(t, current)
		return []byte(`{"a":1}`), nil
	}))
	assert.Equal(t, `{"a":1}`, string(span.Fields()))

	// A failing update leaves the stored data untouched.
	boom := errors.New("boom")
	err := span.UpdateFields(func([]byte) ([]byte, error) {
		return nil, boom
	})
	assert.Same(t, boom, errors.Cause(err))
	assert.Equal(t, `{"a":1}`, string(span.Fields()))
}

func TestUpdateFieldsExclusive(t *testing.T) {
	const writers = 8
	const perWriter = 100
	r := New()
	span := r.NewSpan("s", nil)

	var wg sync.WaitGroup
	for w := 0; w < writers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWriter; i++ {
				_ = span.UpdateFields(func(current []byte) ([]byte, error) {
					return append(current, 'x'), nil
				})
			}
		}()
	}
	wg.Wait()
	assert.Len(t, span.Fields(), writers*perWriter)
}

func TestFieldsSnapshot(t *testing.T) {
	r := New()
	span := r.NewSpan("s", nil)
	require.NoError(t, span.UpdateFields(func([]byte) ([]byte, error) {
		return []byte(`{"a":1}`), nil
	}))
	snap := span.Fields()
	snap[2] = 'z'
	assert.Equal(t, `{"a":1}`, string(span.Fields()))
}
