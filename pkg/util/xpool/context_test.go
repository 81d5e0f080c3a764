package xpool

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type ctxKey struct{}

func TestCurrent_OutsidePool(t *testing.T) {
	assert.Nil(t, Current(context.Background()))
	assert.Nil(t, Current(nil)) //nolint:staticcheck // 测试 nil ctx 行为

	_, ok := WorkerID(context.Background())
	assert.False(t, ok)
	_, ok = WorkerID(nil) //nolint:staticcheck // 测试 nil ctx 行为
	assert.False(t, ok)
}

func TestCurrent_InsideTask(t *testing.T) {
	const workers = 3
	p := newTestPool(t, workers)

	type result struct {
		pool *Pool
		id   int
		ok   bool
	}
	results := make(chan result, 20)
	for range 20 {
		require.NoError(t, p.Submit(func(ctx context.Context) {
			id, ok := WorkerID(ctx)
			results <- result{pool: Current(ctx), id: id, ok: ok}
		}))
	}
	p.Join()
	close(results)

	for r := range results {
		assert.Same(t, p, r.pool)
		assert.True(t, r.ok)
		assert.GreaterOrEqual(t, r.id, 0)
		assert.Less(t, r.id, workers)
	}
}

func TestCurrent_MultiplePools(t *testing.T) {
	a := newTestPool(t, 2, WithName("a"))
	b := newTestPool(t, 2, WithName("b"))

	got := make(chan [2]*Pool, 1)
	require.NoError(t, a.Submit(func(ctx context.Context) {
		outer := Current(ctx)
		// 在 a 的任务中向 b 提交，b 的任务看到的是 b
		err := b.Submit(func(ctx context.Context) {
			got <- [2]*Pool{outer, Current(ctx)}
		})
		assert.NoError(t, err)
	}))

	a.Join()
	b.Join()

	pools := <-got
	assert.Same(t, a, pools[0])
	assert.Same(t, b, pools[1])
}

func TestWithContext_ValuesInherited(t *testing.T) {
	base, cancel := context.WithCancel(context.WithValue(context.Background(), ctxKey{}, "tenant-1"))
	cancel()

	p := newTestPool(t, 1, WithContext(base))

	got := make(chan any, 1)
	require.NoError(t, p.Submit(func(ctx context.Context) {
		assert.NoError(t, ctx.Err(), "父 context 的取消不应传递给任务")
		got <- ctx.Value(ctxKey{})
	}))
	p.Join()

	assert.Equal(t, "tenant-1", <-got)
}
