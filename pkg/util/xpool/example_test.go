package xpool_test

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/omeyang/xtp/pkg/util/xpool"
)

func Example() {
	var count atomic.Int32

	pool, err := xpool.New(2)
	if err != nil {
		panic(err)
	}

	for range 5 {
		if err := pool.Submit(xpool.Func(func() { count.Add(1) })); err != nil {
			fmt.Println("Submit error:", err)
		}
	}

	// Join 等待所有任务处理完成
	pool.Join()

	fmt.Println("Processed:", count.Load())
	// Output:
	// Processed: 5
}

func ExampleCurrent() {
	var sum atomic.Int64

	pool, err := xpool.New(4)
	if err != nil {
		panic(err)
	}

	// 任务通过 Current 找到所属 pool，递归拆分区间
	var split func(lo, hi int64) xpool.Task
	split = func(lo, hi int64) xpool.Task {
		return func(ctx context.Context) {
			if hi-lo <= 10 {
				for i := lo; i < hi; i++ {
					sum.Add(i)
				}
				return
			}
			mid := (lo + hi) / 2
			p := xpool.Current(ctx)
			_ = p.Submit(split(lo, mid))
			_ = p.Submit(split(mid, hi))
		}
	}

	_ = pool.Submit(split(1, 101))
	pool.Join()

	fmt.Println("Sum:", sum.Load())
	fmt.Println("Outside pool:", xpool.Current(context.Background()) == nil)
	// Output:
	// Sum: 5050
	// Outside pool: true
}

func ExamplePool_Shutdown() {
	pool, err := xpool.New(0)
	if err != nil {
		panic(err)
	}

	for range 3 {
		_ = pool.Submit(xpool.Func(func() {}))
	}

	// 没有 worker，任务全部被丢弃
	pool.Shutdown()

	fmt.Println("Dropped:", pool.Stats().Dropped)
	fmt.Println("Submit after shutdown:", pool.Submit(xpool.Func(func() {})))
	// Output:
	// Dropped: 3
	// Submit after shutdown: xpool: pool is closed
}
