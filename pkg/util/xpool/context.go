package xpool

import "context"

type workerKey struct{}

type workerInfo struct {
	pool *Pool
	id   int
}

func withWorker(ctx context.Context, p *Pool, id int) context.Context {
	return context.WithValue(ctx, workerKey{}, workerInfo{pool: p, id: id})
}

// Current 返回执行当前任务的 Pool。
//
// ctx 必须是任务收到的 ctx（或由其派生）；其他 context（包括 nil）返回 nil。
// 多个 Pool 嵌套提交时返回最内层，即实际执行任务的那个 Pool。
func Current(ctx context.Context) *Pool {
	if ctx == nil {
		return nil
	}
	w, ok := ctx.Value(workerKey{}).(workerInfo)
	if !ok {
		return nil
	}
	return w.pool
}

// WorkerID 返回执行当前任务的 worker 编号，范围 [0, workers)。
func WorkerID(ctx context.Context) (int, bool) {
	if ctx == nil {
		return 0, false
	}
	w, ok := ctx.Value(workerKey{}).(workerInfo)
	if !ok {
		return 0, false
	}
	return w.id, true
}
