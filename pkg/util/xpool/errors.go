package xpool

import "errors"

var (
	// ErrNilTask 表示提交的任务为 nil。
	ErrNilTask = errors.New("xpool: task cannot be nil")

	// ErrPoolClosed 表示任务队列已关闭（Join 或 Shutdown 已开始），任务未被接受。
	ErrPoolClosed = errors.New("xpool: pool is closed")

	// ErrInvalidWorkers 表示 worker 数量无效。
	ErrInvalidWorkers = errors.New("xpool: invalid worker count")

	// ErrNilOption 表示传入了 nil 的 Option。
	ErrNilOption = errors.New("xpool: nil option")

	// ErrJoinFromWorker 表示在本 pool 的任务内调用了 Join 或 Shutdown，这会死锁。
	ErrJoinFromWorker = errors.New("xpool: join or shutdown called from own worker")

	// ErrCreateInstrument 表示创建 OTel 指标失败。
	ErrCreateInstrument = errors.New("xpool: create instrument failed")
)
