package xpool

// Stats 是 Pool 运行状态的快照。
type Stats struct {
	// Workers 为尚未退出的 worker 数。
	Workers int `json:"workers"`
	// Queued 为队列中等待执行的任务数。
	Queued int `json:"queued"`
	// Active 为正在执行的任务数。
	Active int64 `json:"active"`
	// Submitted 为被接受的任务总数。
	Submitted int64 `json:"submitted"`
	// Executed 为已执行完毕的任务总数（含 panic 的任务）。
	Executed int64 `json:"executed"`
	// Dropped 为 Shutdown 丢弃的任务总数。
	Dropped int64 `json:"dropped"`
	// Rejected 为关闭后被拒绝的提交次数。
	Rejected int64 `json:"rejected"`
	// Panics 为 panic 的任务数。
	Panics int64 `json:"panics"`
}

// Stats 返回当前状态快照。各字段分别读取，彼此之间不保证原子一致。
func (p *Pool) Stats() Stats {
	p.mu.Lock()
	live := p.live
	p.mu.Unlock()

	return Stats{
		Workers:   live,
		Queued:    p.queue.Len(),
		Active:    p.active.Load(),
		Submitted: p.submitted.Load(),
		Executed:  p.executed.Load(),
		Dropped:   p.dropped.Load(),
		Rejected:  p.rejected.Load(),
		Panics:    p.panics.Load(),
	}
}
