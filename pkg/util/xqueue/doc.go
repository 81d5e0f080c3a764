// Package xqueue 提供无界阻塞的多生产者/多消费者 FIFO 队列。
//
// Queue 是 xpool 的同步原语：生产者 Put，消费者 Take，
// Take 在队列为空且未关闭时阻塞。
//
// # 关闭语义
//
//   - Close：标记关闭并唤醒所有等待者，已缓冲的元素仍可被 Take 取走，取尽后 Take 返回 false
//   - Cancel：标记关闭、唤醒所有等待者并丢弃全部已缓冲元素，Take 立即返回 false
//
// 关闭是单向的，重复调用 Close/Cancel 合法。关闭后的 Put 返回 false，元素不会入队，
// 其处置由调用方决定。
//
// # 注意事项
//
//   - 队列无界，没有背压；生产速度持续高于消费速度会导致内存增长
//   - 多个消费者并发 Take 时每个元素只交付给一个调用方，FIFO 顺序以出队顺序为准
//   - 所有操作共用一把互斥锁，锁只在 O(1) 的缓冲操作期间持有
package xqueue
