// Package util 提供任务调度相关的子包。
//
// 子包列表：
//   - xqueue: 无界阻塞 MPMC 队列，支持 Close（取尽后停止）和 Cancel（立即丢弃）
//   - xpool: 固定大小的 worker pool，Join 优雅关闭、Shutdown 立即关闭、Current 定位所属 pool
//
// 依赖方向：xpool → xqueue。
package util
