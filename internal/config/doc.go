// Package config 加载 xtpctl 的运行配置。
//
// 配置来源为 YAML 或 JSON（由文件扩展名或显式 Format 决定），通过 koanf 解析。
// 文件中未出现的字段保留 Default 中的默认值。
//
// 示例：
//
//	pool:
//	  workers: 8
//	  name: demo
//	log:
//	  level: debug
//	  format: json
//	workload:
//	  tasks: 1000
//	  depth: 2
//	  fanout: 2
//	  work: 5ms
//	  mode: join
package config
