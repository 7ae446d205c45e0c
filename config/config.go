// Package config 站点配置信息
package config

// Initialize 触发本包各文件的 init，加载 config.Add 注册的配置块
func Initialize() {
	// 空函数即可
}
