// Package app 提供应用程序相关的辅助函数
package app

import (
	"time"

	"tarot-agent/pkg/config"
)

// Version 应用版本号，构建时可通过 -ldflags "-X tarot-agent/pkg/app.Version=x.y.z" 覆盖
var Version = "1.0.0"

// IsLocal 判断当前是否运行在本地环境
func IsLocal() bool {
	return config.Get("app.env") == "local"
}

// IsTesting 判断当前是否运行在测试环境
func IsTesting() bool {
	return config.Get("app.env") == "testing"
}

// TimenowInTimezone 获取当前时间（支持时区设置）
// 从配置文件读取 app.timezone 配置项来确定时区，时区无效时使用本地时间
func TimenowInTimezone() time.Time {
	location, err := time.LoadLocation(config.GetString("app.timezone"))
	if err != nil {
		return time.Now()
	}
	return time.Now().In(location)
}
