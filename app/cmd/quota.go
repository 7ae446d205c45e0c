package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tarot-agent/pkg/config"
	"tarot-agent/pkg/console"
	"tarot-agent/pkg/limiter"
	"tarot-agent/pkg/logger"
)

// cliQuotaKey 命令行共享同一个配额键，启用 Redis 时跨进程生效
const cliQuotaKey = "cli:readings"

// takeQuota 每次调用模型前消耗一次配额
// 配额用尽或限流存储异常只提示，不中断占卜
func takeQuota(cmd *cobra.Command) {
	formatted := config.GetString("limiter.reading_quota", "30-H")

	lctx, err := limiter.Take(commandContext(cmd), cliQuotaKey, formatted)
	if err != nil {
		logger.WarnString("Limiter", "CLI", err.Error())
		return
	}
	if lctx.Reached {
		logger.WarnString("Limiter", "CLI", fmt.Sprintf("命令行占卜配额已用尽 配额:%s", formatted))
		cmd.Println(console.WarningStyle.Render(fmt.Sprintf(
			"! Reading quota of %s reached (resets at %s), continuing anyway.",
			formatted, time.Unix(lctx.Reset, 0).Format(time.Kitchen))))
	}
}
