// Package cmd 命令行入口
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"tarot-agent/app/repositories"
	"tarot-agent/app/services"
	"tarot-agent/bootstrap"
	btsConfig "tarot-agent/config"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/console"
	"tarot-agent/pkg/database"
)

// annotationSkipBootstrap 标记不需要初始化存储的命令
const annotationSkipBootstrap = "skip-bootstrap"

var (
	envName string

	// 由 setupApp 注入，测试可直接替换
	readingService *services.ReadingService
	cardRepository *repositories.CardRepository
	db             *gorm.DB
	bootstrapped   bool
)

var rootCmd = &cobra.Command{
	Use:   "tarot-agent",
	Short: "A command-line tarot reader with AI interpretations",
	Long: `Tarot Agent draws cards for single, three-card and relationship spreads,
stores every reading and asks a language model for an interpretation,
advice and answers to follow-up questions.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupApp,
}

func init() {
	// 加载 config 目录下的配置信息
	btsConfig.Initialize()

	rootCmd.PersistentFlags().StringVarP(&envName, "env", "e", "", "load .env.<env>, e.g. --env=testing loads .env.testing")
}

// Execute 执行根命令，SIGINT / SIGTERM 会取消命令上下文
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		console.Exit(err.Error())
	}
}

// setupApp 初始化配置、日志、存储和服务
func setupApp(cmd *cobra.Command, _ []string) error {
	if bootstrapped || cmd.Annotations[annotationSkipBootstrap] == "true" ||
		cmd.Name() == "help" || cmd.Name() == "completion" {
		return nil
	}

	config.InitConfig(envName)
	bootstrap.SetupLogger()

	if err := bootstrap.SetupDB(); err != nil {
		return fmt.Errorf("could not open the reading store (%s connection): %w",
			config.GetString("database.connection"), err)
	}

	// Redis 只承载追问记录和限流，连接失败时降级
	if err := bootstrap.SetupRedis(); err != nil {
		console.Warning("Redis unavailable, follow-up transcripts will not be kept")
	}

	svc := bootstrap.SetupServices(bootstrap.SetupLLM())
	readingService, cardRepository, db = svc.Readings, svc.Cards, database.DB
	bootstrapped = true
	return nil
}

// errNotConfigured 服务未初始化
var errNotConfigured = errors.New("reading store not configured")

func requireServices() error {
	if readingService == nil || cardRepository == nil {
		return errNotConfigured
	}
	return nil
}
