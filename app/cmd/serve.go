package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"tarot-agent/bootstrap"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/console"
	"tarot-agent/pkg/logger"
)

// shutdownTimeout 优雅关闭等待时间
const shutdownTimeout = 5 * time.Second

var servePort string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the reading API over HTTP",
	Long:  `Starts the JSON API under /v1 and shuts down gracefully on SIGINT or SIGTERM.`,
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&servePort, "port", "p", "", "port to listen on (defaults to APP_PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	port := servePort
	if port == "" {
		port = config.GetString("app.port", "3000")
	}

	// 非调试模式下减少 gin 的输出
	if !config.GetBool("app.debug") {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	bootstrap.SetupRoute(router, &bootstrap.Services{
		Readings: readingService,
		Cards:    cardRepository,
	})

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return listenAndShutdown(commandContext(cmd), cmd, server)
}

// listenAndShutdown 启动服务，ctx 取消后优雅关闭
func listenAndShutdown(ctx context.Context, cmd *cobra.Command, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		logger.InfoString("Server", "Start", "服务器正在启动，监听地址 "+server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	cmd.Println(console.SuccessStyle.Render(fmt.Sprintf("✓ Listening on %s", server.Addr)))

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.InfoString("Server", "Shutdown", "正在关闭服务器...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	logger.InfoString("Server", "Shutdown", "服务器已成功关闭")
	cmd.Println("Server stopped.")
	return nil
}
