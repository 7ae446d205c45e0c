// Package console 命令行辅助方法
package console

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// 颜色与样式
var (
	ColorPrimary = lipgloss.Color("#7C3AED")
	ColorAccent  = lipgloss.Color("#06B6D4")
	ColorMuted   = lipgloss.Color("#6C7086")
	ColorSuccess = lipgloss.Color("#A6E3A1")
	ColorWarning = lipgloss.Color("#F9E2AF")
	ColorError   = lipgloss.Color("#F38BA8")

	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorPrimary)
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarningStyle = lipgloss.NewStyle().Foreground(ColorWarning)
	ErrorStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	BoxStyle     = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(0, 1)
)

// Output 输出目标，测试时可替换
var Output io.Writer = os.Stdout

// Success 打印一条成功消息，绿色输出
func Success(msg string) {
	colorOut(SuccessStyle, "✓ "+msg)
}

// Error 打印一条报错消息，红色输出
func Error(msg string) {
	colorOut(ErrorStyle, "✗ "+msg)
}

// Warning 打印一条提示消息，黄色输出
func Warning(msg string) {
	colorOut(WarningStyle, "! "+msg)
}

// Info 打印普通消息
func Info(msg string) {
	fmt.Fprintln(Output, msg)
}

// Exit 打印一条报错消息，并退出 os.Exit(1)
func Exit(msg string) {
	Error(msg)
	os.Exit(1)
}

// ExitIf 语法糖，自带 err != nil 判断
func ExitIf(err error) {
	if err != nil {
		Exit(err.Error())
	}
}

// Title 带边框的标题
func Title(text string) string {
	return BoxStyle.Render(TitleStyle.Render(text))
}

// Wrap 按宽度折行，保留已有换行
func Wrap(text string, width int) string {
	if width <= 0 {
		return text
	}
	return ansi.Wordwrap(strings.TrimSpace(text), width, "")
}

// Indent 每行前加缩进
func Indent(text string, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if line != "" {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func colorOut(style lipgloss.Style, msg string) {
	fmt.Fprintln(Output, style.Render(msg))
}
