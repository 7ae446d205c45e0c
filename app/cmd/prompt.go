package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"tarot-agent/pkg/console"
)

// Prompter 逐行读取终端输入
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewPrompter 创建 Prompter
func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

func newPrompter(cmd *cobra.Command) *Prompter {
	return NewPrompter(cmd.InOrStdin(), cmd.OutOrStdout())
}

// readLine 读取一行，输入结束且没有内容时返回 io.EOF
func (p *Prompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Ask 提问，空输入时返回默认值
func (p *Prompter) Ask(label, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Fprintf(p.out, "%s %s ", label, console.MutedStyle.Render("("+defaultValue+")"))
	} else {
		fmt.Fprintf(p.out, "%s ", label)
	}

	answer, err := p.readLine()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return defaultValue, nil
	}
	return answer, nil
}

// AskValid 重复提问直到 validate 通过
func (p *Prompter) AskValid(label string, validate func(string) error) (string, error) {
	for {
		answer, err := p.Ask(label, "")
		if err != nil {
			return "", err
		}
		if verr := validate(answer); verr != nil {
			fmt.Fprintln(p.out, console.WarningStyle.Render(validationMessage(verr)))
			continue
		}
		return answer, nil
	}
}

// Select 从编号选项中选择，返回下标
func (p *Prompter) Select(label string, options []string) (int, error) {
	fmt.Fprintln(p.out, console.HeaderStyle.Render(label))
	for i, option := range options {
		fmt.Fprintf(p.out, "  %d) %s\n", i+1, option)
	}

	for {
		fmt.Fprintf(p.out, "Choose [1-%d]: ", len(options))
		answer, err := p.readLine()
		if err != nil {
			return 0, err
		}
		n, convErr := strconv.Atoi(answer)
		if convErr == nil && n >= 1 && n <= len(options) {
			return n - 1, nil
		}
		fmt.Fprintln(p.out, console.WarningStyle.Render("Please enter a number from the list."))
	}
}

// YesNo 是 / 否确认
func (p *Prompter) YesNo(label string, defaultValue bool) (bool, error) {
	hint := "y/N"
	if defaultValue {
		hint = "Y/n"
	}

	for {
		fmt.Fprintf(p.out, "%s [%s] ", label, hint)
		answer, err := p.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultValue, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
	}
}
