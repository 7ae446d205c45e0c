package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"tarot-agent/app/models/reading"
	"tarot-agent/app/requests"
	"tarot-agent/app/services"
	"tarot-agent/pkg/console"
)

var (
	readingSpread   string
	readingQuestion string
	readingName     string
)

// spreadChoices 交互菜单中的牌阵
var spreadChoices = []struct {
	label string
	kind  reading.SpreadKind
}{
	{"Single Card - Quick insight", reading.SpreadSingle},
	{"Three Cards - Past, Present, Future", reading.SpreadThreeCard},
	{"Relationship - Five card spread", reading.SpreadRelationship},
}

var readingCmd = &cobra.Command{
	Use:   "reading",
	Short: "Start a new tarot reading",
	Long: `Draws cards for a spread, stores the reading and asks for an interpretation.
Without --question the command runs interactively and offers follow-up questions.`,
	Args: cobra.NoArgs,
	RunE: runReading,
}

func init() {
	readingCmd.Flags().StringVarP(&readingSpread, "spread", "s", "", "spread kind: single, three_card or relationship")
	readingCmd.Flags().StringVarP(&readingQuestion, "question", "q", "", "question to ask the cards")
	readingCmd.Flags().StringVarP(&readingName, "name", "n", "", "name of the querent")
	rootCmd.AddCommand(readingCmd)
}

func runReading(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	if strings.TrimSpace(readingQuestion) != "" {
		req := requests.ReadingRequest{
			Question:    readingQuestion,
			SpreadKind:  readingSpread,
			QuerentName: readingName,
		}
		if req.SpreadKind == "" {
			req.SpreadKind = string(reading.SpreadSingle)
		}
		_, err := performReading(cmd, req)
		return err
	}

	p := newPrompter(cmd)
	for {
		again, err := interactiveReading(cmd, p)
		if err != nil || !again {
			return ignoreEOF(err)
		}
	}
}

// interactiveReading 一次完整的交互式占卜，返回是否开始新的占卜
func interactiveReading(cmd *cobra.Command, p *Prompter) (bool, error) {
	out := cmd.OutOrStdout()
	renderWelcome(out)

	name, err := p.Ask("What is your name?", "Seeker")
	if err != nil {
		return false, err
	}

	question, err := p.AskValid("What would you like to know about?", requests.ValidateInteractiveQuestion)
	if err != nil {
		return false, err
	}

	labels := make([]string, len(spreadChoices))
	for i, choice := range spreadChoices {
		labels[i] = choice.label
	}
	idx, err := p.Select("Choose your spread:", labels)
	if err != nil {
		return false, err
	}

	result, err := performReading(cmd, requests.ReadingRequest{
		Question:    question,
		SpreadKind:  string(spreadChoices[idx].kind),
		QuerentName: name,
	})
	if err != nil {
		return false, err
	}

	return followupLoop(cmd, p, result.Reading)
}

func performReading(cmd *cobra.Command, req requests.ReadingRequest) (*services.ReadingResult, error) {
	if err := requests.ValidateReading(&req); err != nil {
		return nil, fmt.Errorf("invalid reading request: %s", validationMessage(err))
	}

	ctx := commandContext(cmd)
	takeQuota(cmd)

	cmd.Println(console.MutedStyle.Render("🔮 Consulting the cards..."))
	result, err := readingService.Perform(ctx, req.Kind(), req.Question, req.QuerentName)
	if err != nil {
		return nil, fmt.Errorf("reading failed: %w", err)
	}
	cmd.Println(console.SuccessStyle.Render("✨ Reading complete!"))

	renderReading(cmd.OutOrStdout(), result)
	return result, nil
}

// followupLoop 追问菜单，返回是否开始新的占卜
func followupLoop(cmd *cobra.Command, p *Prompter, rd *reading.Reading) (bool, error) {
	out := cmd.OutOrStdout()
	for {
		choice, err := p.Select("What would you like to do?", []string{
			"Ask a follow-up question",
			"Start a new reading",
			"Exit",
		})
		if err != nil {
			return false, err
		}

		switch choice {
		case 1:
			return true, nil
		case 2:
			fmt.Fprintln(out, console.SuccessStyle.Render("Thank you for using Tarot Agent. Blessed be! ✨"))
			return false, nil
		}

		question, err := p.Ask("Your follow-up question:", "")
		if err != nil {
			return false, err
		}
		if question == "" {
			continue
		}

		answer, ok, err := askFollowup(cmd, rd.ID, question)
		if err != nil {
			return false, err
		}
		renderFollowup(out, answer, ok)
	}
}

func askFollowup(cmd *cobra.Command, id uint64, question string) (string, bool, error) {
	ctx := commandContext(cmd)
	takeQuota(cmd)

	cmd.Println(console.MutedStyle.Render("🔮 Consulting the cards..."))
	answer, ok, err := readingService.AskFollowup(ctx, id, question)
	if err != nil {
		if errors.Is(err, reading.ErrValidation) {
			return "", false, fmt.Errorf("invalid follow-up: %w", err)
		}
		return "", false, fmt.Errorf("follow-up failed: %w", err)
	}
	return answer, ok, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

// ignoreEOF 输入结束视为正常退出
func ignoreEOF(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
