package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"tarot-agent/app/models/reading"
	"tarot-agent/app/services"
	"tarot-agent/pkg/console"
)

var (
	historyID     uint64
	historyLimit  int
	historySpread string
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View your recent readings",
	Long: `Lists recent readings, newest first. Use --id to open a single reading
and continue asking follow-up questions about it, or --spread to list only
readings of one spread type.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().Uint64Var(&historyID, "id", 0, "show a single reading")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 10, "number of readings to list")
	historyCmd.Flags().StringVarP(&historySpread, "spread", "s", "", "only list readings of this spread type")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	p := newPrompter(cmd)
	if historyID != 0 {
		return ignoreEOF(openReading(cmd, p, historyID))
	}

	out := cmd.OutOrStdout()
	readings, err := listReadings(cmd, out)
	if err != nil {
		return fmt.Errorf("could not load readings: %w", err)
	}
	if len(readings) == 0 {
		fmt.Fprintln(out, console.WarningStyle.Render(`No readings found. Start with "tarot-agent reading"`))
		return nil
	}
	for i := range readings {
		renderReadingSummary(out, &readings[i])
	}

	view, err := p.YesNo("Would you like to view a full reading?", false)
	if err != nil || !view {
		return ignoreEOF(err)
	}

	raw, err := p.AskValid("Enter reading ID:", func(value string) error {
		_, convErr := strconv.ParseUint(value, 10, 64)
		return convErr
	})
	if err != nil {
		return ignoreEOF(err)
	}
	id, _ := strconv.ParseUint(raw, 10, 64)
	return ignoreEOF(openReading(cmd, p, id))
}

// listReadings 按 --spread 选择全部记录或单一牌阵的记录
func listReadings(cmd *cobra.Command, out io.Writer) ([]reading.Reading, error) {
	if historySpread == "" {
		fmt.Fprintln(out, console.TitleStyle.Render("📚 Recent Readings"))
		return readingService.RecentReadings(commandContext(cmd), historyLimit)
	}

	kind := reading.SpreadKind(historySpread)
	if !kind.Valid() {
		return nil, fmt.Errorf("%w: unknown spread kind %q", reading.ErrValidation, historySpread)
	}
	fmt.Fprintln(out, console.TitleStyle.Render("📚 Recent Readings · "+kind.Description()))
	return readingService.ReadingsBySpread(commandContext(cmd), kind, historyLimit)
}

// openReading 展示单条记录并进入追问菜单
func openReading(cmd *cobra.Command, p *Prompter, id uint64) error {
	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	rd, err := readingService.GetReading(ctx, id)
	if err != nil {
		return fmt.Errorf("could not load reading #%d: %w", id, err)
	}
	if rd == nil {
		renderReadingNotFound(out, id)
		return nil
	}

	if err := showReading(cmd, rd); err != nil {
		return err
	}

	again, err := followupLoop(cmd, p, rd)
	if err != nil || !again {
		return err
	}
	for again {
		again, err = interactiveReading(cmd, p)
		if err != nil {
			return err
		}
	}
	return nil
}

func showReading(cmd *cobra.Command, rd *reading.Reading) error {
	ctx := commandContext(cmd)
	cards, err := readingService.ReadingCards(ctx, rd)
	if err != nil {
		return fmt.Errorf("could not load cards for reading #%d: %w", rd.ID, err)
	}
	renderReading(cmd.OutOrStdout(), &services.ReadingResult{Reading: rd, Cards: cards})

	exchanges, err := readingService.Followups(ctx, rd.ID)
	if err != nil {
		return fmt.Errorf("could not load follow-ups: %w", err)
	}
	renderTranscript(cmd.OutOrStdout(), exchanges)
	return nil
}
