package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
)

var followupCmd = &cobra.Command{
	Use:   "followup <reading-id> <question>",
	Short: "Ask a follow-up question about a reading",
	Long: `Asks a follow-up question about a stored reading. The reading itself is
never changed; when Redis is enabled the exchange is kept for a while.`,
	Args: cobra.MinimumNArgs(2),
	RunE: runFollowup,
}

var reinterpretCmd = &cobra.Command{
	Use:   "reinterpret <reading-id>",
	Short: "Retry the interpretation of a stored reading",
	Long: `Asks again for the interpretation and advice of a reading whose earlier
attempt failed, using the cards that were drawn at the time.`,
	Args: cobra.ExactArgs(1),
	RunE: runReinterpret,
}

func init() {
	rootCmd.AddCommand(followupCmd)
	rootCmd.AddCommand(reinterpretCmd)
}

func parseReadingID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid reading id %q", raw)
	}
	return id, nil
}

func runFollowup(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	id, err := parseReadingID(args[0])
	if err != nil {
		return err
	}

	found, err := readingExists(cmd, id)
	if err != nil || !found {
		return err
	}

	answer, ok, err := askFollowup(cmd, id, strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	renderFollowup(cmd.OutOrStdout(), answer, ok)
	return nil
}

func runReinterpret(cmd *cobra.Command, args []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	id, err := parseReadingID(args[0])
	if err != nil {
		return err
	}

	found, err := readingExists(cmd, id)
	if err != nil || !found {
		return err
	}

	takeQuota(cmd)
	result, err := readingService.Reinterpret(commandContext(cmd), id)
	if err != nil {
		return fmt.Errorf("reinterpret failed: %w", err)
	}
	if result == nil {
		renderReadingNotFound(cmd.OutOrStdout(), id)
		return nil
	}
	renderReading(cmd.OutOrStdout(), result)
	return nil
}

// readingExists 记录不存在时只提示，不作为错误
func readingExists(cmd *cobra.Command, id uint64) (bool, error) {
	rd, err := readingService.GetReading(commandContext(cmd), id)
	if err != nil {
		return false, fmt.Errorf("could not load reading #%d: %w", id, err)
	}
	if rd == nil {
		renderReadingNotFound(cmd.OutOrStdout(), id)
		return false, nil
	}
	return true, nil
}
