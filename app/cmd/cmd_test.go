package cmd

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tarot-agent/app/models/reading"
	"tarot-agent/app/repositories"
	"tarot-agent/app/services"
	"tarot-agent/database/seeders"
	"tarot-agent/pkg/config"
	"tarot-agent/pkg/database/migrations"
	"tarot-agent/pkg/limiter"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/random"
)

type stubGateway struct {
	fail bool
}

func (g *stubGateway) Interpret(_ context.Context, _ []llm.CardContext, question, _ string) (string, bool) {
	if g.fail {
		return "", false
	}
	return "Interpretation of " + question, true
}

func (g *stubGateway) GenerateAdvice(context.Context, []llm.CardContext, string, string) (string, bool) {
	if g.fail {
		return "", false
	}
	return "Trust the process.", true
}

func (g *stubGateway) AskFollowup(_ context.Context, _ llm.ReadingContext, followup string) (string, bool) {
	if g.fail {
		return "", false
	}
	return "Answer to " + followup, true
}

// setupTestServices 注入 SQLite 临时库和桩网关，seed 为 false 时牌库为空
func setupTestServices(t *testing.T, seed bool) *stubGateway {
	t.Helper()

	testDB, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "cli.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, testDB.AutoMigrate(migrations.RegisterTables()...))
	if seed {
		_, err = seeders.SeedCards(testDB, false)
		require.NoError(t, err)
	}

	gateway := &stubGateway{}
	rng := random.NewSeeded(11)
	cards := repositories.NewCardRepository(testDB, rng)

	oldReadings, oldCards, oldDB, oldBootstrapped := readingService, cardRepository, db, bootstrapped
	readingService = services.NewReadingService(cards, repositories.NewReadingRepository(testDB), gateway, rng)
	cardRepository = cards
	db = testDB
	bootstrapped = true
	limiter.ResetStore()

	t.Cleanup(func() {
		readingService, cardRepository, db, bootstrapped = oldReadings, oldCards, oldDB, oldBootstrapped
		limiter.ResetStore()
		resetFlags()
	})
	return gateway
}

// resetFlags 恢复所有子命令的默认参数，并清除 Changed 标记
func resetFlags() {
	for _, c := range rootCmd.Commands() {
		c.Flags().VisitAll(func(f *pflag.Flag) {
			_ = f.Value.Set(f.DefValue)
			f.Changed = false
		})
	}
}

// run 执行命令，返回去掉样式后的输出
func run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	resetFlags()

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetIn(strings.NewReader(input))
	rootCmd.SetArgs(args)
	defer func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetIn(nil)
	}()

	err := rootCmd.ExecuteContext(context.Background())
	return ansi.Strip(buf.String()), err
}

func performTestReading(t *testing.T, kind reading.SpreadKind) *services.ReadingResult {
	t.Helper()
	result, err := readingService.Perform(context.Background(), kind, "What lies ahead?", "Sam")
	require.NoError(t, err)
	return result
}

func TestVersionCmd_Executes(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "Tarot Agent v")
}

func TestReadingCmd_WithFlags(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "reading", "--spread", "three_card", "--question", "Will it work?", "--name", "Sam")
	require.NoError(t, err)

	assert.Contains(t, out, "Reading #1")
	assert.Contains(t, out, "For: Sam")
	assert.Contains(t, out, "Past:")
	assert.Contains(t, out, "Future:")
	assert.Contains(t, out, "Interpretation of Will it work?")
	assert.Contains(t, out, "Trust the process.")

	recent, err := readingService.RecentReadings(context.Background(), 5)
	require.NoError(t, err)
	require.Len(t, recent, 1)
	assert.Len(t, recent[0].DrawnCards, 3)
}

func TestReadingCmd_DefaultsToSingleCard(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "reading", "-q", "Anything today?")
	require.NoError(t, err)
	assert.Contains(t, out, "Single Card Draw")
	assert.Contains(t, out, "Present Situation:")
}

func TestReadingCmd_RejectsUnknownSpread(t *testing.T) {
	setupTestServices(t, true)

	_, err := run(t, "", "reading", "--spread", "celtic_cross", "--question", "Will it work?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reading request")

	recent, err := readingService.RecentReadings(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, recent)
}

func TestReadingCmd_GatewayFailureShowsHint(t *testing.T) {
	gateway := setupTestServices(t, true)
	gateway.fail = true

	out, err := run(t, "", "reading", "-q", "Will it work?")
	require.NoError(t, err)
	assert.Contains(t, out, "tarot-agent reinterpret 1")
	assert.NotContains(t, out, "Advice:")
}

func TestReadingCmd_EmptyDeck(t *testing.T) {
	setupTestServices(t, false)

	out, err := run(t, "", "reading", "-q", "Will it work?")
	require.NoError(t, err)
	assert.Contains(t, out, "The deck is empty")
}

func TestReadingCmd_Interactive(t *testing.T) {
	setupTestServices(t, true)

	input := strings.Join([]string{
		"Sam",                   // 名字
		"short",                 // 太短，重新提问
		"What about my career?", // 问题
		"2",                     // 三张牌
		"1",                     // 追问
		"And money?",
		"3", // 退出
	}, "\n") + "\n"

	out, err := run(t, input, "reading")
	require.NoError(t, err)

	assert.Contains(t, out, "TAROT AGENT")
	assert.Contains(t, out, "at least 6 characters")
	assert.Contains(t, out, "Interpretation of What about my career?")
	assert.Contains(t, out, "Answer to And money?")
	assert.Contains(t, out, "Blessed be")
}

func TestReadingCmd_InteractiveEndsOnEOF(t *testing.T) {
	setupTestServices(t, true)

	_, err := run(t, "Sam\n", "reading")
	assert.NoError(t, err)
}

func TestFollowupCmd(t *testing.T) {
	setupTestServices(t, true)
	result := performTestReading(t, reading.SpreadSingle)

	out, err := run(t, "", "followup", "1", "what", "next?")
	require.NoError(t, err)
	assert.Contains(t, out, "Answer to what next?")

	again, err := readingService.GetReading(context.Background(), result.Reading.ID)
	require.NoError(t, err)
	assert.Equal(t, result.Reading.InterpretationText(), again.InterpretationText())
}

func TestFollowupCmd_Errors(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "followup", "42", "anything?")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #42 not found")
	assert.NotContains(t, out, "Consulting the cards")

	_, err = run(t, "", "followup", "abc", "anything?")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid reading id")

	_, err = run(t, "", "followup", "1")
	require.Error(t, err)
}

func TestFollowupCmd_GatewayUnavailable(t *testing.T) {
	gateway := setupTestServices(t, true)
	performTestReading(t, reading.SpreadSingle)
	gateway.fail = true

	out, err := run(t, "", "followup", "1", "anything?")
	require.NoError(t, err)
	assert.Contains(t, out, "The cards are silent")
}

func TestReinterpretCmd(t *testing.T) {
	gateway := setupTestServices(t, true)
	gateway.fail = true
	result := performTestReading(t, reading.SpreadThreeCard)
	require.Equal(t, reading.StatusFailed, result.Reading.InterpretationStatus)

	gateway.fail = false
	out, err := run(t, "", "reinterpret", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Interpretation of What lies ahead?")

	out, err = run(t, "", "reinterpret", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #7 not found")
}

func TestReinterpretCmd_MissingReadingKeepsQuota(t *testing.T) {
	gateway := setupTestServices(t, true)
	config.Set("limiter.reading_quota", "1-H")
	t.Cleanup(func() { config.Set("limiter.reading_quota", "") })

	out, err := run(t, "", "reinterpret", "7")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #7 not found")

	gateway.fail = true
	performTestReading(t, reading.SpreadSingle)
	gateway.fail = false

	out, err = run(t, "", "reinterpret", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Interpretation of What lies ahead?")
	assert.NotContains(t, out, "quota")
}

func TestReadingCmd_QuotaReachedStillReads(t *testing.T) {
	setupTestServices(t, true)
	config.Set("limiter.reading_quota", "1-H")
	t.Cleanup(func() { config.Set("limiter.reading_quota", "") })

	out, err := run(t, "", "reading", "-q", "First question?", "-s", "single")
	require.NoError(t, err)
	assert.NotContains(t, out, "quota")

	out, err = run(t, "", "reading", "-q", "Second question?", "-s", "single")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading quota of 1-H reached")
	assert.Contains(t, out, "Interpretation of Second question?")

	readings, err := readingService.RecentReadings(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, readings, 2)

	out, err = run(t, "", "followup", "1", "and then?")
	require.NoError(t, err)
	assert.Contains(t, out, "Answer to and then?")
}

func TestHistoryCmd(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "No readings found")

	performTestReading(t, reading.SpreadSingle)
	performTestReading(t, reading.SpreadRelationship)

	out, err = run(t, "n\n", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: 1")
	assert.Contains(t, out, "ID: 2")
	assert.Less(t, strings.Index(out, "ID: 2"), strings.Index(out, "ID: 1"))

	out, err = run(t, "y\n1\n3\n", "history")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #1")
	assert.Contains(t, out, "Blessed be")
}

func TestHistoryCmd_ByID(t *testing.T) {
	setupTestServices(t, true)
	performTestReading(t, reading.SpreadRelationship)

	out, err := run(t, "", "history", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #1")
	assert.Contains(t, out, "Relationship")

	out, err = run(t, "", "history", "--id", "9")
	require.NoError(t, err)
	assert.Contains(t, out, "Reading #9 not found")
}

func TestHistoryCmd_BySpread(t *testing.T) {
	setupTestServices(t, true)
	performTestReading(t, reading.SpreadSingle)
	performTestReading(t, reading.SpreadRelationship)
	performTestReading(t, reading.SpreadSingle)

	out, err := run(t, "n\n", "history", "--spread", "single")
	require.NoError(t, err)
	assert.Contains(t, out, "Single Card Draw")
	assert.Contains(t, out, "ID: 1")
	assert.Contains(t, out, "ID: 3")
	assert.NotContains(t, out, "ID: 2")

	out, err = run(t, "n\n", "history", "--spread", "single", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "ID: 3")
	assert.NotContains(t, out, "ID: 1")

	out, err = run(t, "", "history", "--spread", "celtic_cross")
	require.NoError(t, err)
	assert.Contains(t, out, "No readings found")

	_, err = run(t, "", "history", "--spread", "tea_leaves")
	require.Error(t, err)
	assert.ErrorIs(t, err, reading.ErrValidation)
}

func TestCardsCmd_Filters(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "cards", "--major")
	require.NoError(t, err)
	assert.Contains(t, out, "The Fool")
	assert.NotContains(t, out, "Ace of Cups")

	out, err = run(t, "", "cards", "--minor", "--suit", "cups")
	require.NoError(t, err)
	assert.Contains(t, out, "Ace of Cups")
	assert.NotContains(t, out, "The Fool")

	_, err = run(t, "", "cards", "--suit", "coins")
	assert.Error(t, err)

	_, err = run(t, "", "cards", "--major", "--minor")
	assert.Error(t, err)
}

func TestCardsCmd_Detail(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "", "cards", "--id", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "The Fool")
	assert.Contains(t, out, "Upright Meaning:")
	assert.Contains(t, out, "Reversed Meaning:")

	_, err = run(t, "", "cards", "--id", "999")
	require.Error(t, err)

	out, err = run(t, "", "cards", "--random")
	require.NoError(t, err)
	assert.Contains(t, out, "Keywords:")
}

func TestCardsCmd_Interactive(t *testing.T) {
	setupTestServices(t, true)

	out, err := run(t, "2\n1\ny\n1\n", "cards")
	require.NoError(t, err)
	assert.Contains(t, out, "Cups - Emotions & Relationships")
	assert.Contains(t, out, "Ace of Cups")
	assert.Contains(t, out, "Upright Meaning:")
}

func TestSeedCmd(t *testing.T) {
	setupTestServices(t, false)

	out, err := run(t, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 26 cards, the catalog now holds 26.")

	out, err = run(t, "", "seed")
	require.NoError(t, err)
	assert.Contains(t, out, "already seeded (26 cards)")

	out, err = run(t, "", "seed", "--force")
	require.NoError(t, err)
	assert.Contains(t, out, "Seeded 26 cards")
}

func TestMigrateCmd(t *testing.T) {
	setupTestServices(t, false)

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "up to date")
}

func TestCommandsRequireServices(t *testing.T) {
	oldBootstrapped := bootstrapped
	bootstrapped = true
	defer func() { bootstrapped = oldBootstrapped }()

	oldReadings := readingService
	readingService = nil
	defer func() { readingService = oldReadings }()

	_, err := run(t, "", "reading", "-q", "Will it work?")
	assert.ErrorIs(t, err, errNotConfigured)
}
