package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/random"
)

var fixedNow = time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)

func newTestService(catalogSize int, gateway *stubGateway, opts ...Option) (*ReadingService, *fakeCatalog, *fakeStore) {
	catalog := newFakeCatalog(catalogSize)
	store := newFakeStore()
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewReadingService(catalog, store, gateway, random.NewSeeded(2024), opts...), catalog, store
}

func TestSingleCardScenario(t *testing.T) {
	gateway := okGateway()
	svc, _, store := newTestService(22, gateway)

	result, err := svc.SingleCardReading(context.Background(), "What should I focus on today?", "")
	require.NoError(t, err)

	rd := result.Reading
	assert.Equal(t, reading.SpreadSingle, rd.SpreadKind)
	require.Len(t, rd.DrawnCards, 1)
	assert.Equal(t, "Present Situation", rd.DrawnCards[0].Position)
	assert.Nil(t, rd.QuerentName)
	assert.Equal(t, fixedNow, rd.PerformedAt)

	stored := store.readings[rd.ID]
	assert.Equal(t, "The cards speak of change.", stored.InterpretationText())
	assert.Equal(t, "Take one small step.", stored.AdviceText())
	assert.Equal(t, reading.StatusSucceeded, stored.InterpretationStatus)
	assert.Equal(t, reading.StatusSucceeded, stored.AdviceStatus)
	assert.Equal(t, 1, gateway.interpretCalls)
	assert.Equal(t, 1, gateway.adviceCalls)
	assert.Equal(t, "single", gateway.lastSpread)
	assert.Equal(t, "The cards speak of change.", gateway.lastAdviceText)
}

func TestThreeCardDegradedDraw(t *testing.T) {
	svc, _, _ := newTestService(1, okGateway())

	result, err := svc.ThreeCardReading(context.Background(), "Where am I heading?", "Sam")
	require.NoError(t, err)
	require.Len(t, result.Reading.DrawnCards, 1)
	assert.Equal(t, "Past", result.Reading.DrawnCards[0].Position)
	assert.Equal(t, "Sam", result.Reading.Querent())
	assert.Len(t, result.Cards, 1)
}

func TestRelationshipPositions(t *testing.T) {
	svc, _, _ := newTestService(22, okGateway())

	result, err := svc.RelationshipReading(context.Background(), "How are we doing?", "")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"You", "Partner", "Connection", "Challenge", "Outcome"},
		result.Reading.DrawnCards.Positions())
}

func TestDrawSizesAndDistinctness(t *testing.T) {
	for _, kind := range reading.DrawableKinds {
		spread, _ := reading.SpreadFor(kind)
		for _, size := range []int{1, 2, 3, 5, 26} {
			svc, _, _ := newTestService(size, okGateway())

			result, err := svc.Perform(context.Background(), kind, "Question?", "")
			require.NoError(t, err)

			refs := result.Reading.DrawnCards
			assert.Len(t, refs, min(size, spread.Count()), "%s with %d cards", kind, size)

			seen := map[uint64]bool{}
			for _, ref := range refs {
				assert.False(t, seen[ref.CardID], "duplicate card in %s", kind)
				seen[ref.CardID] = true
			}
			if size >= spread.Count() {
				assert.Equal(t, spread.Positions, refs.Positions())
			}
		}
	}
}

func TestReversedFlagsVary(t *testing.T) {
	svc, _, _ := newTestService(1, okGateway())

	seen := map[bool]int{}
	for i := 0; i < 60; i++ {
		result, err := svc.SingleCardReading(context.Background(), "Question?", "")
		require.NoError(t, err)
		seen[result.Reading.DrawnCards[0].Reversed]++
	}
	assert.Positive(t, seen[true])
	assert.Positive(t, seen[false])
}

func TestPromptContextCarriesCardMetadata(t *testing.T) {
	gateway := okGateway()
	svc, _, _ := newTestService(3, gateway)

	result, err := svc.ThreeCardReading(context.Background(), "Question?", "")
	require.NoError(t, err)
	require.Len(t, gateway.lastCards, 3)

	for i, ctxCard := range gateway.lastCards {
		ref := result.Reading.DrawnCards[i]
		c := result.Cards[i].Card
		assert.Equal(t, c.FullName(), ctxCard.Name)
		assert.Equal(t, c.Keywords, ctxCard.Keywords)
		assert.Equal(t, c.UprightMeaning, ctxCard.UprightMeaning)
		assert.Equal(t, c.ReversedMeaning, ctxCard.ReversedMeaning)
		assert.Equal(t, c.Element, ctxCard.Element)
		assert.Equal(t, ref.Position, ctxCard.Position)
		assert.Equal(t, ref.Reversed, ctxCard.Reversed)
	}
}

func TestInterpretationFailureStillPersists(t *testing.T) {
	gateway := okGateway()
	gateway.interpretOK = false
	svc, _, store := newTestService(22, gateway)

	result, err := svc.ThreeCardReading(context.Background(), "Question?", "")
	require.NoError(t, err)

	stored := store.readings[result.Reading.ID]
	assert.Len(t, stored.DrawnCards, 3)
	assert.Nil(t, stored.Interpretation)
	assert.Nil(t, stored.Advice)
	assert.Equal(t, reading.StatusFailed, stored.InterpretationStatus)
	assert.Equal(t, reading.StatusSkipped, stored.AdviceStatus)
	assert.Equal(t, 0, gateway.adviceCalls)
	assert.Equal(t, fixedNow, stored.PerformedAt)
}

func TestAdviceFailure(t *testing.T) {
	gateway := okGateway()
	gateway.adviceOK = false
	svc, _, store := newTestService(22, gateway)

	result, err := svc.SingleCardReading(context.Background(), "Question?", "")
	require.NoError(t, err)

	stored := store.readings[result.Reading.ID]
	assert.Equal(t, reading.StatusSucceeded, stored.InterpretationStatus)
	assert.Equal(t, reading.StatusFailed, stored.AdviceStatus)
	assert.Nil(t, stored.Advice)
}

func TestEmptyCatalog(t *testing.T) {
	gateway := okGateway()
	svc, _, store := newTestService(0, gateway)

	result, err := svc.SingleCardReading(context.Background(), "Question?", "")
	require.NoError(t, err)
	assert.Empty(t, result.Reading.DrawnCards)
	assert.Equal(t, reading.StatusFailed, store.readings[result.Reading.ID].InterpretationStatus)
	assert.Equal(t, 0, gateway.calls())
}

func TestValidationFailureCreatesNothing(t *testing.T) {
	gateway := okGateway()
	svc, catalog, store := newTestService(22, gateway)
	ctx := context.Background()

	_, err := svc.SingleCardReading(ctx, "   ", "")
	assert.True(t, errors.Is(err, reading.ErrValidation))

	_, err = svc.Perform(ctx, "invalid", "Question?", "")
	assert.True(t, errors.Is(err, reading.ErrValidation))

	_, err = svc.Perform(ctx, reading.SpreadCelticCross, "Question?", "")
	assert.True(t, errors.Is(err, reading.ErrValidation))

	assert.Empty(t, store.readings)
	assert.Equal(t, 0, catalog.calls)
	assert.Equal(t, 0, gateway.calls())
}

func TestStoreFailureAbortsBeforeGateway(t *testing.T) {
	gateway := okGateway()
	svc, _, store := newTestService(22, gateway)
	store.createErr = errors.New("disk full")

	_, err := svc.SingleCardReading(context.Background(), "Question?", "")
	assert.Error(t, err)
	assert.Equal(t, 0, gateway.calls())
}

func TestAskFollowupMissingReading(t *testing.T) {
	gateway := okGateway()
	svc, _, _ := newTestService(22, gateway)

	answer, ok, err := svc.AskFollowup(context.Background(), 404, "Anything else?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, answer)
	assert.Equal(t, 0, gateway.calls())
}

func TestAskFollowupDoesNotMutateReading(t *testing.T) {
	gateway := okGateway()
	followups := &memoryFollowups{}
	svc, _, store := newTestService(22, gateway, WithFollowupStore(followups))
	ctx := context.Background()

	result, err := svc.SingleCardReading(ctx, "Original question?", "")
	require.NoError(t, err)
	before := store.readings[result.Reading.ID]
	updates := store.updates

	answer, ok, err := svc.AskFollowup(ctx, result.Reading.ID, "  What about work?  ")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Trust the process.", answer)

	assert.Equal(t, "Original question?", gateway.lastReading.Question)
	assert.Equal(t, "The cards speak of change.", gateway.lastReading.Interpretation)
	assert.Equal(t, "Take one small step.", gateway.lastReading.Advice)
	assert.Equal(t, "What about work?", gateway.lastFollowup)

	assert.Equal(t, before, store.readings[result.Reading.ID])
	assert.Equal(t, updates, store.updates)

	exchanges, err := svc.Followups(ctx, result.Reading.ID)
	require.NoError(t, err)
	require.Len(t, exchanges, 1)
	assert.Equal(t, "What about work?", exchanges[0].Question)
	assert.Equal(t, fixedNow, exchanges[0].AskedAt)
}

func TestAskFollowupGatewayFailure(t *testing.T) {
	gateway := okGateway()
	gateway.followupOK = false
	followups := &memoryFollowups{}
	svc, _, _ := newTestService(22, gateway, WithFollowupStore(followups))
	ctx := context.Background()

	result, err := svc.SingleCardReading(ctx, "Question?", "")
	require.NoError(t, err)

	_, ok, err := svc.AskFollowup(ctx, result.Reading.ID, "More?")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, followups.exchanges)
}

func TestAskFollowupRequiresQuestion(t *testing.T) {
	gateway := okGateway()
	svc, _, _ := newTestService(22, gateway)

	_, _, err := svc.AskFollowup(context.Background(), 1, " ")
	assert.True(t, errors.Is(err, reading.ErrValidation))
	assert.Equal(t, 0, gateway.calls())
}

func TestFollowupsWithoutStore(t *testing.T) {
	svc, _, _ := newTestService(1, okGateway())
	exchanges, err := svc.Followups(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, exchanges)
}

func TestReinterpret(t *testing.T) {
	gateway := okGateway()
	gateway.interpretOK = false
	svc, _, store := newTestService(22, gateway)
	ctx := context.Background()

	result, err := svc.ThreeCardReading(ctx, "Question?", "")
	require.NoError(t, err)
	id := result.Reading.ID
	assert.Equal(t, reading.StatusFailed, store.readings[id].InterpretationStatus)

	gateway.interpretOK = true
	again, err := svc.Reinterpret(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, reading.StatusSucceeded, store.readings[id].InterpretationStatus)
	assert.Equal(t, reading.StatusSucceeded, store.readings[id].AdviceStatus)
	assert.Equal(t, result.Reading.DrawnCards, store.readings[id].DrawnCards)
	assert.Equal(t, fixedNow, store.readings[id].PerformedAt)

	calls := gateway.calls()
	_, err = svc.Reinterpret(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, calls, gateway.calls())

	missing, err := svc.Reinterpret(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestReinterpretAdviceOnly(t *testing.T) {
	gateway := okGateway()
	gateway.adviceOK = false
	svc, _, store := newTestService(22, gateway)
	ctx := context.Background()

	result, err := svc.SingleCardReading(ctx, "Question?", "")
	require.NoError(t, err)

	gateway.adviceOK = true
	_, err = svc.Reinterpret(ctx, result.Reading.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, gateway.interpretCalls)
	assert.Equal(t, 2, gateway.adviceCalls)
	assert.Equal(t, reading.StatusSucceeded, store.readings[result.Reading.ID].AdviceStatus)
}

func TestReadingCardsToleratesDeletedCards(t *testing.T) {
	svc, catalog, _ := newTestService(3, okGateway())
	ctx := context.Background()

	result, err := svc.ThreeCardReading(ctx, "Question?", "")
	require.NoError(t, err)

	deleted := result.Reading.DrawnCards[1].CardID
	catalog.remove(deleted)

	cards, err := svc.ReadingCards(ctx, result.Reading)
	require.NoError(t, err)
	require.Len(t, cards, 3)
	assert.NotNil(t, cards[0].Card)
	assert.Nil(t, cards[1].Card)
	assert.Equal(t, deleted, cards[1].Ref.CardID)
	assert.Contains(t, cards[1].Name(), "Unknown card")
}

func TestRecentAndGetReading(t *testing.T) {
	svc, _, _ := newTestService(5, okGateway())
	ctx := context.Background()

	result, err := svc.SingleCardReading(ctx, "Question?", "")
	require.NoError(t, err)

	got, err := svc.GetReading(ctx, result.Reading.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Question?", got.Question)

	missing, err := svc.GetReading(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	recent, err := svc.RecentReadings(ctx, 5)
	require.NoError(t, err)
	assert.Len(t, recent, 1)
}

func TestReadingsBySpreadAndPage(t *testing.T) {
	svc, _, _ := newTestService(10, okGateway())
	ctx := context.Background()

	_, err := svc.SingleCardReading(ctx, "One?", "")
	require.NoError(t, err)
	_, err = svc.ThreeCardReading(ctx, "Two?", "")
	require.NoError(t, err)
	_, err = svc.SingleCardReading(ctx, "Three?", "")
	require.NoError(t, err)

	singles, err := svc.ReadingsBySpread(ctx, reading.SpreadSingle, 0)
	require.NoError(t, err)
	assert.Len(t, singles, 2)

	limited, err := svc.ReadingsBySpread(ctx, reading.SpreadSingle, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	page, total, err := svc.ReadingsPage(ctx, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 1)
}
