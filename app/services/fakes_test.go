package services

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/random"
)

type fakeCatalog struct {
	cards []card.Card
	rng   random.Source
	calls int
}

func newFakeCatalog(size int) *fakeCatalog {
	cards := make([]card.Card, size)
	for i := range cards {
		cards[i] = card.Card{
			Name:            fmt.Sprintf("Card %d", i+1),
			Arcana:          card.ArcanaMajor,
			Keywords:        fmt.Sprintf("keyword-%d, theme-%d", i+1, i+1),
			UprightMeaning:  fmt.Sprintf("upright meaning %d", i+1),
			ReversedMeaning: fmt.Sprintf("reversed meaning %d", i+1),
			Element:         "Air",
		}
		cards[i].ID = uint64(i + 1)
	}
	return &fakeCatalog{cards: cards, rng: random.NewSeeded(99)}
}

func (f *fakeCatalog) FetchRandom(ctx context.Context) (*card.Card, error) {
	cards, _ := f.FetchRandomDistinct(ctx, 1)
	if len(cards) == 0 {
		return nil, nil
	}
	return &cards[0], nil
}

func (f *fakeCatalog) FetchRandomDistinct(_ context.Context, n int) ([]card.Card, error) {
	f.calls++
	out := []card.Card{}
	for _, i := range random.Pick(f.rng, len(f.cards), n) {
		out = append(out, f.cards[i])
	}
	return out, nil
}

func (f *fakeCatalog) FetchByID(_ context.Context, id uint64) (*card.Card, error) {
	for _, c := range f.cards {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCatalog) FetchByIDs(_ context.Context, ids []uint64) (map[uint64]card.Card, error) {
	out := map[uint64]card.Card{}
	for _, id := range ids {
		for _, c := range f.cards {
			if c.ID == id {
				out[id] = c
			}
		}
	}
	return out, nil
}

func (f *fakeCatalog) remove(id uint64) {
	kept := f.cards[:0]
	for _, c := range f.cards {
		if c.ID != id {
			kept = append(kept, c)
		}
	}
	f.cards = kept
}

type fakeStore struct {
	readings  map[uint64]reading.Reading
	nextID    uint64
	createErr error
	updates   int
}

func newFakeStore() *fakeStore {
	return &fakeStore{readings: map[uint64]reading.Reading{}}
}

func (s *fakeStore) Create(_ context.Context, rd *reading.Reading) error {
	if s.createErr != nil {
		return s.createErr
	}
	if err := rd.Validate(); err != nil {
		return err
	}
	s.nextID++
	rd.ID = s.nextID
	if rd.InterpretationStatus == "" {
		rd.InterpretationStatus = reading.StatusPending
	}
	if rd.AdviceStatus == "" {
		rd.AdviceStatus = reading.StatusPending
	}
	s.readings[rd.ID] = *rd
	return nil
}

func (s *fakeStore) UpdateInterpretation(_ context.Context, rd *reading.Reading) error {
	stored, ok := s.readings[rd.ID]
	if !ok {
		return errors.New("not persisted")
	}
	s.updates++
	stored.Interpretation = rd.Interpretation
	stored.InterpretationStatus = rd.InterpretationStatus
	stored.Advice = rd.Advice
	stored.AdviceStatus = rd.AdviceStatus
	s.readings[rd.ID] = stored
	return nil
}

func (s *fakeStore) GetByID(_ context.Context, id uint64) (*reading.Reading, error) {
	rd, ok := s.readings[id]
	if !ok {
		return nil, nil
	}
	return &rd, nil
}

func (s *fakeStore) Recent(_ context.Context, limit int) ([]reading.Reading, error) {
	out := make([]reading.Reading, 0, len(s.readings))
	for _, rd := range s.readings {
		out = append(out, rd)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].PerformedAt.After(out[j].PerformedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) BySpread(ctx context.Context, kind reading.SpreadKind) ([]reading.Reading, error) {
	all, _ := s.Recent(ctx, 0)
	out := make([]reading.Reading, 0, len(all))
	for _, rd := range all {
		if rd.SpreadKind == kind {
			out = append(out, rd)
		}
	}
	return out, nil
}

func (s *fakeStore) Paginate(ctx context.Context, page, pageSize int) ([]reading.Reading, int64, error) {
	all, _ := s.Recent(ctx, 0)
	start := (page - 1) * pageSize
	if start >= len(all) {
		return []reading.Reading{}, int64(len(all)), nil
	}
	end := min(start+pageSize, len(all))
	return all[start:end], int64(len(all)), nil
}

type stubGateway struct {
	interpretText string
	interpretOK   bool
	adviceText    string
	adviceOK      bool
	followupText  string
	followupOK    bool

	interpretCalls int
	adviceCalls    int
	followupCalls  int

	lastCards      []llm.CardContext
	lastSpread     string
	lastReading    llm.ReadingContext
	lastFollowup   string
	lastAdviceText string
}

func okGateway() *stubGateway {
	return &stubGateway{
		interpretText: "The cards speak of change.",
		interpretOK:   true,
		adviceText:    "Take one small step.",
		adviceOK:      true,
		followupText:  "Trust the process.",
		followupOK:    true,
	}
}

func (g *stubGateway) Interpret(_ context.Context, cards []llm.CardContext, _ string, spreadKind string) (string, bool) {
	g.interpretCalls++
	g.lastCards = cards
	g.lastSpread = spreadKind
	return g.interpretText, g.interpretOK
}

func (g *stubGateway) GenerateAdvice(_ context.Context, _ []llm.CardContext, _ string, interpretation string) (string, bool) {
	g.adviceCalls++
	g.lastAdviceText = interpretation
	return g.adviceText, g.adviceOK
}

func (g *stubGateway) AskFollowup(_ context.Context, original llm.ReadingContext, followup string) (string, bool) {
	g.followupCalls++
	g.lastReading = original
	g.lastFollowup = followup
	return g.followupText, g.followupOK
}

func (g *stubGateway) calls() int {
	return g.interpretCalls + g.adviceCalls + g.followupCalls
}

type memoryFollowups struct {
	exchanges map[uint64][]reading.FollowupExchange
}

func (m *memoryFollowups) Append(_ context.Context, id uint64, exchange reading.FollowupExchange) error {
	if m.exchanges == nil {
		m.exchanges = map[uint64][]reading.FollowupExchange{}
	}
	m.exchanges[id] = append(m.exchanges[id], exchange)
	return nil
}

func (m *memoryFollowups) List(_ context.Context, id uint64) ([]reading.FollowupExchange, error) {
	return append([]reading.FollowupExchange{}, m.exchanges[id]...), nil
}
