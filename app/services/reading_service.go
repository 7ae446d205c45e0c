package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/llm"
	"tarot-agent/pkg/logger"
	"tarot-agent/pkg/random"
)

// DrawnCard 抽出的牌及其位置，Card 为空表示该牌已从牌库删除
type DrawnCard struct {
	Card *card.Card      `json:"card"`
	Ref  reading.CardRef `json:"ref"`
}

// Name 展示用牌名
func (d DrawnCard) Name() string {
	if d.Card == nil {
		return fmt.Sprintf("Unknown card #%d", d.Ref.CardID)
	}
	return d.Card.FullName()
}

// ReadingResult 一次占卜的结果
type ReadingResult struct {
	Reading *reading.Reading `json:"reading"`
	Cards   []DrawnCard      `json:"cards"`
}

// ReadingService 占卜流程
type ReadingService struct {
	catalog   CardCatalog
	store     ReadingStore
	gateway   Gateway
	followups FollowupStore
	rng       random.Source
	now       func() time.Time
}

// Option 可选配置
type Option func(*ReadingService)

// WithFollowupStore 保存追问记录
func WithFollowupStore(store FollowupStore) Option {
	return func(s *ReadingService) {
		s.followups = store
	}
}

// WithClock 替换时间来源
func WithClock(now func() time.Time) Option {
	return func(s *ReadingService) {
		s.now = now
	}
}

// NewReadingService 创建服务实例，rng 为空时使用全局随机源
func NewReadingService(catalog CardCatalog, store ReadingStore, gateway Gateway, rng random.Source, opts ...Option) *ReadingService {
	if rng == nil {
		rng = random.Default()
	}
	s := &ReadingService{
		catalog: catalog,
		store:   store,
		gateway: gateway,
		rng:     rng,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SingleCardReading 单张牌
func (s *ReadingService) SingleCardReading(ctx context.Context, question, querentName string) (*ReadingResult, error) {
	return s.Perform(ctx, reading.SpreadSingle, question, querentName)
}

// ThreeCardReading 过去、现在、未来
func (s *ReadingService) ThreeCardReading(ctx context.Context, question, querentName string) (*ReadingResult, error) {
	return s.Perform(ctx, reading.SpreadThreeCard, question, querentName)
}

// RelationshipReading 关系牌阵
func (s *ReadingService) RelationshipReading(ctx context.Context, question, querentName string) (*ReadingResult, error) {
	return s.Perform(ctx, reading.SpreadRelationship, question, querentName)
}

// Perform 按牌阵执行一次完整占卜：验证、抽牌、保存、解读、更新
// 只有验证失败和存储错误会返回 error，解读失败记录在状态字段中
func (s *ReadingService) Perform(ctx context.Context, kind reading.SpreadKind, question, querentName string) (*ReadingResult, error) {
	rd := &reading.Reading{
		Question:   strings.TrimSpace(question),
		SpreadKind: kind,
	}
	if name := strings.TrimSpace(querentName); name != "" {
		rd.QuerentName = &name
	}
	if err := rd.Validate(); err != nil {
		return nil, err
	}

	spread, ok := reading.SpreadFor(kind)
	if !ok {
		return nil, fmt.Errorf("%w: spread %q cannot be drawn", reading.ErrValidation, kind)
	}

	drawn, err := s.draw(ctx, spread)
	if err != nil {
		return nil, fmt.Errorf("draw cards: %w", err)
	}
	if len(drawn) < spread.Count() {
		logger.WarnString("Reading", "Draw", fmt.Sprintf(
			"牌库不足 牌阵:%s 需要:%d 实际:%d", kind, spread.Count(), len(drawn)))
	}

	refs := make(reading.DrawnCards, len(drawn))
	for i, d := range drawn {
		refs[i] = d.Ref
	}
	rd.DrawnCards = refs
	rd.PerformedAt = s.now()

	if err := s.store.Create(ctx, rd); err != nil {
		return nil, fmt.Errorf("create reading: %w", err)
	}
	logger.InfoString("Reading", "Create", fmt.Sprintf("创建记录 ID:%d 牌阵:%s 牌数:%d", rd.ID, kind, len(refs)))

	s.interpret(ctx, rd, drawn)

	if err := s.store.UpdateInterpretation(ctx, rd); err != nil {
		return nil, fmt.Errorf("update reading %d: %w", rd.ID, err)
	}

	return &ReadingResult{Reading: rd, Cards: drawn}, nil
}

// draw 抽牌，位置标签与抽出的牌一一对应，每张牌独立决定正逆位
func (s *ReadingService) draw(ctx context.Context, spread reading.Spread) ([]DrawnCard, error) {
	cards, err := s.catalog.FetchRandomDistinct(ctx, spread.Count())
	if err != nil {
		return nil, err
	}

	n := min(len(cards), len(spread.Positions))
	drawn := make([]DrawnCard, n)
	for i := 0; i < n; i++ {
		c := cards[i]
		drawn[i] = DrawnCard{
			Card: &c,
			Ref: reading.CardRef{
				CardID:   c.ID,
				Position: spread.Positions[i],
				Reversed: random.Coin(s.rng),
			},
		}
	}
	return drawn, nil
}

// interpret 调用网关生成解读和建议，结果写入 rd 但不保存
func (s *ReadingService) interpret(ctx context.Context, rd *reading.Reading, drawn []DrawnCard) {
	cards := cardContexts(drawn)
	if len(cards) == 0 {
		logger.WarnString("Reading", "Interpret", fmt.Sprintf("记录 %d 没有可解读的牌", rd.ID))
		rd.MarkInterpretationFailed()
		return
	}

	interpretation, ok := s.gateway.Interpret(ctx, cards, rd.Question, string(rd.SpreadKind))
	if !ok {
		logger.WarnString("Reading", "Interpret", fmt.Sprintf("记录 %d 解读失败", rd.ID))
		rd.MarkInterpretationFailed()
		return
	}
	rd.SetInterpretation(interpretation)
	s.advise(ctx, rd, cards)
}

func (s *ReadingService) advise(ctx context.Context, rd *reading.Reading, cards []llm.CardContext) {
	advice, ok := s.gateway.GenerateAdvice(ctx, cards, rd.Question, rd.InterpretationText())
	if !ok {
		logger.WarnString("Reading", "Advice", fmt.Sprintf("记录 %d 建议生成失败", rd.ID))
		rd.MarkAdviceFailed()
		return
	}
	rd.SetAdvice(advice)
}

func cardContexts(drawn []DrawnCard) []llm.CardContext {
	contexts := make([]llm.CardContext, 0, len(drawn))
	for _, d := range drawn {
		if d.Card == nil {
			continue
		}
		contexts = append(contexts, llm.CardContext{
			Name:             d.Card.FullName(),
			Position:         d.Ref.Position,
			Reversed:         d.Ref.Reversed,
			Keywords:         d.Card.Keywords,
			UprightMeaning:   d.Card.UprightMeaning,
			ReversedMeaning:  d.Card.ReversedMeaning,
			Element:          d.Card.Element,
			AstrologicalSign: d.Card.AstrologicalSign,
		})
	}
	return contexts
}

// AskFollowup 追问，记录不存在时返回 ("", false, nil) 且不调用网关
// 追问不会修改阅读记录
func (s *ReadingService) AskFollowup(ctx context.Context, readingID uint64, question string) (string, bool, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", false, fmt.Errorf("%w: follow-up question is required", reading.ErrValidation)
	}

	rd, err := s.store.GetByID(ctx, readingID)
	if err != nil {
		return "", false, fmt.Errorf("load reading %d: %w", readingID, err)
	}
	if rd == nil {
		return "", false, nil
	}

	answer, ok := s.gateway.AskFollowup(ctx, llm.ReadingContext{
		Question:       rd.Question,
		Interpretation: rd.InterpretationText(),
		Advice:         rd.AdviceText(),
	}, question)
	if !ok {
		return "", false, nil
	}

	if s.followups != nil {
		exchange := reading.FollowupExchange{Question: question, Answer: answer, AskedAt: s.now()}
		if err := s.followups.Append(ctx, readingID, exchange); err != nil {
			logger.WarnString("Reading", "Followup", fmt.Sprintf("追问记录保存失败 ID:%d 错误:%v", readingID, err))
		}
	}
	return answer, true, nil
}

// Followups 追问记录，未配置存储时返回空
func (s *ReadingService) Followups(ctx context.Context, readingID uint64) ([]reading.FollowupExchange, error) {
	if s.followups == nil {
		return []reading.FollowupExchange{}, nil
	}
	return s.followups.List(ctx, readingID)
}

// RecentReadings 最近的记录，limit <= 0 时取默认条数
func (s *ReadingService) RecentReadings(ctx context.Context, limit int) ([]reading.Reading, error) {
	return s.store.Recent(ctx, limit)
}

// ReadingsBySpread 某种牌阵的记录，按占卜时间倒序，limit <= 0 时不限
func (s *ReadingService) ReadingsBySpread(ctx context.Context, kind reading.SpreadKind, limit int) ([]reading.Reading, error) {
	readings, err := s.store.BySpread(ctx, kind)
	if err != nil {
		return nil, err
	}
	if limit > 0 && len(readings) > limit {
		readings = readings[:limit]
	}
	return readings, nil
}

// ReadingsPage 分页获取历史记录，同时返回总数
func (s *ReadingService) ReadingsPage(ctx context.Context, page, pageSize int) ([]reading.Reading, int64, error) {
	return s.store.Paginate(ctx, page, pageSize)
}

// GetReading 按 ID 获取，不存在时返回 nil
func (s *ReadingService) GetReading(ctx context.Context, id uint64) (*reading.Reading, error) {
	return s.store.GetByID(ctx, id)
}

// ReadingCards 把记录里的牌引用还原为牌，已删除的牌保留引用
func (s *ReadingService) ReadingCards(ctx context.Context, rd *reading.Reading) ([]DrawnCard, error) {
	byID, err := s.catalog.FetchByIDs(ctx, rd.DrawnCards.CardIDs())
	if err != nil {
		return nil, err
	}

	drawn := make([]DrawnCard, len(rd.DrawnCards))
	for i, ref := range rd.DrawnCards {
		drawn[i] = DrawnCard{Ref: ref}
		if c, ok := byID[ref.CardID]; ok {
			drawn[i].Card = &c
		}
	}
	return drawn, nil
}

// Reinterpret 对解读未成功的记录重新生成解读和建议，解读成功但建议失败时只补建议
// 记录不存在时返回 nil；解读和建议都已成功时直接返回，不调用网关
func (s *ReadingService) Reinterpret(ctx context.Context, id uint64) (*ReadingResult, error) {
	rd, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load reading %d: %w", id, err)
	}
	if rd == nil {
		return nil, nil
	}

	drawn, err := s.ReadingCards(ctx, rd)
	if err != nil {
		return nil, fmt.Errorf("resolve cards for reading %d: %w", id, err)
	}
	switch {
	case rd.IsInterpreted() && rd.AdviceStatus == reading.StatusSucceeded:
		return &ReadingResult{Reading: rd, Cards: drawn}, nil
	case rd.IsInterpreted():
		s.advise(ctx, rd, cardContexts(drawn))
	default:
		s.interpret(ctx, rd, drawn)
	}

	if err := s.store.UpdateInterpretation(ctx, rd); err != nil {
		return nil, fmt.Errorf("update reading %d: %w", id, err)
	}
	return &ReadingResult{Reading: rd, Cards: drawn}, nil
}
