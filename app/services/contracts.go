// Package services 塔罗牌业务流程
package services

import (
	"context"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
	"tarot-agent/pkg/llm"
)

// CardCatalog 牌库
type CardCatalog interface {
	FetchRandom(ctx context.Context) (*card.Card, error)
	FetchRandomDistinct(ctx context.Context, n int) ([]card.Card, error)
	FetchByID(ctx context.Context, id uint64) (*card.Card, error)
	FetchByIDs(ctx context.Context, ids []uint64) (map[uint64]card.Card, error)
}

// ReadingStore 阅读记录持久化
type ReadingStore interface {
	Create(ctx context.Context, rd *reading.Reading) error
	UpdateInterpretation(ctx context.Context, rd *reading.Reading) error
	GetByID(ctx context.Context, id uint64) (*reading.Reading, error)
	Recent(ctx context.Context, limit int) ([]reading.Reading, error)
	BySpread(ctx context.Context, kind reading.SpreadKind) ([]reading.Reading, error)
	Paginate(ctx context.Context, page, pageSize int) ([]reading.Reading, int64, error)
}

// Gateway 解读网关，失败时返回 ("", false)，不返回错误
type Gateway interface {
	Interpret(ctx context.Context, cards []llm.CardContext, question, spreadKind string) (string, bool)
	GenerateAdvice(ctx context.Context, cards []llm.CardContext, question, interpretation string) (string, bool)
	AskFollowup(ctx context.Context, original llm.ReadingContext, followup string) (string, bool)
}

// FollowupStore 追问记录的临时存储
type FollowupStore interface {
	Append(ctx context.Context, readingID uint64, exchange reading.FollowupExchange) error
	List(ctx context.Context, readingID uint64) ([]reading.FollowupExchange, error)
}
