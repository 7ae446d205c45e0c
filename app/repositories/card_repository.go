package repositories

import (
	"context"
	"errors"
	"strings"

	"tarot-agent/app/models/card"
	"tarot-agent/pkg/random"

	"gorm.io/gorm"
)

// CardFilter 牌库筛选条件，零值字段不参与筛选
type CardFilter struct {
	Arcana  card.Arcana
	Suit    card.Suit
	Keyword string
	Element string
}

// CardRepository 牌库仓库
type CardRepository struct {
	db  *gorm.DB
	rng random.Source
}

// NewCardRepository 创建仓库实例，rng 为空时使用全局随机源
func NewCardRepository(db *gorm.DB, rng random.Source) *CardRepository {
	if rng == nil {
		rng = random.Default()
	}
	return &CardRepository{db: db, rng: rng}
}

// Count 牌库总数
func (r *CardRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&card.Card{}).Count(&total).Error
	return total, err
}

// FetchRandom 随机抽一张，牌库为空时返回 nil
func (r *CardRepository) FetchRandom(ctx context.Context) (*card.Card, error) {
	cards, err := r.FetchRandomDistinct(ctx, 1)
	if err != nil || len(cards) == 0 {
		return nil, err
	}
	return &cards[0], nil
}

// FetchRandomDistinct 随机抽取最多 n 张不重复的牌，按抽取顺序返回
func (r *CardRepository) FetchRandomDistinct(ctx context.Context, n int) ([]card.Card, error) {
	if n <= 0 {
		return []card.Card{}, nil
	}

	var ids []uint64
	if err := r.db.WithContext(ctx).Model(&card.Card{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}

	picks := random.Pick(r.rng, len(ids), n)
	if len(picks) == 0 {
		return []card.Card{}, nil
	}

	chosen := make([]uint64, len(picks))
	for i, p := range picks {
		chosen[i] = ids[p]
	}

	byID, err := r.FetchByIDs(ctx, chosen)
	if err != nil {
		return nil, err
	}

	// 两次查询之间被删除的牌直接跳过
	cards := make([]card.Card, 0, len(chosen))
	for _, id := range chosen {
		if c, ok := byID[id]; ok {
			cards = append(cards, c)
		}
	}
	return cards, nil
}

// FetchByID 按 ID 获取，不存在时返回 nil
func (r *CardRepository) FetchByID(ctx context.Context, id uint64) (*card.Card, error) {
	var c card.Card
	err := r.db.WithContext(ctx).First(&c, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// FetchByIDs 批量获取，返回 ID 到牌的映射
func (r *CardRepository) FetchByIDs(ctx context.Context, ids []uint64) (map[uint64]card.Card, error) {
	result := make(map[uint64]card.Card, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	var cards []card.Card
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, err
	}
	for _, c := range cards {
		result[c.ID] = c
	}
	return result, nil
}

// Filter 按条件筛选，按牌序排列
func (r *CardRepository) Filter(ctx context.Context, filter CardFilter) ([]card.Card, error) {
	query := r.db.WithContext(ctx).Model(&card.Card{})

	if filter.Arcana != "" {
		query = query.Where("arcana = ?", filter.Arcana)
	}
	if filter.Suit != "" {
		query = query.Where("suit = ?", filter.Suit)
	}
	if keyword := strings.TrimSpace(filter.Keyword); keyword != "" {
		query = query.Where("LOWER(keywords) LIKE ?", "%"+strings.ToLower(keyword)+"%")
	}
	if element := strings.TrimSpace(filter.Element); element != "" {
		query = query.Where("LOWER(element) = ?", strings.ToLower(element))
	}

	var cards []card.Card
	err := query.Order("arcana").Order("suit").Order("number").Order("id").Find(&cards).Error
	return cards, err
}
