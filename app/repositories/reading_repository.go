package repositories

import (
	"context"
	"errors"

	"tarot-agent/app/models/reading"

	"gorm.io/gorm"
)

// DefaultRecentLimit 最近记录的默认条数
const DefaultRecentLimit = 5

// ReadingRepository 塔罗牌阅读记录仓库
type ReadingRepository struct {
	db *gorm.DB
}

// NewReadingRepository 创建仓库实例
func NewReadingRepository(db *gorm.DB) *ReadingRepository {
	return &ReadingRepository{
		db: db,
	}
}

// Create 创建阅读记录
func (r *ReadingRepository) Create(ctx context.Context, rd *reading.Reading) error {
	return r.db.WithContext(ctx).Create(rd).Error
}

// UpdateInterpretation 只更新解读、建议及其状态，占卜时间等字段保持不变
func (r *ReadingRepository) UpdateInterpretation(ctx context.Context, rd *reading.Reading) error {
	if rd.ID == 0 {
		return errors.New("reading has not been persisted")
	}
	return r.db.WithContext(ctx).
		Model(rd).
		Select("interpretation", "interpretation_status", "advice", "advice_status", "updated_at").
		Updates(map[string]interface{}{
			"interpretation":        rd.Interpretation,
			"interpretation_status": rd.InterpretationStatus,
			"advice":                rd.Advice,
			"advice_status":         rd.AdviceStatus,
		}).Error
}

// GetByID 获取单条记录，不存在时返回 nil
func (r *ReadingRepository) GetByID(ctx context.Context, id uint64) (*reading.Reading, error) {
	var rd reading.Reading
	err := r.db.WithContext(ctx).First(&rd, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

// Recent 按占卜时间倒序获取最近记录
func (r *ReadingRepository) Recent(ctx context.Context, limit int) ([]reading.Reading, error) {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}

	var readings []reading.Reading
	err := r.db.WithContext(ctx).
		Order("performed_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&readings).Error
	return readings, err
}

// BySpread 按牌阵类型筛选
func (r *ReadingRepository) BySpread(ctx context.Context, kind reading.SpreadKind) ([]reading.Reading, error) {
	var readings []reading.Reading
	err := r.db.WithContext(ctx).
		Where("spread_kind = ?", string(kind)).
		Order("performed_at DESC").
		Order("id DESC").
		Find(&readings).Error
	return readings, err
}

// Paginate 分页获取历史记录
func (r *ReadingRepository) Paginate(ctx context.Context, page, pageSize int) ([]reading.Reading, int64, error) {
	var readings []reading.Reading
	var total int64

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = DefaultRecentLimit
	}

	query := r.db.WithContext(ctx).Model(&reading.Reading{})

	// 获取总数
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// 分页查询
	err := query.Order("performed_at DESC").
		Order("id DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&readings).Error

	return readings, total, err
}
