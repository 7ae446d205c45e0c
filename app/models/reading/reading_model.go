// Package reading 塔罗牌阅读记录
package reading

import (
	"time"

	"tarot-agent/app/models"
)

// Reading 塔罗牌阅读记录模型，聚合根，拥有抽到的牌序列
type Reading struct {
	ID                   uint64           `gorm:"primaryKey;autoIncrement" json:"id"`
	Question             string           `gorm:"type:text;not null" json:"question"`                           // 问题
	SpreadKind           SpreadKind       `gorm:"type:varchar(32);index" json:"spread_kind,omitempty"`           // 牌阵类型，空值为自定义
	QuerentName          *string          `gorm:"type:varchar(255)" json:"querent_name,omitempty"`               // 提问者
	DrawnCards           DrawnCards       `gorm:"type:text" json:"drawn_cards"`                                  // 抽到的牌
	Interpretation       *string          `gorm:"type:text" json:"interpretation,omitempty"`                     // 解读结果
	InterpretationStatus GenerationStatus `gorm:"type:varchar(20);default:pending;index" json:"interpretation_status"` // 解读状态
	Advice               *string          `gorm:"type:text" json:"advice,omitempty"`                             // 建议
	AdviceStatus         GenerationStatus `gorm:"type:varchar(20);default:pending" json:"advice_status"`         // 建议状态
	PerformedAt          time.Time        `gorm:"index" json:"performed_at"`                                     // 占卜时间，只写一次

	models.CommonTimestampsField // 包含 created_at 和 updated_at
}

// TableName 指定表名
func (Reading) TableName() string {
	return "tarot_readings"
}
