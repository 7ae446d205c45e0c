// Package card 塔罗牌牌库模型
package card

import (
	"tarot-agent/app/models"
)

// Card 塔罗牌定义，阅读记录只按 ID 弱引用，不拥有牌的释义
type Card struct {
	models.BaseModel

	Name             string `gorm:"type:varchar(100);not null;uniqueIndex:idx_tarot_cards_name_suit" json:"name"`
	Arcana           Arcana `gorm:"type:varchar(10);not null;index" json:"arcana"`                                    // 大阿卡纳 / 小阿卡纳
	Suit             Suit   `gorm:"type:varchar(20);uniqueIndex:idx_tarot_cards_name_suit;index:idx_tarot_cards_suit_number" json:"suit,omitempty"` // 花色，大阿卡纳为空
	Number           *int   `gorm:"index:idx_tarot_cards_suit_number" json:"number,omitempty"`
	UprightMeaning   string `gorm:"type:text" json:"upright_meaning"`
	ReversedMeaning  string `gorm:"type:text" json:"reversed_meaning"`
	Keywords         string `gorm:"type:text" json:"keywords"` // 逗号分隔
	Element          string `gorm:"type:varchar(20);index" json:"element,omitempty"`
	AstrologicalSign string `gorm:"type:varchar(50)" json:"astrological_sign,omitempty"`
	Description      string `gorm:"type:text" json:"description,omitempty"`

	models.CommonTimestampsField
}

// TableName 指定表名
func (Card) TableName() string {
	return "tarot_cards"
}
