package reading

import (
	"database/sql/driver"
	"fmt"
)

// SpreadKind 牌阵类型
type SpreadKind string

const (
	SpreadSingle            SpreadKind = "single"
	SpreadThreeCard         SpreadKind = "three_card"
	SpreadCelticCross       SpreadKind = "celtic_cross"
	SpreadPastPresentFuture SpreadKind = "past_present_future"
	SpreadRelationship      SpreadKind = "relationship"
)

// CustomSpreadDescription 未知或未设置牌阵的描述
const CustomSpreadDescription = "Custom Spread"

var spreadDescriptions = map[SpreadKind]string{
	SpreadSingle:            "Single Card Draw",
	SpreadThreeCard:         "Three Card Spread",
	SpreadCelticCross:       "Celtic Cross Spread",
	SpreadPastPresentFuture: "Past, Present, Future",
	SpreadRelationship:      "Relationship Spread",
}

// Spread 可抽牌的牌阵：张数即位置数
type Spread struct {
	Kind      SpreadKind
	Positions []string
}

// Count 需要抽取的张数
func (s Spread) Count() int {
	return len(s.Positions)
}

// spreads 只有这三种牌阵有抽牌流程
var spreads = map[SpreadKind][]string{
	SpreadSingle:       {"Present Situation"},
	SpreadThreeCard:    {"Past", "Present", "Future"},
	SpreadRelationship: {"You", "Partner", "Connection", "Challenge", "Outcome"},
}

// DrawableKinds 有抽牌流程的牌阵，按菜单顺序
var DrawableKinds = []SpreadKind{SpreadSingle, SpreadThreeCard, SpreadRelationship}

// SpreadFor 返回牌阵定义，返回的位置列表是副本
func SpreadFor(kind SpreadKind) (Spread, bool) {
	positions, ok := spreads[kind]
	if !ok {
		return Spread{}, false
	}
	return Spread{Kind: kind, Positions: append([]string(nil), positions...)}, true
}

// Valid 是否为可持久化的牌阵类型，空值表示自定义
func (k SpreadKind) Valid() bool {
	if k == "" {
		return true
	}
	_, ok := spreadDescriptions[k]
	return ok
}

// Drawable 是否有抽牌流程
func (k SpreadKind) Drawable() bool {
	_, ok := spreads[k]
	return ok
}

// Description 人类可读的牌阵描述
func (k SpreadKind) Description() string {
	if description, ok := spreadDescriptions[k]; ok {
		return description
	}
	return CustomSpreadDescription
}

// Value 实现 driver.Valuer 接口，空值存为 NULL
func (k SpreadKind) Value() (driver.Value, error) {
	if k == "" {
		return nil, nil
	}
	return string(k), nil
}

// Scan 实现 sql.Scanner 接口
func (k *SpreadKind) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*k = ""
	case string:
		*k = SpreadKind(v)
	case []byte:
		*k = SpreadKind(v)
	default:
		return fmt.Errorf("invalid type %T for spread kind", value)
	}
	return nil
}
