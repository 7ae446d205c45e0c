package reading

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
)

// CardRef 阅读记录中的一张牌：牌 ID、位置、正逆位。记录后不再修改
type CardRef struct {
	CardID   uint64 `json:"card_id"`
	Position string `json:"position"`
	Reversed bool   `json:"reversed"`
}

// DrawnCards 有序的抽牌序列，以 JSON 文本整体存储
type DrawnCards []CardRef

// cardRefPayload 解码时的宽松结构，position 兼容历史的整数序号
type cardRefPayload struct {
	CardID   *uint64         `json:"card_id"`
	Position json.RawMessage `json:"position"`
	Reversed *bool           `json:"reversed"`
}

// EncodeDrawnCards 编码抽牌序列，空序列编码为 []
func EncodeDrawnCards(cards DrawnCards) []byte {
	if len(cards) == 0 {
		return []byte("[]")
	}
	// CardRef 只包含基础类型，Marshal 不会失败
	data, _ := json.Marshal([]CardRef(cards))
	return data
}

// ParseDrawnCards 严格解码抽牌序列，任何一项不合法都返回错误
func ParseDrawnCards(data []byte) (DrawnCards, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return DrawnCards{}, nil
	}

	var payloads []cardRefPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		return nil, fmt.Errorf("decode drawn cards: %w", err)
	}

	cards := make(DrawnCards, 0, len(payloads))
	for i, p := range payloads {
		ref, err := p.toCardRef()
		if err != nil {
			return nil, fmt.Errorf("drawn card #%d: %w", i, err)
		}
		cards = append(cards, ref)
	}
	return cards, nil
}

// DecodeDrawnCards 宽松解码，损坏的数据返回空序列，从不报错
func DecodeDrawnCards(data []byte) DrawnCards {
	cards, err := ParseDrawnCards(data)
	if err != nil {
		return DrawnCards{}
	}
	return cards
}

func (p cardRefPayload) toCardRef() (CardRef, error) {
	if p.CardID == nil || *p.CardID == 0 {
		return CardRef{}, errors.New("card_id must be a positive integer")
	}

	ref := CardRef{CardID: *p.CardID}
	if p.Reversed != nil {
		ref.Reversed = *p.Reversed
	}

	position, err := decodePosition(p.Position)
	if err != nil {
		return CardRef{}, err
	}
	ref.Position = position
	return ref, nil
}

// decodePosition 位置可以是字符串标签或整数序号
func decodePosition(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}

	var label string
	if err := json.Unmarshal(raw, &label); err == nil {
		return label, nil
	}

	var ordinal int64
	if err := json.Unmarshal(raw, &ordinal); err == nil {
		return strconv.FormatInt(ordinal, 10), nil
	}

	return "", fmt.Errorf("position must be a string or integer, got %s", raw)
}

// Value 实现 driver.Valuer 接口
func (c DrawnCards) Value() (driver.Value, error) {
	return string(EncodeDrawnCards(c)), nil
}

// Scan 实现 sql.Scanner 接口，损坏的数据读取为空序列
func (c *DrawnCards) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*c = DrawnCards{}
	case []byte:
		*c = DecodeDrawnCards(v)
	case string:
		*c = DecodeDrawnCards([]byte(v))
	default:
		*c = DrawnCards{}
	}
	return nil
}

// CardIDs 按顺序返回牌 ID
func (c DrawnCards) CardIDs() []uint64 {
	ids := make([]uint64, len(c))
	for i, ref := range c {
		ids[i] = ref.CardID
	}
	return ids
}

// Positions 按顺序返回位置标签
func (c DrawnCards) Positions() []string {
	positions := make([]string, len(c))
	for i, ref := range c {
		positions[i] = ref.Position
	}
	return positions
}
