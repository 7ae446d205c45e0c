package card

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// Arcana 大小阿卡纳
type Arcana string

const (
	ArcanaMajor Arcana = "major"
	ArcanaMinor Arcana = "minor"
)

// Suit 小阿卡纳花色
type Suit string

const (
	SuitCups      Suit = "cups"
	SuitWands     Suit = "wands"
	SuitSwords    Suit = "swords"
	SuitPentacles Suit = "pentacles"
)

// Suits 全部花色及其主题，按牌库惯例排序
var Suits = []Suit{SuitCups, SuitWands, SuitSwords, SuitPentacles}

var suitThemes = map[Suit]string{
	SuitCups:      "Emotions & Relationships",
	SuitWands:     "Creativity & Action",
	SuitSwords:    "Thoughts & Communication",
	SuitPentacles: "Material & Career",
}

// Theme 花色主题
func (s Suit) Theme() string {
	return suitThemes[s]
}

// Title 首字母大写的花色名
func (s Suit) Title() string {
	if s == "" {
		return ""
	}
	return strings.ToUpper(string(s[:1])) + string(s[1:])
}

// Valid 花色是否合法，空花色视为合法（大阿卡纳）
func (s Suit) Valid() bool {
	if s == "" {
		return true
	}
	_, ok := suitThemes[s]
	return ok
}

// Validate 验证牌定义
func (c *Card) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return errors.New("card name is required")
	}
	if c.Arcana != ArcanaMajor && c.Arcana != ArcanaMinor {
		return fmt.Errorf("invalid arcana %q", c.Arcana)
	}
	if !c.Suit.Valid() {
		return fmt.Errorf("invalid suit %q", c.Suit)
	}
	return nil
}

// BeforeSave GORM 钩子
func (c *Card) BeforeSave(tx *gorm.DB) error {
	return c.Validate()
}

// IsMajor 是否为大阿卡纳
func (c *Card) IsMajor() bool {
	return c.Arcana == ArcanaMajor
}

// IsMinor 是否为小阿卡纳
func (c *Card) IsMinor() bool {
	return c.Arcana == ArcanaMinor
}

// FullName 带花色的完整牌名，如 "Ace of Cups"
func (c *Card) FullName() string {
	if c.IsMinor() && c.Suit != "" {
		return fmt.Sprintf("%s of %s", c.Name, c.Suit.Title())
	}
	return c.Name
}

// KeywordList 关键词数组
func (c *Card) KeywordList() []string {
	keywords := make([]string, 0)
	for _, keyword := range strings.Split(c.Keywords, ",") {
		if keyword = strings.TrimSpace(keyword); keyword != "" {
			keywords = append(keywords, keyword)
		}
	}
	return keywords
}

// MeaningFor 按正逆位返回释义
func (c *Card) MeaningFor(reversed bool) string {
	if reversed {
		return c.ReversedMeaning
	}
	return c.UprightMeaning
}
