// Package seeders 初始化牌库数据
package seeders

import (
	_ "embed"
	"encoding/json"
	"fmt"

	"tarot-agent/app/models/card"
	"tarot-agent/pkg/logger"

	"gorm.io/gorm"
)

//go:embed data/cards.json
var cardsJSON []byte

// Cards 内置牌库：22 张大阿卡纳和四张 Ace
func Cards() ([]card.Card, error) {
	var cards []card.Card
	if err := json.Unmarshal(cardsJSON, &cards); err != nil {
		return nil, fmt.Errorf("decode card seed data: %w", err)
	}
	return cards, nil
}

// SeedCards 写入内置牌库，返回新写入的数量
// force 为 true 时先清空牌库；否则按 (name, suit) 跳过已存在的牌
func SeedCards(db *gorm.DB, force bool) (int, error) {
	cards, err := Cards()
	if err != nil {
		return 0, err
	}

	created := 0
	err = db.Transaction(func(tx *gorm.DB) error {
		if force {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&card.Card{}).Error; err != nil {
				return fmt.Errorf("clear cards: %w", err)
			}
		}

		for i := range cards {
			c := cards[i]
			var existing int64
			if err := tx.Model(&card.Card{}).
				Where("name = ? AND suit = ?", c.Name, c.Suit).
				Count(&existing).Error; err != nil {
				return err
			}
			if existing > 0 {
				continue
			}
			if err := tx.Create(&c).Error; err != nil {
				return fmt.Errorf("create card %s: %w", c.FullName(), err)
			}
			created++
		}
		return nil
	})
	if err != nil {
		logger.ErrorString("Seeder", "SeedCards", err.Error())
		return 0, err
	}

	logger.InfoString("Seeder", "SeedCards", fmt.Sprintf("写入 %d 张牌", created))
	return created, nil
}
