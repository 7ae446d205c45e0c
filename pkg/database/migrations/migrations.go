package migrations

import (
	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
)

// RegisterTables 返回需要迁移的表的模型列表
func RegisterTables() []interface{} {
	return []interface{}{
		&card.Card{},
		&reading.Reading{},
	}
}
