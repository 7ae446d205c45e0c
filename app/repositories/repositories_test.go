package repositories

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "tarot.db")), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&card.Card{}, &reading.Reading{}))
	return db
}

func intPtr(v int) *int { return &v }

func seedCards(t *testing.T, db *gorm.DB) []card.Card {
	t.Helper()
	cards := []card.Card{
		{Name: "The Fool", Arcana: card.ArcanaMajor, Number: intPtr(0), Keywords: "beginnings, innocence", UprightMeaning: "New beginnings", ReversedMeaning: "Recklessness", Element: "Air"},
		{Name: "The Magician", Arcana: card.ArcanaMajor, Number: intPtr(1), Keywords: "manifestation, power", UprightMeaning: "Willpower", ReversedMeaning: "Manipulation", Element: "Air"},
		{Name: "The High Priestess", Arcana: card.ArcanaMajor, Number: intPtr(2), Keywords: "intuition, mystery", UprightMeaning: "Intuition", ReversedMeaning: "Secrets", Element: "Water"},
		{Name: "Ace", Arcana: card.ArcanaMinor, Suit: card.SuitCups, Number: intPtr(1), Keywords: "love, intuition", UprightMeaning: "New love", ReversedMeaning: "Blocked emotions", Element: "Water"},
		{Name: "Ace", Arcana: card.ArcanaMinor, Suit: card.SuitWands, Number: intPtr(1), Keywords: "inspiration, growth", UprightMeaning: "Inspiration", ReversedMeaning: "Delays", Element: "Fire"},
	}
	for i := range cards {
		require.NoError(t, db.Create(&cards[i]).Error)
	}
	return cards
}
