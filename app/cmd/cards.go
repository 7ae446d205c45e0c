package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"tarot-agent/app/models/card"
	"tarot-agent/app/repositories"
	"tarot-agent/app/requests"
	"tarot-agent/pkg/console"
)

var (
	cardsMajor   bool
	cardsMinor   bool
	cardsSuit    string
	cardsKeyword string
	cardsElement string
	cardsRandom  bool
	cardsID      uint64
)

var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "Browse tarot card meanings",
	Long: `Browses the card catalog. Without flags an interactive menu is shown.
Filters can be combined, e.g. --minor --suit cups --keyword love.`,
	Args: cobra.NoArgs,
	RunE: runCards,
}

func init() {
	cardsCmd.Flags().BoolVar(&cardsMajor, "major", false, "list the Major Arcana")
	cardsCmd.Flags().BoolVar(&cardsMinor, "minor", false, "list the Minor Arcana")
	cardsCmd.Flags().StringVar(&cardsSuit, "suit", "", "suit of the Minor Arcana: cups, wands, swords or pentacles")
	cardsCmd.Flags().StringVarP(&cardsKeyword, "keyword", "k", "", "search card keywords")
	cardsCmd.Flags().StringVar(&cardsElement, "element", "", "filter by element")
	cardsCmd.Flags().BoolVar(&cardsRandom, "random", false, "draw a random card")
	cardsCmd.Flags().Uint64Var(&cardsID, "id", 0, "show a single card")
	cardsCmd.MarkFlagsMutuallyExclusive("major", "minor")
	rootCmd.AddCommand(cardsCmd)
}

func runCards(cmd *cobra.Command, _ []string) error {
	if err := requireServices(); err != nil {
		return err
	}

	ctx := commandContext(cmd)
	out := cmd.OutOrStdout()

	switch {
	case cardsID != 0:
		found, err := cardRepository.FetchByID(ctx, cardsID)
		if err != nil {
			return fmt.Errorf("could not load card: %w", err)
		}
		if found == nil {
			return fmt.Errorf("card #%d not found", cardsID)
		}
		renderCardDetail(out, found)
		return nil
	case cardsRandom:
		return showRandomCard(cmd)
	}

	query := requests.CardQuery{
		Suit:    cardsSuit,
		Keyword: cardsKeyword,
		Element: cardsElement,
	}
	if cardsMajor {
		query.Arcana = string(card.ArcanaMajor)
	}
	if cardsMinor {
		query.Arcana = string(card.ArcanaMinor)
	}

	if query == (requests.CardQuery{}) {
		return ignoreEOF(browseCards(cmd, newPrompter(cmd)))
	}

	cards, err := filterCards(cmd, query)
	if err != nil {
		return err
	}
	renderCardList(out, cards)
	return nil
}

func filterCards(cmd *cobra.Command, query requests.CardQuery) ([]card.Card, error) {
	if err := requests.ValidateCardQuery(&query); err != nil {
		return nil, errors.New(validationMessage(err))
	}

	cards, err := cardRepository.Filter(commandContext(cmd), repositories.CardFilter{
		Arcana:  card.Arcana(query.Arcana),
		Suit:    card.Suit(query.Suit),
		Keyword: query.Keyword,
		Element: query.Element,
	})
	if err != nil {
		return nil, fmt.Errorf("could not load cards: %w", err)
	}
	return cards, nil
}

func showRandomCard(cmd *cobra.Command) error {
	drawn, err := cardRepository.FetchRandom(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("could not draw a card: %w", err)
	}
	if drawn == nil {
		return errors.New("the deck is empty, run `tarot-agent seed` first")
	}
	renderCardDetail(cmd.OutOrStdout(), drawn)
	return nil
}

// browseCards 交互式牌库浏览
func browseCards(cmd *cobra.Command, p *Prompter) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, console.TitleStyle.Render("🎴 Tarot Card Browser"))

	choice, err := p.Select("What would you like to explore?", []string{
		"Major Arcana",
		"Minor Arcana",
		"Search by keyword",
		"Random card",
	})
	if err != nil {
		return err
	}

	var query requests.CardQuery
	switch choice {
	case 0:
		query.Arcana = string(card.ArcanaMajor)
	case 1:
		labels := make([]string, len(card.Suits))
		for i, suit := range card.Suits {
			labels[i] = suit.Title() + " - " + suit.Theme()
		}
		idx, err := p.Select("Choose a suit:", labels)
		if err != nil {
			return err
		}
		query.Arcana = string(card.ArcanaMinor)
		query.Suit = string(card.Suits[idx])
	case 2:
		keyword, err := p.Ask("Enter keyword to search:", "")
		if err != nil {
			return err
		}
		query.Keyword = keyword
	default:
		return showRandomCard(cmd)
	}

	cards, err := filterCards(cmd, query)
	if err != nil {
		return err
	}
	renderCardList(out, cards)
	if len(cards) == 0 {
		return nil
	}

	details, err := p.YesNo("View card details?", false)
	if err != nil || !details {
		return err
	}

	names := make([]string, len(cards))
	for i := range cards {
		names[i] = cards[i].FullName()
	}
	idx, err := p.Select("Choose a card:", names)
	if err != nil {
		return err
	}
	renderCardDetail(out, &cards[idx])
	return nil
}
