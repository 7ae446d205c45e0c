package cmd

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"tarot-agent/app/models/card"
	"tarot-agent/app/models/reading"
	"tarot-agent/app/requests"
	"tarot-agent/app/services"
	"tarot-agent/pkg/console"
)

// 终端输出宽度
const (
	textWidth   = 80
	detailWidth = 65
)

var (
	positionStyle = lipgloss.NewStyle().Foreground(console.ColorWarning)
	labelStyle    = lipgloss.NewStyle().Bold(true).Foreground(console.ColorAccent)
	uprightStyle  = lipgloss.NewStyle().Foreground(console.ColorSuccess)
	reversedStyle = lipgloss.NewStyle().Foreground(console.ColorError)
	rule          = strings.Repeat("─", 60)
)

func renderWelcome(w io.Writer) {
	fmt.Fprintln(w, console.Title("✨ TAROT AGENT ✨\nYour AI-powered spiritual guide"))
	fmt.Fprintln(w)
}

func renderReading(w io.Writer, result *services.ReadingResult) {
	rd := result.Reading

	fmt.Fprintln(w)
	fmt.Fprintln(w, console.TitleStyle.Render(fmt.Sprintf("📖 Reading #%d", rd.ID)))
	if name := rd.Querent(); name != "" {
		fmt.Fprintf(w, "For: %s\n", name)
	}
	fmt.Fprintf(w, "Question: %s\n", rd.Question)
	fmt.Fprintf(w, "Spread: %s\n", rd.SpreadDescription())
	fmt.Fprintln(w, console.MutedStyle.Render(rule))

	fmt.Fprintln(w, labelStyle.Render("Cards Drawn:"))
	if len(result.Cards) == 0 {
		fmt.Fprintln(w, console.WarningStyle.Render("  The deck is empty. Run `tarot-agent seed` first."))
	}
	for _, drawn := range result.Cards {
		position := drawn.Ref.Position
		if position == "" {
			position = "General"
		}
		suffix := ""
		if drawn.Ref.Reversed {
			suffix = " (Reversed)"
		}
		fmt.Fprintln(w, positionStyle.Render(fmt.Sprintf("  %s: %s%s", position, drawn.Name(), suffix)))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, labelStyle.Render("Interpretation:"))
	fmt.Fprintln(w, interpretationBody(rd))

	if advice := rd.AdviceText(); advice != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, labelStyle.Render("Advice:"))
		fmt.Fprintln(w, console.Wrap(advice, textWidth))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, console.MutedStyle.Render(rule))
}

func interpretationBody(rd *reading.Reading) string {
	switch rd.InterpretationStatus {
	case reading.StatusSucceeded:
		return console.Wrap(rd.InterpretationText(), textWidth)
	case reading.StatusPending:
		return console.MutedStyle.Render("Not interpreted yet.")
	default:
		return console.WarningStyle.Render(fmt.Sprintf(
			"The interpretation is unavailable right now. Try `tarot-agent reinterpret %d` later.", rd.ID))
	}
}

func renderReadingNotFound(w io.Writer, id uint64) {
	fmt.Fprintln(w, console.ErrorStyle.Render(fmt.Sprintf("Reading #%d not found", id)))
}

func renderReadingSummary(w io.Writer, rd *reading.Reading) {
	question := rd.Question
	if runes := []rune(question); len(runes) > 60 {
		question = string(runes[:60]) + "..."
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, positionStyle.Render(fmt.Sprintf("ID: %d | %s", rd.ID, rd.PerformedAt.Format("January 02, 2006"))))
	fmt.Fprintf(w, "Question: %s\n", question)
	fmt.Fprintln(w, labelStyle.Render("Spread: "+rd.SpreadDescription()))
	fmt.Fprintln(w, console.MutedStyle.Render(strings.Repeat("─", 30)))
}

func renderCardList(w io.Writer, cards []card.Card) {
	if len(cards) == 0 {
		fmt.Fprintln(w, console.WarningStyle.Render("No cards found"))
		return
	}

	for i := range cards {
		fmt.Fprintln(w)
		fmt.Fprintln(w, labelStyle.Render(cards[i].FullName()))
		fmt.Fprintf(w, "Keywords: %s\n", cards[i].Keywords)
		fmt.Fprintln(w, console.MutedStyle.Render(strings.Repeat("─", 30)))
	}
}

func renderCardDetail(w io.Writer, c *card.Card) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n\n", positionStyle.Render("Keywords:"), c.Keywords)
	fmt.Fprintf(&b, "%s %s\n", labelStyle.Render("Element:"), orNA(c.Element))
	fmt.Fprintf(&b, "%s %s\n\n", labelStyle.Render("Astrological:"), orNA(c.AstrologicalSign))
	fmt.Fprintln(&b, uprightStyle.Render("Upright Meaning:"))
	fmt.Fprintf(&b, "%s\n\n", console.Wrap(c.UprightMeaning, detailWidth))
	fmt.Fprintln(&b, reversedStyle.Render("Reversed Meaning:"))
	fmt.Fprint(&b, console.Wrap(c.ReversedMeaning, detailWidth))
	if c.Description != "" {
		fmt.Fprintf(&b, "\n\n%s\n%s", console.TitleStyle.Render("Description:"), console.Wrap(c.Description, detailWidth))
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, console.TitleStyle.Render(c.FullName()))
	fmt.Fprintln(w, console.BoxStyle.Render(b.String()))
}

func renderFollowup(w io.Writer, answer string, ok bool) {
	fmt.Fprintln(w)
	if !ok {
		fmt.Fprintln(w, console.WarningStyle.Render("The cards are silent right now. The interpretation service is unavailable."))
		fmt.Fprintln(w)
		return
	}
	fmt.Fprintln(w, labelStyle.Render("Response:"))
	fmt.Fprintln(w, console.Wrap(answer, textWidth))
	fmt.Fprintln(w)
}

func renderTranscript(w io.Writer, exchanges []reading.FollowupExchange) {
	if len(exchanges) == 0 {
		return
	}
	fmt.Fprintln(w, labelStyle.Render("Follow-ups:"))
	for _, exchange := range exchanges {
		fmt.Fprintf(w, "  Q: %s\n", exchange.Question)
		fmt.Fprintln(w, console.Indent(console.Wrap(exchange.Answer, textWidth-4), "  "))
	}
	fmt.Fprintln(w)
}

func orNA(value string) string {
	if value == "" {
		return "N/A"
	}
	return value
}

// validationMessage 取第一条验证错误信息
func validationMessage(err error) string {
	var verr requests.ValidationError
	if !errors.As(err, &verr) || len(verr.Errors) == 0 {
		return err.Error()
	}

	fields := make([]string, 0, len(verr.Errors))
	for field := range verr.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)
	if messages := verr.Errors[fields[0]]; len(messages) > 0 {
		return messages[0]
	}
	return err.Error()
}
