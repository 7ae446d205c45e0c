package llm

import (
	"fmt"
	"strings"
)

func describeCards(cards []CardContext) string {
	blocks := make([]string, 0, len(cards))
	for _, c := range cards {
		position := c.Position
		if position == "" {
			position = "General"
		}
		reversed := ""
		if c.Reversed {
			reversed = " (Reversed)"
		}

		var b strings.Builder
		fmt.Fprintf(&b, "%s: %s%s\n", position, c.Name, reversed)
		fmt.Fprintf(&b, "Keywords: %s\n", c.Keywords)
		fmt.Fprintf(&b, "Upright Meaning: %s\n", c.UprightMeaning)
		fmt.Fprintf(&b, "Reversed Meaning: %s", c.ReversedMeaning)
		if c.Element != "" {
			fmt.Fprintf(&b, "\nElement: %s", c.Element)
		}
		if c.AstrologicalSign != "" {
			fmt.Fprintf(&b, "\nAstrological Sign: %s", c.AstrologicalSign)
		}
		blocks = append(blocks, b.String())
	}
	return strings.Join(blocks, "\n\n")
}

func interpretationPrompt(cards []CardContext, question, spreadKind string) string {
	return fmt.Sprintf(`You are an experienced tarot reader providing insightful interpretations.

Question asked: %s
Spread type: %s

Cards drawn:
%s

Please provide a comprehensive interpretation of this tarot reading that:
1. Addresses the querent's question directly
2. Explains how each card relates to the question and position
3. Identifies connections and patterns between the cards
4. Offers insights into the current situation and potential outcomes
5. Maintains a compassionate and empowering tone

Format your response in clear paragraphs, avoiding bullet points.
`, question, spreadKind, describeCards(cards))
}

func advicePrompt(cards []CardContext, question, interpretation string) string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		name := c.Name
		if c.Reversed {
			name += " (Reversed)"
		}
		names = append(names, name)
	}

	return fmt.Sprintf(`Based on this tarot reading interpretation:

Question: %s
Cards: %s

Interpretation:
%s

Please provide practical, actionable advice that:
1. Helps the querent navigate their situation
2. Suggests concrete steps they can take
3. Highlights opportunities for growth
4. Acknowledges potential challenges while remaining constructive
5. Empowers the querent to make their own choices

Keep the advice concise and focused on what the querent can control.
`, question, strings.Join(names, ", "), interpretation)
}

func followupPrompt(original ReadingContext, followup string) string {
	return fmt.Sprintf(`Previous tarot reading:
Question: %s
Interpretation: %s
Advice: %s

Follow-up question: %s

Please provide a thoughtful response that:
1. Directly addresses the follow-up question
2. References the original reading where relevant
3. Provides additional insights or clarification
4. Maintains consistency with the original interpretation
`, original.Question, original.Interpretation, original.Advice, followup)
}
