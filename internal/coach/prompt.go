package coach

import (
	"encoding/json"
	"fmt"
	"strings"

	"finzen/internal/core"
)

// tipMessage asks for the once-daily proactive nudge. Sent through the
// same relay as user chat, just with a canned message.
const tipMessage = "Analyze my recent transaction history and balance. " +
	"Provide ONE single, short, proactive sentence of advice, warning, or praise " +
	"based on this specific data. Do not say 'Based on your data', just state the advice."

// snapshotTx mirrors the transaction shape the browser client stores, so
// the model sees the same field names the product always used.
type snapshotTx struct {
	ID       int64   `json:"id"`
	Desc     string  `json:"desc"`
	Amount   float64 `json:"amount"`
	Type     string  `json:"type"`
	Category string  `json:"category"`
	IsGig    bool    `json:"isGig"`
	Date     string  `json:"date"`
}

// BuildPrompt templates the user's live profile data around their message
// so the model can act like a real coach. Only the five most recent
// transactions are included.
func BuildPrompt(p core.Profile, message string) string {
	recent := p.Transactions
	if len(recent) > 5 {
		recent = recent[:5]
	}
	txs := make([]snapshotTx, 0, len(recent))
	for _, t := range recent {
		txs = append(txs, snapshotTx{
			ID:       t.ID,
			Desc:     t.Description,
			Amount:   t.Amount.Dollars(),
			Type:     string(t.Type),
			Category: t.Category,
			IsGig:    t.IsGig,
			Date:     t.Date.Format("1/2/2006"),
		})
	}
	recentJSON, err := json.Marshal(txs)
	if err != nil {
		recentJSON = []byte("[]")
	}

	var b strings.Builder
	b.WriteString("You are FinZen, a friendly, encouraging, and proactive financial coach.\n\n")
	b.WriteString("USER CONTEXT:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.Name)
	fmt.Fprintf(&b, "- Goal: %s\n", p.Goal)
	fmt.Fprintf(&b, "- Monthly Income: $%.2f\n", p.MonthlyIncome.Dollars())
	fmt.Fprintf(&b, "- Current Balance: $%.2f\n", p.Balance.Dollars())
	fmt.Fprintf(&b, "- Recent Transactions: %s\n\n", recentJSON)
	fmt.Fprintf(&b, "USER MESSAGE: %q\n\n", message)
	b.WriteString("INSTRUCTIONS:\n")
	b.WriteString("- Keep your response short (under 50 words) and conversational.\n")
	b.WriteString("- Use the user's name occasionally.\n")
	b.WriteString("- Reference their specific data (like their balance or recent spending) if relevant.\n")
	b.WriteString("- Be supportive but realistic.\n")
	return b.String()
}

// BuildTipPrompt builds the proactive daily-tip prompt from the same
// template as regular chat.
func BuildTipPrompt(p core.Profile) string {
	return BuildPrompt(p, tipMessage)
}
