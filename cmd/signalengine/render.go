package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"trading-signalsv1/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#7C3AED")).
		Padding(0, 1)

	panelStyle = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#3B82F6")).
		Padding(0, 2).
		Width(72)

	buyStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	sellStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	holdStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280")).Width(14)
	warningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
)

// renderSignal formats a Signal for the terminal. Targets are hidden for HOLD.
func renderSignal(sig model.Signal) string {
	var b strings.Builder

	title := fmt.Sprintf("%s · %s · %s/%s", sig.Symbol, sig.Timeframe, sig.SignalType, sig.RiskTolerance)
	b.WriteString(titleStyle.Render(title))
	b.WriteString("\n")

	var body strings.Builder
	row := func(label, value string) {
		body.WriteString(labelStyle.Render(label))
		body.WriteString(value)
		body.WriteString("\n")
	}

	row("Signal", actionStyle(sig.Signal).Render(string(sig.Signal)))
	row("Confidence", fmt.Sprintf("%.1f%%", sig.Confidence))
	row("Regime", string(sig.Regime))
	row("Scores", fmt.Sprintf("buy %.2f / sell %.2f (threshold %.2f)", sig.BuyScore, sig.SellScore, sig.Threshold))
	row("Price", fmt.Sprintf("%.2f", sig.CurrentPrice))

	if sig.Signal.Directional() {
		row("Entry", fmt.Sprintf("%.2f - %.2f", sig.EntryRange.Low, sig.EntryRange.High))
		row("Take profit", fmt.Sprintf("%.2f (%.1f%%), %.2f (%.1f%%)",
			sig.TakeProfit1, sig.TakeProfit1Pct, sig.TakeProfit2, sig.TakeProfit2Pct))
		row("Stop loss", fmt.Sprintf("%.2f (%.2f%%)", sig.StopLoss, sig.StopLossPct))
		row("Risk/reward", fmt.Sprintf("%.2f", sig.RiskReward))
	}
	row("Data", string(sig.DataSource))

	if len(sig.Reasons) > 0 {
		body.WriteString("\nReasons:\n")
		for _, r := range sig.Reasons {
			body.WriteString("  • " + r + "\n")
		}
	}
	if len(sig.Warnings) > 0 {
		body.WriteString("\n")
		for _, w := range sig.Warnings {
			body.WriteString(warningStyle.Render("! "+w) + "\n")
		}
	}

	b.WriteString(panelStyle.Render(strings.TrimRight(body.String(), "\n")))
	return b.String()
}

func actionStyle(a model.Action) lipgloss.Style {
	switch a {
	case model.ActionBuy:
		return buyStyle
	case model.ActionSell:
		return sellStyle
	}
	return holdStyle
}
