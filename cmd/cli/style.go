package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shu8h0-null/minledger/core/blockchain"
)

const (
	cyan     = lipgloss.Color("#79c3ee")
	green    = lipgloss.Color("#78dba9")
	hotPink  = lipgloss.Color("#FF06B7")
	darkGray = lipgloss.Color("#767676")
	red      = lipgloss.Color("#e05f65")
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(cyan)
	keyStyle   = lipgloss.NewStyle().Foreground(darkGray).Width(10)
	okStyle    = lipgloss.NewStyle().Foreground(green).Bold(true)
	errorStyle = lipgloss.NewStyle().Foreground(red).Bold(true)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(hotPink).
			Padding(0, 1).
			Align(lipgloss.Left)
)

func field(key, value string) string {
	return keyStyle.Render(key) + value
}

func renderBlock(b *blockchain.Block) string {
	lines := []string{
		titleStyle.Render(fmt.Sprintf("Block #%d", b.Index)),
		field("hash", b.Hash),
		field("prev", b.PrevHash),
		field("nonce", fmt.Sprintf("%d", b.Nonce)),
		field("time", fmt.Sprintf("%d", b.Timestamp)),
	}
	if b.Marker != "" {
		lines = append(lines, field("payload", b.Marker))
	}
	for i := range b.Transactions {
		lines = append(lines, field(fmt.Sprintf("tx %d", i), b.Transactions[i].String()))
	}
	return boxStyle.Render(strings.Join(lines, "\n"))
}

func renderValid(valid bool) string {
	if valid {
		return okStyle.Render("chain is valid")
	}
	return errorStyle.Render("chain is INVALID")
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
