package tui

import (
	"errors"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

func centered(content string, w, h int) string {
	if w == 0 || h == 0 {
		return boxStyle.Render(content)
	}
	return lipgloss.Place(
		w, h,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Render(content),
		lipgloss.WithWhitespaceChars(" "),
	)
}

func recipientValidator(self string) func(string) error {
	return func(input string) error {
		if input == "" {
			return errors.New("Invalid recipient: address cannot be empty!")
		}
		if input == self {
			return errors.New("Invalid recipient: cannot send to your own address!")
		}
		return nil
	}
}

func amountValidator(input string) error {
	v, err := strconv.ParseUint(input, 10, 64)
	if err != nil || v == 0 {
		return errors.New("Invalid amount: amount should be a positive whole number!")
	}
	return nil
}
