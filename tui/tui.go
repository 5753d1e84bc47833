package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/rpc"
)

// Run opens the wallet view for kp against the node behind client and blocks
// until the user quits.
func Run(client *rpc.Client, kp *blockchain.Keypair) error {
	p := tea.NewProgram(newWalletModel(client, kp), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
