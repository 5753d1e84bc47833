// Wallet view for end users: shows the balance of one keypair and sends
// signed transfers to a node.
package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/shu8h0-null/minledger/core/blockchain"
	"github.com/shu8h0-null/minledger/core/rpc"
)

const requestTimeout = 10 * time.Second

const (
	recipientInput = iota
	amountInput
	sendButton
)

type balanceMsg struct {
	balance int64
	err     error
}

type sentMsg struct {
	id  string
	err error
}

type walletModel struct {
	client    *rpc.Client
	keypair   *blockchain.Keypair
	balance   int64
	inputs    []textinput.Model
	focus     int
	status    string
	err       error
	winWidth  int
	winHeight int
}

func newWalletModel(client *rpc.Client, kp *blockchain.Keypair) walletModel {
	inputs := make([]textinput.Model, 2)

	inputs[recipientInput] = textinput.New()
	inputs[recipientInput].Prompt = "-> "
	inputs[recipientInput].Placeholder = "Address of the wallet to send to"
	inputs[recipientInput].Width = 60
	inputs[recipientInput].Validate = recipientValidator(kp.PublicIdentity())
	inputs[recipientInput].Focus()

	inputs[amountInput] = textinput.New()
	inputs[amountInput].Prompt = "-> "
	inputs[amountInput].Placeholder = "Amount to send"
	inputs[amountInput].Width = 30
	inputs[amountInput].Validate = amountValidator

	return walletModel{
		client:  client,
		keypair: kp,
		inputs:  inputs,
	}
}

func (m walletModel) fetchBalance() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		bal, err := m.client.Balance(ctx, m.keypair.PublicIdentity())
		return balanceMsg{balance: bal, err: err}
	}
}

func (m walletModel) send(to string, amount uint64) tea.Cmd {
	return func() tea.Msg {
		tx := blockchain.NewTransaction(m.keypair.PublicIdentity(), to, amount)
		if err := tx.Sign(m.keypair); err != nil {
			return sentMsg{err: err}
		}
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		id, err := m.client.SubmitTransaction(ctx, *tx)
		return sentMsg{id: id, err: err}
	}
}

func (m walletModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.fetchBalance())
}

func (m walletModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		case "down", "tab":
			if m.focus < sendButton {
				m.focus++
			}
		case "up", "shift+tab":
			if m.focus > 0 {
				m.focus--
			}
		case "ctrl+r":
			cmds = append(cmds, m.fetchBalance())
		case "enter":
			if m.focus == sendButton {
				to, amount, err := m.formValues()
				if err != nil {
					m.err = err
					return m, nil
				}
				m.status = "Sending..."
				return m, m.send(to, amount)
			}
			m.focus++
		}

	case balanceMsg:
		if msg.err != nil {
			m.err = msg.err
		} else {
			m.balance = msg.balance
		}
		return m, nil

	case sentMsg:
		if msg.err != nil {
			m.err = msg.err
			m.status = ""
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("Submitted %s", msg.id)
		m.inputs[recipientInput].Reset()
		m.inputs[amountInput].Reset()
		m.focus = recipientInput
		return m, m.fetchBalance()

	case tea.WindowSizeMsg:
		m.winWidth = msg.Width
		m.winHeight = msg.Height
	}

	for i := range m.inputs {
		if i == m.focus {
			m.inputs[i].Focus()
		} else {
			m.inputs[i].Blur()
		}
		var cmd tea.Cmd
		m.inputs[i], cmd = m.inputs[i].Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// formValues returns the validated recipient and amount.
func (m walletModel) formValues() (string, uint64, error) {
	to := m.inputs[recipientInput].Value()
	if err := m.inputs[recipientInput].Validate(to); err != nil {
		return "", 0, err
	}
	raw := m.inputs[amountInput].Value()
	if err := amountValidator(raw); err != nil {
		return "", 0, err
	}
	amount, _ := strconv.ParseUint(raw, 10, 64)
	return to, amount, nil
}

func (m walletModel) View() string {
	button := " Send "
	if m.focus == sendButton {
		button = buttonFocusedStyle.Render(button)
	} else {
		button = buttonStyle.Render(button)
	}

	line := ""
	if m.err != nil {
		line = errorStyle.Render(m.err.Error())
	} else if m.status != "" {
		line = statusStyle.Render(m.status)
	}

	content := fmt.Sprintf(
		`~~ Wallet ~~
%s %s
%s %d

%s

%s
%s

%s
%s

%s

%s
`,
		inputStyle.Render("Address"), m.keypair.PublicIdentity(),
		inputStyle.Render("Balance"), m.balance,
		line,
		inputStyle.Render("Recipient"),
		m.inputs[recipientInput].View(),
		inputStyle.Render("Amount"),
		m.inputs[amountInput].View(),
		button,
		helpStyle.Render("Tab to move, Ctrl+R to refresh, Esc to quit."),
	)

	return centered(content, m.winWidth, m.winHeight)
}
