package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/docs"
	"github.com/etnz/financechat/renderer"
)

// Reply is the answer to a message, in markdown.
type Reply struct {
	Text string `json:"text"`
	// Transaction is the transaction recorded by the message, if any.
	Transaction *financechat.Transaction `json:"transaction,omitempty"`
	// Warning tells the change was applied but not saved.
	Warning string `json:"warning,omitempty"`
}

const unknownCommand = "Comando não reconhecido. Digite /help para ver os comandos disponíveis."

// command handles "/name args".
type command func(ctx context.Context, s *Session, args []string) Reply

// commands are the chat commands, by lower case name.
var commands = map[string]command{
	"/saldo": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.BalanceMarkdown(s.Snapshot().Transactions())}
	},
	"/extrato": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.StatementMarkdown(s.Snapshot().Transactions())}
	},
	"/bancos": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.AccountsMarkdown(s.Accounts())}
	},
	"/resumo": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.SummaryMarkdown(s.Snapshot().Transactions())}
	},
	"/investimentos": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.InvestmentsMarkdown(s.Snapshot().Investments())}
	},
	"/dicas": func(_ context.Context, s *Session, _ []string) Reply {
		return Reply{Text: renderer.TipsMarkdown(financechat.FinancialTips(s.Snapshot().Transactions()))}
	},
	"/banco":     addAccount,
	"/investir":  invest,
	"/atualizar": updateInvestment,
	"/ajuda":     help,
	"/help":      help,
}

// Handle answers a chat message: a command or a transaction in plain text.
func (s *Session) Handle(ctx context.Context, input string) Reply {
	input = strings.TrimSpace(input)
	if input == "" {
		return Reply{Text: "Digite uma transação ou um comando. Digite /help para ver os comandos disponíveis."}
	}
	if strings.HasPrefix(input, "/") {
		fields := strings.Fields(input)
		cmd, ok := commands[strings.ToLower(fields[0])]
		if !ok {
			return Reply{Text: unknownCommand}
		}
		return cmd(ctx, s, fields[1:])
	}

	tx, err := s.ParseAndRecord(ctx, input)
	if err != nil && !isPersistence(err) {
		return Reply{Text: "Não consegui entender a transação: " + reason(err)}
	}
	return withWarning(Reply{Text: renderer.Confirmation(tx), Transaction: &tx}, err)
}

// reason is the user facing cause of a failed message.
func reason(err error) string {
	var pe *financechat.ParseError
	if errors.As(err, &pe) {
		return pe.Reason.String()
	}
	return err.Error()
}

func withWarning(r Reply, err error) Reply {
	if err != nil {
		r.Warning = err.Error()
		r.Text += warning(err)
	}
	return r
}

func addAccount(ctx context.Context, s *Session, args []string) Reply {
	name := financechat.Sanitize(strings.Join(args, " "))
	if strings.TrimSpace(name) == "" {
		return Reply{Text: "Informe o nome do banco: /banco <nome>"}
	}
	added, err := s.AddAccount(ctx, name)
	if !added {
		return Reply{Text: fmt.Sprintf("O banco %s já está cadastrado.", strings.TrimSpace(name))}
	}
	return withWarning(Reply{Text: fmt.Sprintf("✅ Banco %s adicionado.", strings.TrimSpace(name))}, err)
}

func invest(ctx context.Context, s *Session, args []string) Reply {
	const usage = "Uso: /investir <tipo> <valor> [banco]. Tipos: acoes, fundos, renda-fixa, criptomoedas, tesouro-direto, outros."
	if len(args) < 2 {
		return Reply{Text: usage}
	}
	typ, err := financechat.ParseInvestmentType(args[0])
	if err != nil {
		return Reply{Text: usage}
	}
	amount, err := financechat.ParseAmount(args[1])
	if err != nil {
		return Reply{Text: "Valor inválido: " + args[1]}
	}
	account := strings.Join(args[2:], " ")
	for _, a := range s.Accounts() {
		if strings.EqualFold(a, account) {
			account = a
		}
	}
	tx, _, err := s.Invest(ctx, typ, amount, financechat.Sanitize(account))
	if err != nil && !isPersistence(err) {
		return Reply{Text: "Não foi possível registrar o investimento: " + reason(err)}
	}
	return withWarning(Reply{Text: renderer.Confirmation(tx), Transaction: &tx}, err)
}

func updateInvestment(ctx context.Context, s *Session, args []string) Reply {
	if len(args) != 2 {
		return Reply{Text: "Uso: /atualizar <id> <valor>. Veja os ids com /investimentos."}
	}
	value, err := financechat.ParseAmount(args[1])
	if err != nil {
		return Reply{Text: "Valor inválido: " + args[1]}
	}
	inv, err := s.UpdateInvestment(ctx, args[0], value)
	var nf *financechat.NotFoundError
	switch {
	case errors.As(err, &nf):
		return Reply{Text: fmt.Sprintf("Investimento %s não encontrado.", nf.ID)}
	case err != nil && !isPersistence(err):
		return Reply{Text: "Não foi possível atualizar o investimento: " + reason(err)}
	}
	return withWarning(Reply{Text: renderer.InvestmentUpdated(inv)}, err)
}

func help(_ context.Context, _ *Session, args []string) Reply {
	topic := "comandos"
	if len(args) > 0 {
		topic = args[0]
	}
	content, err := docs.GetTopic(topic)
	if err != nil {
		return Reply{Text: fmt.Sprintf("Tópico %q não encontrado.", topic)}
	}
	return Reply{Text: content}
}
