package renderer

import (
	"bytes"
	"fmt"

	md "github.com/nao1215/markdown"

	"github.com/etnz/financechat"
)

// StatementSize is the number of transactions listed by the statement.
const StatementSize = 10

// RecentSize is the number of transactions listed by the summary.
const RecentSize = 5

// TransactionLine describes a transaction on a single line.
func TransactionLine(tx financechat.Transaction) string {
	date := FormatDate(tx.Timestamp)
	amount := FormatCurrency(tx.Amount)
	switch tx.Kind {
	case financechat.KindIncome:
		return fmt.Sprintf("%s - +%s (%s) em %s", date, amount, tx.Description, tx.SourceAccount)
	case financechat.KindExpense:
		return fmt.Sprintf("%s - -%s (%s) em %s", date, amount, tx.Description, tx.SourceAccount)
	case financechat.KindTransfer:
		return fmt.Sprintf("%s - Transferência de %s de %s para %s", date, amount, tx.SourceAccount, tx.DestinationAccount)
	case financechat.KindInvestment:
		return fmt.Sprintf("%s - Investimento de %s em %s via %s", date, amount, tx.Description, tx.SourceAccount)
	default:
		return fmt.Sprintf("%s - %s de %s", date, tx.Kind.Label(), amount)
	}
}

// Confirmation is the reply to a recorded transaction.
func Confirmation(tx financechat.Transaction) string {
	amount := FormatCurrency(tx.Amount)
	switch tx.Kind {
	case financechat.KindIncome:
		return fmt.Sprintf("✅ Receita de %s (%s) adicionada em %s.", amount, tx.Description, tx.SourceAccount)
	case financechat.KindExpense:
		return fmt.Sprintf("✅ Gasto de %s (%s) registrado em %s.", amount, tx.Description, tx.SourceAccount)
	case financechat.KindTransfer:
		return fmt.Sprintf("✅ Transferência de %s de %s para %s registrada.", amount, tx.SourceAccount, tx.DestinationAccount)
	default:
		return fmt.Sprintf("✅ Investimento de %s em %s via %s registrado.", amount, tx.Description, tx.SourceAccount)
	}
}

// InvestmentUpdated is the reply to a new current value.
func InvestmentUpdated(inv financechat.Investment) string {
	perf := financechat.InvestmentPerformance(inv)
	return fmt.Sprintf("✅ %s atualizado para %s (%s, %s).", inv.Description, FormatCurrency(inv.CurrentValue), FormatSignedCurrency(perf.Gain), perf.GainPercent.SignedString())
}

// BalanceMarkdown renders the balance of each account and the total.
func BalanceMarkdown(txs []financechat.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Saldo atual")

	balances := financechat.BalancesByAccount(txs)
	if len(balances) == 0 {
		doc.PlainText("Nenhuma transação encontrada.")
	}
	lines := make([]string, 0, len(balances))
	for _, e := range balances {
		lines = append(lines, fmt.Sprintf("%s: %s", e.Name, FormatCurrency(e.Value)))
	}
	doc.BulletList(lines...)
	doc.PlainText(fmt.Sprintf("**Total: %s**", FormatCurrency(balances.Total())))
	return doc.String()
}

// StatementMarkdown renders the last transactions, newest first.
func StatementMarkdown(txs []financechat.Transaction) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Últimas transações")
	recent := financechat.Recent(txs, StatementSize)
	if len(recent) == 0 {
		doc.PlainText("Nenhuma transação encontrada.")
		return doc.String()
	}
	doc.BulletList(transactionLines(recent)...)
	return doc.String()
}

// AccountsMarkdown renders the list of accounts.
func AccountsMarkdown(accounts []string) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Bancos disponíveis")
	doc.BulletList(accounts...)
	return doc.String()
}

// SummaryMarkdown renders the totals of txs and the most recent ones.
func SummaryMarkdown(txs []financechat.Transaction) string {
	s := financechat.Summarize(txs)

	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Resumo")
	doc.Table(md.TableSet{
		Header: []string{"", "Valor"},
		Rows: [][]string{
			{"Receitas", FormatCurrency(s.Income)},
			{"Gastos", FormatCurrency(s.Expenses)},
			{"Saldo", FormatSignedCurrency(s.Balance)},
			{"Investido", FormatCurrency(s.Invested)},
			{"Transferências", FormatCurrency(s.Transfers)},
		},
	})
	doc.PlainText(fmt.Sprintf("%d transações registradas.", s.Count))

	if recent := financechat.Recent(txs, RecentSize); len(recent) > 0 {
		doc.H2("Transações recentes")
		doc.BulletList(transactionLines(recent)...)
	}
	return doc.String()
}

// InvestmentsMarkdown renders the portfolio: totals, holdings per type and
// account, then every investment with its id.
func InvestmentsMarkdown(invs []financechat.Investment) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Investimentos")
	if len(invs) == 0 {
		doc.PlainText("Nenhum investimento registrado.")
		return doc.String()
	}

	perf := financechat.PortfolioPerformance(invs)
	doc.PlainText(fmt.Sprintf("Total investido: %s  \nValor atual: %s  \nRentabilidade: %s (%s)",
		FormatCurrency(financechat.TotalInvested(invs)),
		FormatCurrency(financechat.PortfolioValue(invs)),
		FormatSignedCurrency(perf.Gain),
		perf.GainPercent.SignedString()))

	var rows [][]string
	for _, h := range financechat.HoldingsByTypeAndAccount(invs) {
		rows = append(rows, []string{
			h.Type.Label(),
			h.Account,
			FormatCurrency(h.CurrentValue),
			h.Performance().GainPercent.SignedString(),
		})
	}
	doc.Table(md.TableSet{Header: []string{"Tipo", "Instituição", "Valor", "Rentabilidade"}, Rows: rows})

	doc.H2("Detalhes")
	rows = nil
	for _, inv := range invs {
		rows = append(rows, []string{
			inv.ID,
			inv.Description,
			FormatCurrency(inv.InitialValue),
			FormatCurrency(inv.CurrentValue),
			financechat.InvestmentPerformance(inv).GainPercent.SignedString(),
		})
	}
	doc.Table(md.TableSet{Header: []string{"ID", "Descrição", "Inicial", "Atual", "Rentabilidade"}, Rows: rows})
	return doc.String()
}

// tipIcons prefixes tips by level.
var tipIcons = map[financechat.TipLevel]string{
	financechat.TipInfo:       "ℹ️",
	financechat.TipPraise:     "👏",
	financechat.TipSuggestion: "💡",
	financechat.TipCaution:    "⚠️",
	financechat.TipWarning:    "🚨",
}

// TipsMarkdown renders financial tips.
func TipsMarkdown(tips []financechat.Tip) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Dicas financeiras")
	if len(tips) == 0 {
		doc.PlainText("Nenhuma dica no momento.")
		return doc.String()
	}
	lines := make([]string, 0, len(tips))
	for _, tip := range tips {
		lines = append(lines, tipIcons[tip.Level]+" "+tip.Message)
	}
	doc.BulletList(lines...)
	return doc.String()
}

func transactionLines(txs []financechat.Transaction) []string {
	lines := make([]string, 0, len(txs))
	for _, tx := range txs {
		lines = append(lines, TransactionLine(tx))
	}
	return lines
}
