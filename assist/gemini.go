package assist

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/etnz/financechat"
	"github.com/etnz/financechat/internal/log"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.0-flash"

// Gemini is a Classifier backed by the Gemini API.
type Gemini struct {
	client *genai.Client
	model  string
	logger *log.Logger
}

// NewGemini creates a classifier using the Gemini API with apiKey.
func NewGemini(ctx context.Context, apiKey, model string, logger *log.Logger) (*Gemini, error) {
	if apiKey == "" {
		return nil, errors.New("missing Gemini API key")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("cannot create Gemini client: %w", err)
	}
	if model == "" {
		model = DefaultModel
	}
	if logger == nil {
		logger = log.Discard()
	}
	return &Gemini{client: client, model: model, logger: logger.WithComponent(log.ComponentAssist)}, nil
}

const instruction = `Você classifica mensagens de um app de finanças pessoais em português.
Responda apenas com um objeto JSON com os campos:
kind: "receita", "gasto", "transferencia", "investimento" ou "none" se a mensagem não for uma transação;
amount: o valor em reais, número positivo;
description: uma descrição curta, sem o valor e sem o banco;
sourceAccount: o banco de origem, escolhido na lista de bancos, ou vazio;
destinationAccount: o banco de destino, apenas para transferências.`

// schema is the structure of the answers.
var schema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"kind": {
			Type: genai.TypeString,
			Enum: []string{
				string(financechat.KindIncome), string(financechat.KindExpense),
				string(financechat.KindTransfer), string(financechat.KindInvestment), "none",
			},
		},
		"amount":             {Type: genai.TypeNumber, Description: "Valor em reais."},
		"description":        {Type: genai.TypeString},
		"sourceAccount":      {Type: genai.TypeString},
		"destinationAccount": {Type: genai.TypeString},
	},
	Required: []string{"kind", "amount"},
}

// Classify implements Classifier.
func (g *Gemini) Classify(ctx context.Context, text string, accounts []string) (Suggestion, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
		ResponseMIMEType:  "application/json",
		ResponseSchema:    schema,
		Temperature:       genai.Ptr[float32](0),
	}
	prompt := fmt.Sprintf("Bancos: %s\nMensagem: %s", strings.Join(accounts, ", "), text)

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), config)
	if err != nil {
		g.logger.ErrorContext(ctx, "model call failed", log.NewFields().WithOperation(log.OpClassify).WithError(err).ToSlice()...)
		return Suggestion{}, fmt.Errorf("cannot classify message: %w", err)
	}
	raw := resp.Text()
	g.logger.DebugContext(ctx, "model answered", "model", g.model, "answer", raw)
	return decodeSuggestion(raw)
}
