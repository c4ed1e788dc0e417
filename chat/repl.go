package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const prompt = "você> "

// Welcome is printed when a conversation starts.
const Welcome = "Olá! Sou o FinanceChat. Conte suas receitas, gastos, transferências e investimentos, por exemplo \"Gastei R$ 50 no mercado\". Digite /help para ver os comandos ou 'sair' para terminar."

// REPL runs a conversation on a terminal.
type REPL struct {
	w       io.Writer
	r       *bufio.Reader
	session *Session
	// Render turns replies into what is printed, markdown is printed as is when nil.
	Render func(markdown string) string
}

// NewREPL creates a conversation reading r and writing w.
func NewREPL(w io.Writer, r io.Reader, s *Session) *REPL {
	return &REPL{w: w, r: bufio.NewReader(r), session: s}
}

// Run reads messages until the end of input or "sair". The prompts are
// answered first, as if typed by the user.
func (c *REPL) Run(ctx context.Context, prompts ...string) error {
	fmt.Fprintln(c.w, Welcome)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(c.w, prompt)
		var input string

		// Flush prompts from the list and then ask for the user.
		if len(prompts) > 0 {
			input, prompts = prompts[0], prompts[1:]
			fmt.Fprintln(c.w, input)
		} else {
			var err error
			input, err = c.r.ReadString('\n')
			if err == io.EOF && strings.TrimSpace(input) == "" {
				fmt.Fprintln(c.w)
				return nil // Ctrl+D
			}
			if err != nil && err != io.EOF {
				return err
			}
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}
		switch strings.ToLower(input) {
		case "sair", "bye", "exit":
			return nil
		}

		reply := c.session.Handle(ctx, input)
		text := reply.Text
		if c.Render != nil {
			text = c.Render(text)
		}
		fmt.Fprintln(c.w, strings.TrimRight(text, "\n"))
	}
}
