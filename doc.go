// Package financechat provides the domain of a small, local-first personal
// finance tracker driven by chat-like messages.
//
// The core functionalities include:
//   - Message Parsing: turning free text such as "Gastei R$ 50 no mercado" into
//     a structured [Transaction], or a [ParseError] naming why it could not.
//   - State Management: an append-only, ordered log of transactions together
//     with investments and user defined accounts, held in an [AppState].
//   - Aggregation: stateless functions computing balances per account, totals
//     per kind, expenses per category, portfolio distribution, investment
//     performance and financial tips from a snapshot of the state.
//   - Data Exchange: encoding the whole state as a single JSON blob, and bulk
//     CSV import/export of transactions and investments.
//
// This package serves as the foundational logic for the `fchat` command-line
// tool and its HTTP API; presentation lives in the renderer package and
// durable storage in the store package.
package financechat
