// Package folio is the client of the portfolio backend REST API.
//
// The backend computes account summaries, portfolio aggregates (total, per
// owner, per owner and account filter, per owner and account type), keeps
// prices and the market value history, and issues session tokens.
//
// Every request but the login carries the session token as a bearer
// credential. A 401 answer logs the session out: the token might look valid
// to the client and yet be revoked by the backend.
//
// This package serves as the foundation of the `fv` command-line tool, where
// each backend view is rendered as markdown in the terminal.
package folio
