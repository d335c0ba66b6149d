// Package chat implements the rule-based query responder: free-text
// messages are classified against an ordered trigger table and answered
// from the caller's financial record.
package chat

import (
	"fmt"
	"strings"
	"time"

	"finpal/internal/core"
)

// Reply texts for empty input and for unavailable fields.
const (
	emptyMessageReply = "I didn't get that. Please send a message."

	noBankBalanceReply = "I don't have your bank balance information."
	noMutualFundsReply = "I don't have mutual funds information for you."
	noStocksReply      = "I don't have stock holdings information for you."
	noLoanReply        = "I don't have loan / liability details for you."
	noCreditScoreReply = "Your credit score is not available."
)

// rule binds a set of trigger substrings to a reply formatter. Rules are
// evaluated in table order and the first match wins, so trigger overlap
// between rules (a message mentioning both "loan" and "credit") resolves
// to the earlier entry.
type rule struct {
	triggers []string
	reply    func(core.FinancialRecord) string
}

// rules is the authoritative priority order. Reordering entries changes
// behavior; add new topics by appending or inserting rows, not by editing
// control flow.
var rules = []rule{
	{
		triggers: []string{"balance", "bank", "savings"},
		reply: func(r core.FinancialRecord) string {
			if r.BankBalance == nil {
				return noBankBalanceReply
			}
			return fmt.Sprintf("Your bank balance is %s.", core.FormatINR(*r.BankBalance))
		},
	},
	{
		triggers: []string{"mutual", "mf", "fund"},
		reply: func(r core.FinancialRecord) string {
			if r.MutualFunds == nil {
				return noMutualFundsReply
			}
			return fmt.Sprintf("Your mutual funds are worth %s.", core.FormatINR(*r.MutualFunds))
		},
	},
	{
		triggers: []string{"stock", "equity", "shares"},
		reply: func(r core.FinancialRecord) string {
			if r.Stocks == nil {
				return noStocksReply
			}
			return fmt.Sprintf("Your stock holdings are worth %s.", core.FormatINR(*r.Stocks))
		},
	},
	{
		triggers: []string{"loan", "debt", "liability", "liabilities"},
		reply: func(r core.FinancialRecord) string {
			if r.Loan == nil {
				return noLoanReply
			}
			// Zero is meaningful here: the loan was reported and is paid off.
			if *r.Loan == 0 {
				return "You have no active loans or liabilities."
			}
			return fmt.Sprintf("Your current loan is %s.", core.FormatINR(*r.Loan))
		},
	},
	{
		triggers: []string{"credit", "cibil", "score"},
		reply: func(r core.FinancialRecord) string {
			if r.CreditScore == nil {
				return noCreditScoreReply
			}
			// Scores are plain integers: no currency symbol, no grouping.
			return fmt.Sprintf("Your credit score is %d.", *r.CreditScore)
		},
	},
	{
		triggers: []string{"net worth", "total worth", "networth", "worth"},
		reply: func(r core.FinancialRecord) string {
			nw := r.NetWorth()
			if nw < 0 {
				return fmt.Sprintf("Your liabilities exceed your assets by %s.", core.FormatINR(-nw))
			}
			return fmt.Sprintf("Your total net worth is %s.", core.FormatINR(nw))
		},
	},
}

// Responder classifies messages and formats replies. It holds no request
// state and is safe for concurrent use.
type Responder struct {
	now func() time.Time
}

// NewResponder returns a responder using the local wall clock for
// fallback timestamps.
func NewResponder() *Responder {
	return &Responder{now: time.Now}
}

// NewResponderWithClock returns a responder with an injected clock.
func NewResponderWithClock(now func() time.Time) *Responder {
	if now == nil {
		now = time.Now
	}
	return &Responder{now: now}
}

// Reply produces exactly one reply for any message and record. It never
// fails: empty input, empty records and absent fields all map to defined
// reply strings.
func (rd *Responder) Reply(record core.FinancialRecord, message string) string {
	if strings.TrimSpace(message) == "" {
		return emptyMessageReply
	}

	lowered := strings.ToLower(message)
	for _, r := range rules {
		for _, trigger := range r.triggers {
			if strings.Contains(lowered, trigger) {
				return r.reply(record)
			}
		}
	}

	return fmt.Sprintf("I am still Learning, I don't have information about it. \"%s\" — (server time: %s)",
		message, rd.now().Format("2006-01-02 15:04:05"))
}
