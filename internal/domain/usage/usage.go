// Package usage describes backend token consumption for a budget period.
package usage

import "time"

// Period is the aggregation granularity.
type Period string

// Aggregation period constants.
const (
	PeriodDay   Period = "day"
	PeriodMonth Period = "month"
)

// ParsePeriod validates a period name. Empty selects PeriodDay.
func ParsePeriod(s string) (Period, bool) {
	switch Period(s) {
	case "", PeriodDay:
		return PeriodDay, true
	case PeriodMonth:
		return PeriodMonth, true
	default:
		return "", false
	}
}

// Report is a reasoning backend token usage report for one period.
type Report struct {
	period      Period
	periodStart time.Time
	periodEnd   time.Time
	provider    string
	tokensUsed  int64
	limit       int64
	remaining   int64
}

// NewReport creates a report. limit 0 means unlimited; remaining is then -1.
func NewReport(period Period, start, end time.Time, provider string, used, limit, remaining int64) Report {
	return Report{
		period:      period,
		periodStart: start,
		periodEnd:   end,
		provider:    provider,
		tokensUsed:  used,
		limit:       limit,
		remaining:   remaining,
	}
}

// Period returns the aggregation granularity.
func (r Report) Period() Period { return r.period }

// PeriodStart returns the inclusive period start (UTC).
func (r Report) PeriodStart() time.Time { return r.periodStart }

// PeriodEnd returns the exclusive period end, which is also when the budget resets.
func (r Report) PeriodEnd() time.Time { return r.periodEnd }

// Provider returns the backend name, empty when no budget is tracked.
func (r Report) Provider() string { return r.provider }

// TokensUsed returns tokens consumed in the period.
func (r Report) TokensUsed() int64 { return r.tokensUsed }

// TokensLimit returns the cap, 0 if unlimited.
func (r Report) TokensLimit() int64 { return r.limit }

// TokensRemaining returns tokens left, -1 if unlimited.
func (r Report) TokensRemaining() int64 { return r.remaining }

// Unlimited reports whether no cap applies.
func (r Report) Unlimited() bool { return r.limit == 0 }

// Exhausted reports whether a capped budget is spent.
func (r Report) Exhausted() bool { return r.limit > 0 && r.remaining <= 0 }
