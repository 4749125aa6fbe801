// Package budget implements the payment breakdown rules for proposals
// and invoices: completion-based upfront commitments, milestone sum
// validation and auto-splitting, and hourly totals.
package budget

import (
	"fmt"
	"math"
	"time"

	"github.com/yukikurage/freelance-marketplace-api/internal/constants"
	"github.com/yukikurage/freelance-marketplace-api/internal/models"
)

// CompletionBreakdown is the payment split for completion-based execution.
type CompletionBreakdown struct {
	TotalBid        float64 `json:"totalBid"`
	UpfrontAmount   float64 `json:"upfrontAmount"`
	RemainderAmount float64 `json:"remainderAmount"`
}

// MilestoneCheck is the result of validating explicit milestone amounts
// against the total bid. Delta is totalBid - sum(amounts): positive means
// the milestones fall short, negative means they exceed the bid.
type MilestoneCheck struct {
	Sum     float64 `json:"sum"`
	Delta   float64 `json:"delta"`
	OK      bool    `json:"ok"`
	Message string  `json:"message,omitempty"`
}

// Clamp normalizes an amount: negative, NaN and infinite inputs become 0.
// Money math must never propagate NaN.
func Clamp(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

// ForCompletion computes the upfront commitment for a completion-based
// proposal: round(totalBid * 0.12) paid in advance, the rest on
// completion.
func ForCompletion(totalBid float64) CompletionBreakdown {
	totalBid = Clamp(totalBid)
	upfront := math.Round(totalBid * constants.UpfrontRate)
	return CompletionBreakdown{
		TotalBid:        totalBid,
		UpfrontAmount:   upfront,
		RemainderAmount: totalBid - upfront,
	}
}

// CheckMilestoneSum validates explicitly assigned milestone amounts
// against the total bid. A mismatch is reported as data, not an error:
// the caller decides whether to block submission.
func CheckMilestoneSum(milestones []models.Milestone, totalBid float64) MilestoneCheck {
	totalBid = Clamp(totalBid)

	var sum float64
	for _, m := range milestones {
		sum += Clamp(m.Amount)
	}

	delta := totalBid - sum
	check := MilestoneCheck{Sum: sum, Delta: delta, OK: delta == 0}
	if check.OK {
		return check
	}

	if delta > 0 {
		check.Message = fmt.Sprintf("milestone amounts fall $%.2f short of the total bid", delta)
	} else {
		check.Message = fmt.Sprintf("milestone amounts exceed the total bid by $%.2f", -delta)
	}
	return check
}

// SplitEvenly recomputes every milestone amount as round(totalBid/count).
// It must run across the whole list whenever a milestone is added or
// removed, not just for the new one. Rounding each share independently
// means the sum can drift from totalBid by up to count-1; the source
// behavior accepts that slack rather than distributing the remainder.
func SplitEvenly(milestones []models.Milestone, totalBid float64) {
	totalBid = Clamp(totalBid)
	if len(milestones) == 0 {
		return
	}

	share := math.Round(totalBid / float64(len(milestones)))
	for i := range milestones {
		milestones[i].Amount = share
	}
}

// HourlyTotal computes the total for an hourly-rate proposal.
//
// workDays = ceil((totalCalendarDays / 7) * 5), a 5/7 workweek
// approximation over the whole span; individual weekends and holidays
// are not excluded. Any missing or non-positive input yields 0.
func HourlyTotal(start, end *time.Time, rate, maxHoursPerDay float64) float64 {
	rate = Clamp(rate)
	maxHoursPerDay = Clamp(maxHoursPerDay)
	if start == nil || end == nil || rate == 0 || maxHoursPerDay == 0 {
		return 0
	}

	days := calendarDays(*start, *end)
	if days <= 0 {
		return 0
	}

	workDays := math.Ceil(float64(days) / constants.DaysPerWeek * constants.WorkDaysPerWeek)
	return workDays * rate * maxHoursPerDay
}

// calendarDays counts days in the span, inclusive of both endpoints.
func calendarDays(start, end time.Time) int {
	diff := end.Sub(start)
	if diff < 0 {
		return 0
	}
	return int(diff.Hours()/24) + 1
}
