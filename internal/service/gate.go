package service

import "github.com/digkill/contos-diarios/internal/models"

type DenyReason string

const (
	ReasonNone                        DenyReason = ""
	ReasonAdultContentRequiresPremium DenyReason = "ADULT_CONTENT_REQUIRES_PREMIUM"
	ReasonMonthlyLimitReached         DenyReason = "MONTHLY_LIMIT_REACHED"
)

type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Err returns the sentinel matching the reason, or nil.
func (r DenyReason) Err() error {
	switch r {
	case ReasonAdultContentRequiresPremium:
		return ErrAdultContentRequiresPremium
	case ReasonMonthlyLimitReached:
		return ErrMonthlyLimitReached
	default:
		return nil
	}
}

// Authorize decides whether a generation may proceed. The adult-content
// restriction is checked before the quota.
func Authorize(requestedThemeIsAdult bool, plan models.PlanRecord) Decision {
	if requestedThemeIsAdult && !plan.CanAccessAdultContent() {
		return Decision{Reason: ReasonAdultContentRequiresPremium}
	}
	if !plan.CanGenerateStory() {
		return Decision{Reason: ReasonMonthlyLimitReached}
	}
	return Decision{Allowed: true}
}
