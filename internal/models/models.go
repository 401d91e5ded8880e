package models

import "time"

type PlanType string

const (
	PlanFree    PlanType = "FREE"
	PlanPremium PlanType = "PREMIUM"
)

// FreeMonthlyStories is the monthly generation quota of the free plan.
const FreeMonthlyStories = 5

// UnlimitedStories is reported as the remaining count for plans without a quota.
const UnlimitedStories = -1

// ThirtyDayLength is the number of daily stories in a thirty-day run.
const ThirtyDayLength = 30

// ArchiveCapacity is the number of stories retained per user.
const ArchiveCapacity = 100

// DateLayout is the calendar date format used in persisted records.
const DateLayout = "2006-01-02"

type AgeGroup string

const (
	AgeGroupGeneral AgeGroup = "geral"
	AgeGroupAdult   AgeGroup = "adultos"
)

type PlanRecord struct {
	Type                      PlanType        `json:"type"`
	StoriesGeneratedThisMonth int             `json:"storiesGeneratedThisMonth"`
	LastResetDate             string          `json:"lastResetDate"`
	ThirtyDayMode             *ThirtyDayState `json:"thirtyDayMode,omitempty"`
}

type ThirtyDayState struct {
	RunID              string   `json:"runId,omitempty"`
	IsActive           bool     `json:"isActive"`
	StartDate          string   `json:"startDate"`
	CurrentDay         int      `json:"currentDay"`
	MainTheme          string   `json:"mainTheme"`
	StoriesGenerated   []string `json:"storiesGenerated"`
	LastGenerationDate string   `json:"lastGenerationDate,omitempty"`
}

type Story struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Content        string    `json:"content"`
	Theme          string    `json:"theme"`
	CreatedAt      time.Time `json:"createdAt"`
	IsAdultContent bool      `json:"isAdultContent"`
	Day            int       `json:"day,omitempty"`
	WordCount      int       `json:"wordCount,omitempty"`
}

// DefaultPlan returns a fresh free plan reset on the given day.
func DefaultPlan(now time.Time) PlanRecord {
	return PlanRecord{
		Type:                      PlanFree,
		StoriesGeneratedThisMonth: 0,
		LastResetDate:             Date(now),
	}
}

// Date formats t as a UTC calendar date.
func Date(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// MonthOf returns the YYYY-MM prefix of a calendar date string.
func MonthOf(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

func (p PlanRecord) IsPremium() bool {
	return p.Type == PlanPremium
}

// MonthlyLimit returns the plan quota, or UnlimitedStories.
func (p PlanRecord) MonthlyLimit() int {
	if p.IsPremium() {
		return UnlimitedStories
	}
	return FreeMonthlyStories
}

func (p PlanRecord) CanGenerateStory() bool {
	limit := p.MonthlyLimit()
	return limit == UnlimitedStories || p.StoriesGeneratedThisMonth < limit
}

func (p PlanRecord) RemainingStories() int {
	limit := p.MonthlyLimit()
	if limit == UnlimitedStories {
		return UnlimitedStories
	}
	return max(0, limit-p.StoriesGeneratedThisMonth)
}

func (p PlanRecord) CanAccessAdultContent() bool {
	return p.IsPremium()
}

func (p PlanRecord) CanAccessThirtyDayMode() bool {
	return p.IsPremium()
}

func (p PlanType) Valid() bool {
	return p == PlanFree || p == PlanPremium
}
