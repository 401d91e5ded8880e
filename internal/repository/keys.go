package repository

const (
	planKeyPrefix      = "contos-diarios-user-plan-"
	storiesKeyPrefix   = "contos-diarios-stories-"
	thirtyDayKeyPrefix = "contos-diarios-thirty-day-mode-"

	// GuestScope owns the records of callers without a user id.
	GuestScope = "guest"
)

// Scope returns the storage scope for a user id.
func Scope(userID string) string {
	if userID == "" {
		return GuestScope
	}
	return userID
}

func planKey(userID string) string      { return planKeyPrefix + Scope(userID) }
func storiesKey(userID string) string   { return storiesKeyPrefix + Scope(userID) }
func thirtyDayKey(userID string) string { return thirtyDayKeyPrefix + Scope(userID) }
