package stream

import "time"

const (
	TierRecruit     = "recruit"
	TierExperienced = "experienced"
	TierVeteran     = "veteran"
)

const dateLayout = "2006-01-02"

// Tier buckets a channel by account age. Empty input or an unparseable date
// yields "" (unknown), which never matches an explicit tier filter.
func Tier(createdAt string) string {
	return TierAt(createdAt, time.Now().UTC())
}

// TierAt is Tier with an explicit reference time. Both dates are truncated to
// UTC day granularity before taking the whole-day difference, so the boundary
// falls on calendar days, not 24h intervals.
func TierAt(createdAt string, now time.Time) string {
	if createdAt == "" {
		return ""
	}

	created, err := time.Parse(dateLayout, createdAt)
	if err != nil {
		// helix hands out RFC3339 timestamps
		created, err = time.Parse(time.RFC3339, createdAt)
		if err != nil {
			return ""
		}
	}

	created = created.UTC().Truncate(24 * time.Hour)
	ageDays := int(now.Truncate(24*time.Hour).Sub(created).Hours() / 24)

	switch {
	case ageDays < 183: // < 6 months
		return TierRecruit
	case ageDays < 730: // < 24 months
		return TierExperienced
	default:
		return TierVeteran
	}
}
