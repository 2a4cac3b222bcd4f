package directory

import (
	"regexp"
	"sort"
	"strings"

	"streamhub/internal/app/domain/stream"
)

const (
	SortOnlineDesc  = "online_desc"
	SortOnlineAsc   = "online_asc"
	SortCreatedDesc = "created_desc"
	SortCreatedAsc  = "created_asc"
)

// Filters is the conjunctive predicate set applied to the catalog. Zero
// values disable the corresponding predicate.
type Filters struct {
	Query        string
	Sort         string
	Language     string
	Platform     string
	AgeTier      string
	FollowedOnly bool

	// Followed is the externally supplied followed-channel id set, consulted
	// only when FollowedOnly is set.
	Followed map[string]struct{}

	// PlatformFilterEnabled gates the platform predicate; when false the
	// predicate always passes regardless of Platform.
	PlatformFilterEnabled bool
}

var channelURLRe = regexp.MustCompile(`^https?://(www\.)?twitch\.tv/`)

// NormalizeQuery lowercases the free-text query and, when the user pasted a
// channel URL, reduces it to the bare login so "https://www.twitch.tv/xqc?x=1"
// matches channel xqc.
func NormalizeQuery(q string) string {
	q = strings.ToLower(strings.TrimSpace(q))
	if channelURLRe.MatchString(q) {
		q = channelURLRe.ReplaceAllString(q, "")
		if i := strings.IndexAny(q, "/?#"); i >= 0 {
			q = q[:i]
		}
	}
	return q
}

func matchesQuery(s *stream.Item, q string) bool {
	if q == "" {
		return true
	}
	return strings.Contains(strings.ToLower(s.Title), q) ||
		strings.Contains(strings.ToLower(s.Channel), q) ||
		strings.Contains(strings.ToLower(s.Category), q)
}

func matchesLanguage(s *stream.Item, lang string) bool {
	if lang == "" {
		return true
	}
	// exact or lang-REGION prefix, e.g. "en" matches "en-gb"
	return s.Language == lang || strings.HasPrefix(s.Language, lang+"-")
}

// Matches reports whether a single item passes every active predicate.
func (f *Filters) Matches(s *stream.Item) bool {
	if !matchesQuery(s, NormalizeQuery(f.Query)) {
		return false
	}
	if !matchesLanguage(s, f.Language) {
		return false
	}
	if f.PlatformFilterEnabled && f.Platform != "" && s.Platform != f.Platform {
		return false
	}
	if f.AgeTier != "" && stream.Tier(s.CreatedAt) != f.AgeTier {
		return false
	}
	if f.FollowedOnly {
		if _, ok := f.Followed[s.ID]; !ok {
			return false
		}
	}
	return true
}

// Apply filters then sorts the catalog. The input slice is never mutated and
// the result is deterministic for identical inputs (stable sort over the
// filtered order).
func Apply(streams []stream.Item, f Filters) []stream.Item {
	out := make([]stream.Item, 0, len(streams))
	for i := range streams {
		if f.Matches(&streams[i]) {
			out = append(out, streams[i])
		}
	}

	less := comparator(f.Sort)
	sort.SliceStable(out, func(i, j int) bool {
		return less(&out[i], &out[j])
	})
	return out
}

// missing creation dates sort as epoch so unknown-age channels land oldest
const epochDate = "1970-01-01"

func createdOrEpoch(s *stream.Item) string {
	if s.CreatedAt == "" {
		return epochDate
	}
	return s.CreatedAt
}

func comparator(key string) func(a, b *stream.Item) bool {
	switch key {
	case SortOnlineAsc:
		return func(a, b *stream.Item) bool { return a.ViewerCount < b.ViewerCount }
	case SortCreatedDesc:
		return func(a, b *stream.Item) bool { return createdOrEpoch(a) > createdOrEpoch(b) }
	case SortCreatedAsc:
		return func(a, b *stream.Item) bool { return createdOrEpoch(a) < createdOrEpoch(b) }
	default: // online_desc
		return func(a, b *stream.Item) bool { return a.ViewerCount > b.ViewerCount }
	}
}
