package leaderboard

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"donatewall/internal/domain"
)

var (
	supportedLocales = []language.Tag{language.English, language.Indonesian}
	localeMatcher    = language.NewMatcher(supportedLocales)
	lowerCaser       = cases.Lower(language.Und)
)

var indonesianMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "Mei", "Jun", "Jul", "Agu", "Sep", "Okt", "Nov", "Des"}

// Row is the rendering contract for one leaderboard line.
type Row struct {
	Rank        int     `json:"rank"`
	Name        string  `json:"name"`
	Tier        string  `json:"tier"`
	TierClass   string  `json:"tier_class"`
	Medal       string  `json:"medal,omitempty"`
	Date        string  `json:"date"`
	DateLabel   string  `json:"date_label"`
	Amount      float64 `json:"amount"`
	AmountLabel string  `json:"amount_label"`
}

// View is a rendered leaderboard.
type View struct {
	Status   Status     `json:"status"`
	Sort     SortKey    `json:"sort"`
	Source   string     `json:"source"`
	Items    []Row      `json:"items"`
	Error    string     `json:"error,omitempty"`
	LoadedAt *time.Time `json:"loaded_at,omitempty"`
}

// View renders the current state for locale.
func (f *Feed) View(locale string) View {
	snap := f.Snapshot()
	v := View{
		Status: snap.Status,
		Sort:   snap.SortKey,
		Source: f.SourceName(),
		Items:  Project(snap.Entries, locale),
	}
	if snap.Err != nil {
		v.Error = snap.Err.Error()
	}
	if !snap.LoadedAt.IsZero() {
		loadedAt := snap.LoadedAt.UTC()
		v.LoadedAt = &loadedAt
	}
	return v
}

// Project maps ranked entries onto display rows. Anonymous donors are
// shown as "Anonymous"; the entries themselves are not modified.
func Project(entries []domain.DonationEntry, locale string) []Row {
	tag := MatchLocale(locale)
	printer := message.NewPrinter(tag)
	rows := make([]Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, Row{
			Rank:        e.Rank,
			Name:        e.DisplayName(),
			Tier:        e.Tier,
			TierClass:   lowerCaser.String(e.Tier),
			Medal:       medal(e.Rank),
			Date:        e.Date.Format("2006-01-02"),
			DateLabel:   formatDate(e.Date, tag),
			Amount:      e.Amount,
			AmountLabel: printer.Sprintf("$%.2f", e.Amount),
		})
	}
	return rows
}

// MatchLocale resolves a locale hint to one of the supported display languages.
func MatchLocale(locale string) language.Tag {
	tag, _, _ := localeMatcher.Match(language.Make(locale))
	base, _ := tag.Base()
	if base.String() == "id" {
		return language.Indonesian
	}
	return language.English
}

func medal(rank int) string {
	switch rank {
	case 1:
		return "gold"
	case 2:
		return "silver"
	case 3:
		return "bronze"
	default:
		return ""
	}
}

func formatDate(t time.Time, tag language.Tag) string {
	if tag == language.Indonesian {
		return t.Format("2") + " " + indonesianMonths[t.Month()-1] + " " + t.Format("2006")
	}
	return t.Format("Jan 2, 2006")
}
