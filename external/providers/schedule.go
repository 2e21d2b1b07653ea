package providers

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	crerr "github.com/cockroachdb/errors"

	"github.com/KingBodhi/jungleverse/external/providers/parse"
	"github.com/KingBodhi/jungleverse/internal/domain/provider"
)

var errRowSkipped = crerr.New("row skipped")

// scheduleLayout describes a card or row based tournament schedule page.
type scheduleLayout struct {
	rows      string
	name      string
	buyin     string
	guarantee string
	start     string
	gameType  string
	location  string
}

// scheduleRow is the raw text pulled out of one schedule card.
type scheduleRow struct {
	name      string
	buyinText string
	buyin     int64
	guarantee string
	start     string
	gameType  string
	location  string
}

func (l scheduleLayout) extract(row *goquery.Selection) (scheduleRow, error) {
	out := scheduleRow{
		name:      textOf(row, l.name),
		buyinText: textOf(row, l.buyin),
	}
	if l.guarantee != "" {
		out.guarantee = textOf(row, l.guarantee)
	}
	if l.start != "" {
		out.start = textOf(row, l.start)
	}
	if l.gameType != "" {
		out.gameType = textOf(row, l.gameType)
	}
	if l.location != "" {
		out.location = textOf(row, l.location)
	}

	buyin, ok := parse.Currency(out.buyinText)
	if !ok || out.name == "" {
		return scheduleRow{}, crerr.Wrapf(errRowSkipped, "missing name or buy-in (name=%q buyin=%q)", out.name, out.buyinText)
	}
	out.buyin = buyin
	return out, nil
}

// scrapeSchedule loads url and maps each card through build.
func scrapeSchedule(ctx context.Context, b *base, url string, layout scheduleLayout, build func(scheduleRow) provider.NormalizedTournament) ([]provider.NormalizedTournament, error) {
	doc, err := b.deps.Client.GetDocument(ctx, Request{Provider: b.name, URL: url}, "")
	if err != nil {
		return nil, err
	}

	return collectRows(ctx, b, doc.Find(layout.rows), func(row *goquery.Selection) (provider.NormalizedTournament, error) {
		fields, err := layout.extract(row)
		if err != nil {
			return provider.NormalizedTournament{}, err
		}
		return build(fields), nil
	}), nil
}

// clockStart reads an HH:MM listing time, defaulting to an hour from now.
func clockStart(now time.Time, label string) time.Time {
	if strings.TrimSpace(label) == "" {
		return now.Add(time.Hour)
	}
	return parse.RelativeStart(now, label)
}

// weeklyRule returns "Weekly - <Day>" for the first of days named in text.
func weeklyRule(text string, days []time.Weekday) string {
	lower := strings.ToLower(text)
	for _, day := range days {
		if strings.Contains(lower, strings.ToLower(day.String())) {
			return "Weekly - " + day.String()
		}
	}
	return ""
}
