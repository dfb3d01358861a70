package service

import (
	"fmt"
	"io"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"

	"github.com/spec-kit/leave-service/internal/domain"
)

const (
	icsProductID  = "-//leave-service//academic-calendar//EN"
	icsDateLayout = "20060102"
)

var icsDateTimeLayouts = []string{
	"20060102T150405Z",
	"20060102T150405",
	icsDateLayout,
}

// icsEvent is a VEVENT reduced to the fields an academic calendar event keeps.
type icsEvent struct {
	Title       string
	Description string
	Category    domain.EventCategory
	Start       time.Time
	End         time.Time
}

// parseICS reads every usable VEVENT. Events without a summary, category or
// start date are counted as skipped.
func parseICS(r io.Reader) ([]icsEvent, int, error) {
	cal, err := ics.ParseCalendar(r)
	if err != nil {
		return nil, 0, fmt.Errorf("parse calendar: %w", err)
	}

	var (
		parsed  []icsEvent
		skipped int
	)
	for _, vevent := range cal.Events() {
		event, ok := parseVEvent(vevent)
		if !ok {
			skipped++
			continue
		}
		parsed = append(parsed, event)
	}
	return parsed, skipped, nil
}

func parseVEvent(vevent *ics.VEvent) (icsEvent, bool) {
	title := unescapeText(propertyValue(vevent, ics.ComponentPropertySummary))
	if title == "" {
		return icsEvent{}, false
	}
	category := domain.NormalizeEventCategory(firstCategory(propertyValue(vevent, ics.ComponentPropertyCategories)))
	if category == "" {
		return icsEvent{}, false
	}

	start, _, err := parseICSDate(vevent, ics.ComponentPropertyDtStart)
	if err != nil {
		return icsEvent{}, false
	}
	end := start
	if dtEnd, atMidnight, err := parseICSDate(vevent, ics.ComponentPropertyDtEnd); err == nil {
		// DTEND is exclusive when it falls on a day boundary.
		if atMidnight {
			dtEnd = dtEnd.AddDate(0, 0, -1)
		}
		if !dtEnd.Before(start) {
			end = dtEnd
		}
	}

	return icsEvent{
		Title:       title,
		Description: unescapeText(propertyValue(vevent, ics.ComponentPropertyDescription)),
		Category:    category,
		Start:       start,
		End:         end,
	}, true
}

// parseICSDate returns the UTC calendar day of a date property and whether the
// value sits exactly on midnight. Date-only values always do.
func parseICSDate(vevent *ics.VEvent, name ics.ComponentProperty) (time.Time, bool, error) {
	prop := vevent.GetProperty(name)
	if prop == nil {
		return time.Time{}, false, fmt.Errorf("missing property %s", name)
	}
	value := strings.TrimSpace(prop.Value)

	var tzid string
	for k, v := range prop.ICalParameters {
		if strings.EqualFold(k, "TZID") && len(v) > 0 {
			tzid = v[0]
		}
	}

	for _, layout := range icsDateTimeLayouts {
		t, err := time.Parse(layout, value)
		if err != nil {
			continue
		}
		if tzid != "" && layout == "20060102T150405" {
			if loc, err := time.LoadLocation(tzid); err == nil {
				t = time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, loc)
			}
		}
		midnight := t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0
		return domain.TruncateDay(t), midnight, nil
	}
	return time.Time{}, false, fmt.Errorf("unparseable date %q", value)
}

// renderICS serializes events as all-day VEVENTs. DTEND is written exclusive.
func renderICS(events []domain.CalendarEvent, now time.Time) string {
	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId(icsProductID)

	for _, event := range events {
		vevent := cal.AddEvent(event.ID + "@leave-service")
		vevent.SetDtStampTime(now.UTC())
		vevent.SetSummary(event.Title)
		if event.Description != "" {
			vevent.SetDescription(event.Description)
		}
		vevent.SetAllDayStartAt(domain.TruncateDay(event.StartDate))
		vevent.SetAllDayEndAt(domain.TruncateDay(event.EndDate).AddDate(0, 0, 1))
		vevent.SetProperty(ics.ComponentPropertyCategories, string(event.Category))
	}
	return cal.Serialize()
}

func propertyValue(vevent *ics.VEvent, name ics.ComponentProperty) string {
	prop := vevent.GetProperty(name)
	if prop == nil {
		return ""
	}
	return strings.TrimSpace(prop.Value)
}

func firstCategory(raw string) string {
	if i := strings.Index(raw, ","); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(raw)
}

func unescapeText(s string) string {
	return strings.NewReplacer(`\n`, "\n", `\N`, "\n", `\,`, ",", `\;`, ";", `\\`, `\`).Replace(s)
}
