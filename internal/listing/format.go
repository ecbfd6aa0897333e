package listing

import (
	"fmt"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/MrJamesThe3rd/billed/internal/bill"
)

var shortMonths = [12]string{
	"janv", "févr", "mars", "avr", "mai", "juin",
	"juil", "août", "sept", "oct", "nov", "déc",
}

var (
	titleFR   = cases.Title(language.French)
	printerFR = message.NewPrinter(language.French)
)

// ParseDate parses an ISO-8601 calendar date.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}

	return t, nil
}

// FormatDate renders an ISO date as "4 Avr. 04".
func FormatDate(s string) (string, error) {
	t, err := ParseDate(s)
	if err != nil {
		return "", err
	}

	return formatTime(t), nil
}

func formatTime(t time.Time) string {
	month := []rune(titleFR.String(shortMonths[t.Month()-1]))
	if len(month) > 3 {
		month = month[:3]
	}

	return fmt.Sprintf("%d %s. %02d", t.Day(), string(month), t.Year()%100)
}

func FormatStatus(s bill.Status) (string, error) {
	switch s {
	case bill.StatusPending:
		return "En attente", nil
	case bill.StatusAccepted:
		return "Accepté", nil
	case bill.StatusRefused:
		return "Refusé", nil
	}

	return "", fmt.Errorf("unknown status %q", s)
}

// FormatAmount renders an amount in euros with French digit grouping.
func FormatAmount(amount int64) string {
	return printerFR.Sprintf("%d €", amount)
}
