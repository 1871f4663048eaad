// Package compose renders change records as social media announcements.
package compose

import (
	"fmt"
	"strings"

	"github.com/jonathan/records-bot/internal/types"
)

// missingField stands in for fields of a side the outer join left empty.
const missingField = "-"

// Composer formats change records into announcement text.
type Composer struct {
	flags FlagResolver
}

// New creates a Composer. A nil resolver uses CountryFlags.
func New(flags FlagResolver) *Composer {
	if flags == nil {
		flags = NewCountryFlags()
	}
	return &Composer{flags: flags}
}

// Messages returns one announcement per change, in input order.
func (c *Composer) Messages(changes []types.ChangeRecord) []string {
	messages := make([]string, 0, len(changes))
	for _, change := range changes {
		messages = append(messages, c.Message(change))
	}
	return messages
}

// Message renders a single change as a three-line announcement.
func (c *Composer) Message(change types.ChangeRecord) string {
	after := c.side(change.After)
	before := c.side(change.Before)

	var sb strings.Builder
	fmt.Fprintf(&sb, "🚨 New %s %s %s Record Alert! 🚨\n",
		change.Discipline, change.Sex, change.Category.DisplayName())
	fmt.Fprintf(&sb, "🌟 %s (%s) shatters the record with a performance of %s 🏆 in %s, %s.\n",
		after.Competitor, after.flag, after.Perf, after.Venue, after.Date)
	fmt.Fprintf(&sb, "👏 Previous record: %s (%s) - %s in %s, %s.",
		before.Competitor, before.flag, before.Perf, before.Venue, before.Date)
	return sb.String()
}

type renderedSide struct {
	types.Entry
	flag string
}

func (c *Composer) side(e *types.Entry) renderedSide {
	if e == nil {
		return renderedSide{Entry: types.Entry{
			Perf:       missingField,
			Competitor: missingField,
			DOB:        missingField,
			Country:    missingField,
			Venue:      missingField,
			Date:       missingField,
		}}
	}
	return renderedSide{Entry: *e, flag: c.flags.ResolveFlag(e.Country)}
}
