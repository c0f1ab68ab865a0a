package builtin

import (
	"fmt"
	"time"
	_ "time/tzdata" // timezone names resolve in minimal containers

	"github.com/hupe1980/smartpup/core"
	"github.com/hupe1980/smartpup/tool"
)

// DateTimeName is the capability name of the clock.
const DateTimeName = "get_datetime"

const dateTimeDescription = "Get the current date and time"

// Supported output formats.
const (
	FormatFull   = "full"   // Monday, January 01, 2024 15:30:45
	FormatDate   = "date"   // 2024-01-01
	FormatTime   = "time"   // 15:30:45
	FormatSimple = "simple" // Jan 01, 2024 03:30 PM
)

var dateTimeLayouts = map[string]string{
	FormatFull:   "Monday, January 02, 2006 15:04:05",
	FormatDate:   "2006-01-02",
	FormatTime:   "15:04:05",
	FormatSimple: "Jan 02, 2006 03:04 PM",
}

// DateTimeOptions configures the clock capability.
type DateTimeOptions struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewDateTime returns the get_datetime capability.
func NewDateTime(optFns ...func(o *DateTimeOptions)) tool.Tool {
	opts := DateTimeOptions{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	return tool.New(DateTimeName, dateTimeDescription, func(_ *core.ToolContext, args map[string]any) (any, error) {
		format, _ := args["format"].(string)
		zone, _ := args["timezone"].(string)

		now := opts.Now()
		if zone != "" {
			loc, err := time.LoadLocation(zone)
			if err != nil {
				return nil, fmt.Errorf("error getting date/time: unknown timezone %q", zone)
			}
			now = now.In(loc)
		}

		layout, ok := dateTimeLayouts[format]
		if !ok {
			layout = dateTimeLayouts[FormatFull]
		}

		return now.Format(layout), nil
	},
		tool.Optional("format", tool.EnumOf(FormatFull, FormatDate, FormatTime, FormatSimple), FormatFull,
			"The format to return the date/time in"),
		tool.Optional("timezone", tool.Nullable(tool.String()), nil,
			"Optional timezone name (e.g. 'America/New_York', 'UTC'). Defaults to local time"),
	)
}
