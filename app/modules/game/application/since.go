package gameservice

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// ErrUnrecognizedTime is returned when a time expression cannot be parsed.
var ErrUnrecognizedTime = errors.New("unrecognized time expression")

// Clock abstracts time.Now.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// FakeClock is a Clock whose Now is provided by NowFn.
type FakeClock struct {
	NowFn func() time.Time
}

func (f *FakeClock) Now() time.Time {
	if f.NowFn != nil {
		return f.NowFn()
	}
	return time.Now()
}

// SinceParser turns "yesterday", "3 days ago" or an ISO date into an instant
// relative to its clock.
type SinceParser struct {
	clock  Clock
	parser *when.Parser
}

// NewSinceParser creates a parser with the English and common rule sets.
func NewSinceParser(clock Clock) *SinceParser {
	if clock == nil {
		clock = systemClock{}
	}
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &SinceParser{clock: clock, parser: w}
}

// Parse returns the instant described by input. Absolute layouts are tried
// before natural language.
func (p *SinceParser) Parse(input string) (time.Time, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return time.Time{}, fmt.Errorf("%w: empty input", ErrUnrecognizedTime)
	}

	now := p.clock.Now()
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, input, now.Location()); err == nil {
			return t, nil
		}
	}

	r, err := p.parser.Parse(strings.ToLower(input), now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %w", ErrUnrecognizedTime, input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrUnrecognizedTime, input)
	}
	return r.Time, nil
}
