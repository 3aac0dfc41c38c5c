package eetlijst

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

type Options struct {
	Credentials Credentials
	// ExternalIDs maps a person's name, exactly as eetlijst shows it, to an
	// id in another system such as a chat user id.
	ExternalIDs map[string]string
	// Resolver names undecided persons, PositionalResolver when nil.
	Resolver UndecidedResolver
	Logger   *slog.Logger
}

// Parser is one logged in view of an eetlijst. It fetches the pages once
// when created and derives everything else from them. A Parser must not be
// used from more than one goroutine at a time.
type Parser struct {
	transport  Transport
	session    *Session
	registry   *Registry
	attendance Attendance
}

// New logs in and reads the person list and today's attendance.
func New(ctx context.Context, transport Transport, opts Options) (*Parser, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	start := time.Now()
	session, err := Login(ctx, transport, opts.Credentials)
	if err != nil {
		return nil, err
	}
	logger.Debug("logged in to eetlijst", "user", opts.Credentials.Username, "dur", time.Since(start).String())

	return FromSession(transport, session, opts)
}

// FromSession builds a parser on pages that are already fetched. transport
// may be nil when the parser will never submit.
func FromSession(transport Transport, session *Session, opts Options) (*Parser, error) {
	registry, err := NewRegistry(session.Statistics, opts.ExternalIDs)
	if err != nil {
		return nil, err
	}

	attendance, err := ExtractAttendance(session.Main, registry.Names(), opts.Resolver)
	if err != nil {
		return nil, err
	}

	return &Parser{
		transport:  transport,
		session:    session,
		registry:   registry,
		attendance: attendance,
	}, nil
}

func (p *Parser) Registry() *Registry {
	return p.registry
}

func (p *Parser) Names() []string {
	return p.registry.Names()
}

func (p *Parser) Attendance() Attendance {
	return p.attendance
}

func (p *Parser) Eaters() []string {
	return p.attendance.Eating
}

func (p *Parser) Cooks() []string {
	return p.attendance.Cooking
}

func (p *Parser) Absent() []string {
	return p.attendance.Absent
}

func (p *Parser) Undecided() []string {
	return p.attendance.Undecided
}

func (p *Parser) Ratios() (MetricSeries, error) {
	return ExtractRatios(p.session.Statistics, p.registry.Names())
}

func (p *Parser) Costs() (MetricSeries, error) {
	return ExtractCosts(p.session.Statistics, p.registry.Names())
}

func (p *Parser) Points() (MetricSeries, error) {
	return ExtractPoints(p.session.Statistics, p.registry.Names())
}

func (p *Parser) Balance() (MetricSeries, error) {
	return ExtractBalance(p.session.Statistics, p.registry.Names())
}

// CookSuggestion returns the person with the lowest cook/eat ratio among
// those eating today or still undecided. ok is false when nobody qualifies.
func (p *Parser) CookSuggestion() (name string, ok bool, err error) {
	ratios, err := p.Ratios()
	if err != nil {
		return "", false, err
	}
	name, ok = SuggestCook(p.attendance, ratios)
	return name, ok, nil
}

func SuggestCook(attendance Attendance, ratios MetricSeries) (string, bool) {
	candidates := map[string]bool{}
	for _, name := range attendance.Eating {
		candidates[name] = true
	}
	for _, name := range attendance.Undecided {
		candidates[name] = true
	}

	for _, m := range ratios {
		if candidates[m.Name] {
			return m.Name, true
		}
	}
	return "", false
}

// Submit sends a status update for the person at index for today.
func (p *Parser) Submit(ctx context.Context, index int, status AttendanceStatus) (Transmission, error) {
	if p.transport == nil {
		return Transmission{}, fmt.Errorf("eetlijst submit: parser has no transport")
	}
	return Submit(ctx, p.transport, p.session, p.registry.Len(), index, status)
}

func (p *Parser) SubmitByName(ctx context.Context, name string, status AttendanceStatus) (Transmission, error) {
	index, ok := p.registry.Index(name)
	if !ok {
		return Transmission{}, fmt.Errorf("%w: %q", ErrUnknownPerson, name)
	}
	return p.Submit(ctx, index, status)
}
