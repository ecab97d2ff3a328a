package attempts

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks Store,LeadPublisher

import "context"

// Store persists attempt entries.
type Store interface {
	Append(ctx context.Context, entry Entry) error
	ListLeads(ctx context.Context, limit int) ([]Entry, error)
}

// LeadPublisher routes lead events to sales follow-up.
type LeadPublisher interface {
	PublishLead(ctx context.Context, lead LeadEvent) error
}
