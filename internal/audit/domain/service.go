package domain

import "context"

// Service records immutable audit entries. Metadata is masked before it is
// persisted; failures are logged but never block the calling flow.
type Service interface {
	AuditLog(
		ctx context.Context,
		actorType ActorType,
		actorID *string,
		action string,
		targetType string,
		targetID *string,
		metadata map[string]any,
	) error
	List(ctx context.Context, filter ListFilter) ([]*AuditLog, error)
}
