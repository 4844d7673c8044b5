package infrastructure

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"role-catalog/domain"
)

// EventPublisher delivers role events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event RoleEvent) error
}

// PublishingStore wraps a domain.RoleStore and emits a RoleEvent after each
// successful write. Publish failures are logged only; the write has already
// committed by then.
type PublishingStore struct {
	domain.RoleStore
	publisher EventPublisher
	now       func() time.Time
}

func NewPublishingStore(store domain.RoleStore, publisher EventPublisher) *PublishingStore {
	return &PublishingStore{RoleStore: store, publisher: publisher, now: time.Now}
}

func (s *PublishingStore) Create(ctx context.Context, f domain.RoleFields) (domain.JobRole, error) {
	role, err := s.RoleStore.Create(ctx, f)
	if err != nil {
		return role, err
	}
	s.publish(ctx, EventRoleCreated, role.ID, &role)
	return role, nil
}

func (s *PublishingStore) Update(ctx context.Context, id uint, f domain.RoleFields) (domain.JobRole, error) {
	role, err := s.RoleStore.Update(ctx, id, f)
	if err != nil {
		return role, err
	}
	s.publish(ctx, EventRoleUpdated, role.ID, &role)
	return role, nil
}

func (s *PublishingStore) Delete(ctx context.Context, id uint) error {
	if err := s.RoleStore.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(ctx, EventRoleDeleted, id, nil)
	return nil
}

func (s *PublishingStore) publish(ctx context.Context, kind string, id uint, role *domain.JobRole) {
	event := RoleEvent{Type: kind, RoleID: id, Role: role, OccurredAt: s.now().UTC()}
	// a cancelled request must not drop the event for a committed write
	if err := s.publisher.Publish(context.WithoutCancel(ctx), event); err != nil {
		log.WithFields(log.Fields{
			"event":  kind,
			"roleId": id,
		}).Errorf("publish role event: %v", err)
	}
}
