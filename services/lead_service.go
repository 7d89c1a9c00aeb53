package services

import (
	"context"
	"time"

	"phonexchange_backend/metrics"
	"phonexchange_backend/models"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/google/uuid"
)

const notifyTimeout = 5 * time.Second

// LeadNotifier is told about every lead after it has been stored.
type LeadNotifier interface {
	Name() string
	NotifyLead(ctx context.Context, lead models.Lead) error
}

type LeadService struct {
	store     storage.Store
	notifiers []LeadNotifier
	log       utils.Logger

	now   func() time.Time
	newID func() string
}

func NewLeadService(store storage.Store, log utils.Logger, notifiers ...LeadNotifier) *LeadService {
	return &LeadService{
		store:     store,
		notifiers: notifiers,
		log:       log.WithFields(map[string]interface{}{"service": "lead"}),
		now:       time.Now,
		newID:     uuid.NewString,
	}
}

// Submit assigns the id and creation time, stores the lead and notifies.
// ID and CreatedAt on draft are overwritten. Notifier failures are logged
// and do not fail the submission.
func (s *LeadService) Submit(ctx context.Context, draft models.Lead) (*models.Lead, error) {
	lead := draft
	lead.ID = s.newID()
	lead.CreatedAt = s.now().UTC()

	if err := s.store.CreateLead(ctx, &lead); err != nil {
		return nil, utils.NewStoreUnavailableError("create_lead", err)
	}

	metrics.LeadsSubmitted.WithLabelValues(lead.LeadType).Inc()
	s.log.Info("lead recorded", map[string]interface{}{
		"lead_id":   lead.ID,
		"lead_type": lead.LeadType,
		"area":      lead.Area,
	})

	s.notify(ctx, lead)
	return &lead, nil
}

func (s *LeadService) notify(ctx context.Context, lead models.Lead) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
	defer cancel()

	for _, n := range s.notifiers {
		if err := n.NotifyLead(ctx, lead); err != nil {
			metrics.LeadNotificationsFailed.WithLabelValues(n.Name()).Inc()
			s.log.WithError(err).Warn("lead notification failed", map[string]interface{}{
				"lead_id":  lead.ID,
				"notifier": n.Name(),
			})
		}
	}
}

func (s *LeadService) List(ctx context.Context, filter models.LeadFilter) ([]models.Lead, error) {
	leads, err := s.store.ListLeads(ctx, filter)
	if err != nil {
		return nil, utils.NewStoreUnavailableError("list_leads", err)
	}
	return leads, nil
}
