package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"phonexchange_backend/models"
	"phonexchange_backend/storage"
	"phonexchange_backend/utils"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Doubles
// ==========================

type recordingNotifier struct {
	mu    sync.Mutex
	name  string
	err   error
	leads []models.Lead
}

func (n *recordingNotifier) Name() string { return n.name }

func (n *recordingNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.leads = append(n.leads, lead)
	return n.err
}

type fakePublisher struct {
	input *sns.PublishInput
	err   error
}

func (p *fakePublisher) Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error) {
	p.input = params
	if p.err != nil {
		return nil, p.err
	}
	return &sns.PublishOutput{MessageId: aws.String("msg-1")}, nil
}

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func sellDraft() models.Lead {
	return models.Lead{
		Name:          "Ravi",
		Phone:         "9000000000",
		Area:          "Boring Road",
		PreferredTime: "evening",
		PhoneModel:    strPtr("Galaxy S23"),
		OfferedPrice:  intPtr(36000),
		LeadType:      models.LeadTypeSell,
	}
}

func newTestLeadService(t *testing.T, store storage.Store, notifiers ...LeadNotifier) *LeadService {
	svc := NewLeadService(store, utils.NewTestLogger(t), notifiers...)
	svc.now = func() time.Time {
		return time.Date(2026, 10, 14, 9, 0, 0, 123456000, time.FixedZone("IST", 5*3600+1800))
	}
	svc.newID = func() string { return "lead-1" }
	return svc
}

// ==========================
// Lead Service Tests
// ==========================

func TestLeadService_Submit(t *testing.T) {
	store := storage.NewMemoryStore()
	notifier := &recordingNotifier{name: "recorder"}
	svc := newTestLeadService(t, store, notifier)

	draft := sellDraft()
	draft.ID = "client-chosen"

	lead, err := svc.Submit(context.Background(), draft)
	require.NoError(t, err)

	assert.Equal(t, "lead-1", lead.ID)
	assert.Equal(t, time.UTC, lead.CreatedAt.Location())
	assert.Equal(t, "2026-10-14T03:30:00.123456Z", lead.Receipt().CreatedAt)

	stored, err := store.ListLeads(context.Background(), models.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, *lead, stored[0])

	require.Len(t, notifier.leads, 1)
	assert.Equal(t, "lead-1", notifier.leads[0].ID)
}

func TestLeadService_Submit_AssignsDistinctIDs(t *testing.T) {
	svc := NewLeadService(storage.NewMemoryStore(), utils.NewTestLogger(t))

	first, err := svc.Submit(context.Background(), sellDraft())
	require.NoError(t, err)
	second, err := svc.Submit(context.Background(), sellDraft())
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestLeadService_Submit_NotifierFailureIsIgnored(t *testing.T) {
	failing := &recordingNotifier{name: "broken", err: errors.New("unreachable")}
	after := &recordingNotifier{name: "after"}
	svc := newTestLeadService(t, storage.NewMemoryStore(), failing, after)

	lead, err := svc.Submit(context.Background(), sellDraft())

	require.NoError(t, err)
	assert.Equal(t, "lead-1", lead.ID)
	assert.Len(t, failing.leads, 1)
	assert.Len(t, after.leads, 1)
}

func TestLeadService_Submit_NotifiesAfterCallerCancels(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	notifier := &ctxNotifier{}
	svc := newTestLeadService(t, storage.NewMemoryStore(), notifier)

	cancel()
	_, err := svc.Submit(ctx, sellDraft())

	require.NoError(t, err)
	assert.NoError(t, notifier.ctxErr)
}

type ctxNotifier struct {
	ctxErr error
}

func (n *ctxNotifier) Name() string { return "ctx" }

func (n *ctxNotifier) NotifyLead(ctx context.Context, lead models.Lead) error {
	n.ctxErr = ctx.Err()
	return nil
}

func TestLeadService_Submit_StoreFault(t *testing.T) {
	notifier := &recordingNotifier{name: "recorder"}
	svc := newTestLeadService(t, &failingStore{err: errors.New("disk full")}, notifier)

	lead, err := svc.Submit(context.Background(), sellDraft())

	assert.Nil(t, lead)
	assert.Equal(t, utils.ErrCodeStoreUnavailable, utils.CodeOf(err))
	assert.Empty(t, notifier.leads)
}

func TestLeadService_List(t *testing.T) {
	store := storage.NewMemoryStore()
	svc := NewLeadService(store, utils.NewTestLogger(t))
	ctx := context.Background()

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	tick := 0
	svc.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	sell, err := svc.Submit(ctx, sellDraft())
	require.NoError(t, err)

	buy := sellDraft()
	buy.LeadType = models.LeadTypeBuy
	buyLead, err := svc.Submit(ctx, buy)
	require.NoError(t, err)

	all, err := svc.List(ctx, models.LeadFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, buyLead.ID, all[0].ID)
	assert.Equal(t, sell.ID, all[1].ID)

	sells, err := svc.List(ctx, models.LeadFilter{LeadType: models.LeadTypeSell})
	require.NoError(t, err)
	require.Len(t, sells, 1)
	assert.Equal(t, sell.ID, sells[0].ID)
}

func TestLeadService_List_StoreFault(t *testing.T) {
	svc := NewLeadService(&failingStore{err: errors.New("timeout")}, utils.NewTestLogger(t))

	_, err := svc.List(context.Background(), models.LeadFilter{})

	assert.Equal(t, utils.ErrCodeStoreUnavailable, utils.CodeOf(err))
}

// ==========================
// SNS Notifier Tests
// ==========================

func TestSNSNotifier_NotifyLead(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := NewSNSNotifier(publisher, "arn:aws:sns:ap-south-1:123456789012:leads")

	lead := sellDraft()
	lead.ID = "lead-1"
	lead.Remarks = strPtr("minor scratches")

	require.NoError(t, notifier.NotifyLead(context.Background(), lead))
	require.NotNil(t, publisher.input)

	assert.Equal(t, "arn:aws:sns:ap-south-1:123456789012:leads", aws.ToString(publisher.input.TopicArn))
	assert.Equal(t, "New sell lead", aws.ToString(publisher.input.Subject))
	assert.Equal(t,
		"New sell lead from Ravi (9000000000), Boring Road. Phone: Galaxy S23. Offered: Rs 36000. Preferred time: evening. Remarks: minor scratches",
		aws.ToString(publisher.input.Message))
	assert.Equal(t, "sell", aws.ToString(publisher.input.MessageAttributes["lead_type"].StringValue))
}

func TestSNSNotifier_NotifyLead_MinimalLead(t *testing.T) {
	publisher := &fakePublisher{}
	notifier := NewSNSNotifier(publisher, "arn")

	lead := models.Lead{Name: "Asha", Phone: "9111111111", Area: "Kankarbagh", LeadType: models.LeadTypeBuy}
	require.NoError(t, notifier.NotifyLead(context.Background(), lead))

	assert.Equal(t, "New buy lead from Asha (9111111111), Kankarbagh.", aws.ToString(publisher.input.Message))
}

func TestSNSNotifier_NotifyLead_PublishError(t *testing.T) {
	notifier := NewSNSNotifier(&fakePublisher{err: errors.New("throttled")}, "arn")

	err := notifier.NotifyLead(context.Background(), sellDraft())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "throttled")
	assert.Equal(t, "sns", notifier.Name())
}
