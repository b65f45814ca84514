package representative

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/complyhub/complyhub/internal/cache"
	"github.com/complyhub/complyhub/internal/listing"
	"github.com/complyhub/complyhub/internal/shared"
	"github.com/complyhub/complyhub/jobs"
)

type mockRepository struct {
	requests []Request
	addrs    []Address
	nextID   int64
}

func (m *mockRepository) ListRequests(ctx context.Context, ownerID int64, q listing.Query) ([]Request, int, error) {
	var matched []Request
	for _, req := range m.requests {
		if ownerID != 0 && req.UserID != ownerID {
			continue
		}
		matched = append(matched, req)
	}
	return matched, len(matched), nil
}

func (m *mockRepository) GetRequest(ctx context.Context, id int64) (Request, error) {
	for _, req := range m.requests {
		if req.ID == id {
			return req, nil
		}
	}
	return Request{}, shared.ErrNotFound
}

func (m *mockRepository) CreateRequest(ctx context.Context, ownerID int64, form RequestForm) (Request, error) {
	m.nextID++
	req := Request{ID: m.nextID, UserID: ownerID, Region: form.Region, Company: form.Company, Message: form.Message, Status: StatusPending, CreatedAt: time.Now()}
	m.requests = append(m.requests, req)
	return req, nil
}

func (m *mockRepository) SetRequestStatus(ctx context.Context, id int64, status string) (Request, error) {
	for i, req := range m.requests {
		if req.ID == id {
			m.requests[i].Status = status
			return m.requests[i], nil
		}
	}
	return Request{}, shared.ErrNotFound
}

func (m *mockRepository) ListAddresses(ctx context.Context, ownerID int64) ([]Address, error) {
	var matched []Address
	for _, a := range m.addrs {
		if a.UserID == ownerID {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

func (m *mockRepository) CreateAddress(ctx context.Context, a Address) (Address, error) {
	m.nextID++
	a.ID = m.nextID
	a.CreatedAt = time.Now()
	m.addrs = append(m.addrs, a)
	return a, nil
}

func (m *mockRepository) DeleteAddress(ctx context.Context, id int64) error {
	for i, a := range m.addrs {
		if a.ID == id {
			m.addrs = append(m.addrs[:i], m.addrs[i+1:]...)
			return nil
		}
	}
	return shared.ErrNotFound
}

type mockMailer struct {
	sent []jobs.SendEmailPayload
}

func (m *mockMailer) EnqueueSendEmail(ctx context.Context, payload jobs.SendEmailPayload) (*asynq.TaskInfo, error) {
	m.sent = append(m.sent, payload)
	return &asynq.TaskInfo{}, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(repo Repository, mailer Mailer) *Service {
	return NewService(repo, cache.New(0), mailer, discardLogger(), "ops@example.com")
}

func TestSubmitNotifiesBackOffice(t *testing.T) {
	repo := &mockRepository{}
	mailer := &mockMailer{}
	svc := newTestService(repo, mailer)

	req, err := svc.Submit(context.Background(), 1, RequestForm{Region: RegionEU, Company: "Acme GmbH"})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, req.Status)
	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ops@example.com", mailer.sent[0].To)
}

func TestSubmitRejectsUnknownRegion(t *testing.T) {
	svc := newTestService(&mockRepository{}, &mockMailer{})

	_, err := svc.Submit(context.Background(), 1, RequestForm{Region: "us", Company: "Acme Inc"})
	require.ErrorIs(t, err, shared.ErrValidation)
}

func TestApproveOnlyFromPending(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo, &mockMailer{})

	req, err := svc.Submit(context.Background(), 1, RequestForm{Region: RegionUK, Company: "Acme Ltd"})
	require.NoError(t, err)

	approved, err := svc.Approve(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, approved.Status)

	_, err = svc.Reject(context.Background(), req.ID)
	require.ErrorIs(t, err, shared.ErrValidation, "a decided request stays decided")
}

func TestListMineScopedToOwner(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo, &mockMailer{})

	_, err := svc.Submit(context.Background(), 1, RequestForm{Region: RegionEU, Company: "Acme GmbH"})
	require.NoError(t, err)
	_, err = svc.Submit(context.Background(), 2, RequestForm{Region: RegionEU, Company: "Other GmbH"})
	require.NoError(t, err)

	mine, err := svc.ListMine(context.Background(), 1, listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 1, mine.TotalCount)

	all, err := svc.ListAll(context.Background(), listing.Query{})
	require.NoError(t, err)
	assert.Equal(t, 2, all.TotalCount)
}

func TestAddressLifecycle(t *testing.T) {
	repo := &mockRepository{}
	svc := newTestService(repo, &mockMailer{})

	before, err := svc.Addresses(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, before)

	addr, err := svc.AssignAddress(context.Background(), Address{UserID: 1, Region: RegionEU, CompanyName: "ComplyHub EU"})
	require.NoError(t, err)

	after, err := svc.Addresses(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, after, 1)

	require.NoError(t, svc.RevokeAddress(context.Background(), addr.ID))
	final, err := svc.Addresses(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, final)
}
