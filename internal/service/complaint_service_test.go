package service_test

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/theetaz/complaint-service/internal/domain"
	"github.com/theetaz/complaint-service/internal/events"
	"github.com/theetaz/complaint-service/internal/service"
)

type fakeComplaintRepo struct {
	complaints map[string]*domain.Complaint
	seq        int
}

func newFakeComplaintRepo() *fakeComplaintRepo {
	return &fakeComplaintRepo{complaints: make(map[string]*domain.Complaint)}
}

func (r *fakeComplaintRepo) Create(_ context.Context, complaint *domain.Complaint) error {
	complaint.ID = uuid.NewString()
	r.seq++
	complaint.CreatedAt = time.Now()
	complaint.UpdatedAt = time.Now().Add(time.Duration(r.seq) * time.Millisecond)
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) Update(_ context.Context, complaint *domain.Complaint) error {
	if _, ok := r.complaints[complaint.ID]; !ok {
		return pgx.ErrNoRows
	}
	complaint.UpdatedAt = time.Now()
	clone := *complaint
	r.complaints[complaint.ID] = &clone
	return nil
}

func (r *fakeComplaintRepo) Delete(_ context.Context, id string) error {
	if _, ok := r.complaints[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.complaints, id)
	return nil
}

func (r *fakeComplaintRepo) GetByID(_ context.Context, id string) (*domain.Complaint, error) {
	complaint, ok := r.complaints[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	clone := *complaint
	return &clone, nil
}

func (r *fakeComplaintRepo) List(_ context.Context, limit, offset int) ([]*domain.Complaint, error) {
	all := make([]*domain.Complaint, 0, len(r.complaints))
	for _, complaint := range r.complaints {
		clone := *complaint
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].UpdatedAt.After(all[j].UpdatedAt) })

	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakeComplaintRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.complaints)), nil
}

// fakeUploader records uploads and returns deterministic URLs.
type fakeUploader struct {
	uploads []string
}

func (u *fakeUploader) Upload(_ context.Context, folder, filename, _ string, _ []byte) (string, error) {
	key := folder + "/" + filename
	u.uploads = append(u.uploads, key)
	return "https://bucket.example.com/" + key, nil
}

type complaintFixture struct {
	svc        *service.ComplaintService
	repo       *fakeComplaintRepo
	uploader   *fakeUploader
	dispatcher *recordingDispatcher
}

func newComplaintFixture(t *testing.T) *complaintFixture {
	t.Helper()
	repo := newFakeComplaintRepo()
	uploader := &fakeUploader{}
	dispatcher := &recordingDispatcher{}
	return &complaintFixture{
		svc:        service.NewComplaintService(repo, uploader, dispatcher),
		repo:       repo,
		uploader:   uploader,
		dispatcher: dispatcher,
	}
}

func seedComplaint(t *testing.T, f *complaintFixture, description string) *domain.Complaint {
	t.Helper()
	complaint, err := f.svc.Create(context.Background(), &domain.Complaint{
		Description: description,
		Category:    "roads",
		UserID:      "alice@example.com",
	})
	require.NoError(t, err)
	return complaint
}

func TestComplaintServiceCreate(t *testing.T) {
	t.Parallel()
	f := newComplaintFixture(t)

	complaint := seedComplaint(t, f, "pothole on main street")
	assert.NotEmpty(t, complaint.ID)
	assert.Equal(t, domain.ComplaintStatusPending, complaint.Status)
	assert.Equal(t, 1, f.dispatcher.countOf(events.EventComplaintCreated))
}

func TestComplaintServiceList(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newComplaintFixture(t)

	for i := 0; i < 5; i++ {
		seedComplaint(t, f, fmt.Sprintf("complaint %d", i))
	}

	t.Run("pagination meta", func(t *testing.T) {
		complaints, meta, err := f.svc.List(ctx, 1, 2)
		require.NoError(t, err)
		assert.Len(t, complaints, 2)
		assert.Equal(t, int64(5), meta.TotalItems)
		assert.Equal(t, int64(3), meta.TotalPages)
		assert.Equal(t, 1, meta.Page)
	})

	t.Run("last page is short", func(t *testing.T) {
		complaints, _, err := f.svc.List(ctx, 3, 2)
		require.NoError(t, err)
		assert.Len(t, complaints, 1)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		complaints, meta, err := f.svc.List(ctx, 9, 2)
		require.NoError(t, err)
		assert.Empty(t, complaints)
		assert.Equal(t, int64(5), meta.TotalItems)
	})

	t.Run("bad page arguments fall back to defaults", func(t *testing.T) {
		complaints, meta, err := f.svc.List(ctx, 0, -1)
		require.NoError(t, err)
		assert.Len(t, complaints, 5)
		assert.Equal(t, 1, meta.Page)
		assert.Equal(t, 20, meta.PageSize)
	})
}

func TestComplaintServiceUpdate(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("partial update leaves other fields intact", func(t *testing.T) {
		f := newComplaintFixture(t)
		complaint := seedComplaint(t, f, "broken streetlight")

		place := "5th avenue"
		updated, err := f.svc.Update(ctx, complaint.ID, service.ComplaintUpdate{Place: &place})
		require.NoError(t, err)
		require.NotNil(t, updated.Place)
		assert.Equal(t, "5th avenue", *updated.Place)
		assert.Equal(t, "broken streetlight", updated.Description)
		assert.Equal(t, domain.ComplaintStatusPending, updated.Status)
		assert.Equal(t, 0, f.dispatcher.countOf(events.EventComplaintStatusChanged))
	})

	t.Run("status transition emits an event", func(t *testing.T) {
		f := newComplaintFixture(t)
		complaint := seedComplaint(t, f, "broken streetlight")

		status := domain.ComplaintStatusResolved
		updated, err := f.svc.Update(ctx, complaint.ID, service.ComplaintUpdate{Status: &status})
		require.NoError(t, err)
		assert.Equal(t, domain.ComplaintStatusResolved, updated.Status)
		require.Equal(t, 1, f.dispatcher.countOf(events.EventComplaintStatusChanged))

		last := f.dispatcher.published[len(f.dispatcher.published)-1]
		payload, ok := last.Payload.(events.ComplaintStatusChangedPayload)
		require.True(t, ok)
		assert.Equal(t, domain.ComplaintStatusPending, payload.OldStatus)
		assert.Equal(t, domain.ComplaintStatusResolved, payload.NewStatus)
	})

	t.Run("unknown complaint", func(t *testing.T) {
		f := newComplaintFixture(t)
		_, err := f.svc.Update(ctx, uuid.NewString(), service.ComplaintUpdate{})
		requireDomainCode(t, err, "NOT_FOUND")
	})
}

func TestComplaintServiceDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newComplaintFixture(t)
	complaint := seedComplaint(t, f, "noise at night")

	require.NoError(t, f.svc.Delete(ctx, complaint.ID))

	_, err := f.svc.GetByID(ctx, complaint.ID)
	requireDomainCode(t, err, "NOT_FOUND")

	err = f.svc.Delete(ctx, complaint.ID)
	requireDomainCode(t, err, "NOT_FOUND")
}

func TestComplaintServiceAttachImage(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("first and second attachments accumulate", func(t *testing.T) {
		f := newComplaintFixture(t)
		complaint := seedComplaint(t, f, "overflowing bin")

		updated, err := f.svc.AttachImage(ctx, complaint.ID, "one.jpg", "image/jpeg", []byte("fake"))
		require.NoError(t, err)
		require.NotNil(t, updated.Images)
		first := *updated.Images

		updated, err = f.svc.AttachImage(ctx, complaint.ID, "two.jpg", "image/jpeg", []byte("fake"))
		require.NoError(t, err)
		require.NotNil(t, updated.Images)
		assert.Equal(t, first+","+"https://bucket.example.com/complaints/"+complaint.ID+"/two.jpg", *updated.Images)
		assert.Len(t, f.uploader.uploads, 2)
	})

	t.Run("no storage configured", func(t *testing.T) {
		repo := newFakeComplaintRepo()
		svc := service.NewComplaintService(repo, nil, nil)
		_, err := svc.AttachImage(ctx, uuid.NewString(), "one.jpg", "image/jpeg", nil)
		requireDomainCode(t, err, "VALIDATION_FAILED")
	})
}
