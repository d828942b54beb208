package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patungan/internal/domain"
)

type fakePublisher struct {
	published []*domain.Donation
	err       error
}

func (f *fakePublisher) DonationRecorded(ctx context.Context, d *domain.Donation) error {
	f.published = append(f.published, d)
	return f.err
}

func testDraft() DonationDraft {
	return DonationDraft{
		CampaignID: "camp-1",
		Amount:     500,
		DonorName:  "A",
		DonorEmail: "a@x.com",
		Provider:   domain.ProviderStripe,
		SessionID:  "cs_1",
		PaymentID:  "pi_1",
	}
}

func TestRecorderIdempotentReplay(t *testing.T) {
	repo := newFakeDonationRepo()
	recorder := NewRecorder(repo, nil, testLogger())

	created, err := recorder.Record(context.Background(), testDraft())
	require.NoError(t, err)
	assert.True(t, created)

	// Replaying the identical payload any number of times leaves exactly one
	// record and still reports success.
	for i := 0; i < 5; i++ {
		created, err = recorder.Record(context.Background(), testDraft())
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.Len(t, repo.byPaymentID, 1)
	assert.Equal(t, int64(500), repo.byPaymentID["pi_1"].Amount)
}

func TestRecorderStorageFailurePropagates(t *testing.T) {
	repo := newFakeDonationRepo()
	repo.failWith = errors.New("connection reset")
	recorder := NewRecorder(repo, nil, testLogger())

	_, err := recorder.Record(context.Background(), testDraft())
	require.Error(t, err)
}

func TestRecorderRejectsInvalidDraft(t *testing.T) {
	recorder := NewRecorder(newFakeDonationRepo(), nil, testLogger())

	draft := testDraft()
	draft.PaymentID = ""
	_, err := recorder.Record(context.Background(), draft)
	require.Error(t, err)

	draft = testDraft()
	draft.Amount = 0
	_, err = recorder.Record(context.Background(), draft)
	require.Error(t, err)
}

func TestRecorderPublishesOnceAndBestEffort(t *testing.T) {
	repo := newFakeDonationRepo()
	publisher := &fakePublisher{}
	recorder := NewRecorder(repo, publisher, testLogger())

	_, err := recorder.Record(context.Background(), testDraft())
	require.NoError(t, err)
	_, err = recorder.Record(context.Background(), testDraft())
	require.NoError(t, err)

	// Replays are not re-published.
	assert.Len(t, publisher.published, 1)

	// A broker failure never fails the payment path.
	publisher.err = errors.New("broker down")
	draft := testDraft()
	draft.PaymentID = "pi_2"
	created, err := recorder.Record(context.Background(), draft)
	require.NoError(t, err)
	assert.True(t, created)
}
