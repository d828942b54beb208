package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"patungan/internal/domain"
)

const razorpayTestSecret = "rzp_secret_test"

func signRazorpay(orderID, paymentID, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	sig := signRazorpay("order_1", "pay_1", razorpayTestSecret)

	assert.True(t, VerifySignature("order_1", "pay_1", sig, razorpayTestSecret))
	assert.False(t, VerifySignature("order_1", "pay_2", sig, razorpayTestSecret))
	assert.False(t, VerifySignature("order_1", "pay_1", sig, "another-secret"))
	assert.False(t, VerifySignature("order_1", "pay_1", "", razorpayTestSecret))
}

// Any single-bit tamper of the signature must be rejected.
func TestVerifySignatureTamperedBits(t *testing.T) {
	sig := signRazorpay("order_abc", "pay_xyz", razorpayTestSecret)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 256; i++ {
		raw := []byte(sig)
		pos := rng.Intn(len(raw))
		raw[pos] ^= 1 << uint(rng.Intn(8))
		if string(raw) == sig {
			continue
		}
		assert.False(t, VerifySignature("order_abc", "pay_xyz", string(raw), razorpayTestSecret),
			"tampered signature %q accepted", string(raw))
	}
}

type fakeOrders struct {
	calls    int
	lastData map[string]interface{}
	response map[string]interface{}
	err      error
}

func (f *fakeOrders) Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error) {
	f.calls++
	f.lastData = data
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

func newTestRazorpayRail(t *testing.T, repo *fakeCampaignRepo, orders *fakeOrders) *RazorpayRail {
	t.Helper()
	rail, err := NewRazorpayRail(NewGuard(repo), RazorpayOptions{
		KeyID:     "rzp_test_key",
		KeySecret: razorpayTestSecret,
		MinAmount: 100,
		Orders:    orders,
	})
	require.NoError(t, err)
	return rail
}

func TestCreateOrder(t *testing.T) {
	orders := &fakeOrders{response: map[string]interface{}{"id": "order_123"}}
	rail := newTestRazorpayRail(t, payableCampaignRepo(), orders)

	orderID, err := rail.CreateOrder(context.Background(), SessionRequest{
		CampaignID: "camp-1",
		Amount:     500,
		DonorName:  "Ayu",
		DonorEmail: "ayu@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, "order_123", orderID)
	assert.Equal(t, 1, orders.calls)

	notes, ok := orders.lastData["notes"].(map[string]interface{})
	require.True(t, ok, "order notes missing")
	assert.Equal(t, "camp-1", notes[metaCampaignID])
	assert.Equal(t, "Ayu", notes[metaDonorName])
}

func TestCreateOrderRejectsLowAmount(t *testing.T) {
	orders := &fakeOrders{response: map[string]interface{}{"id": "order_123"}}
	rail := newTestRazorpayRail(t, payableCampaignRepo(), orders)

	_, err := rail.CreateOrder(context.Background(), SessionRequest{
		CampaignID: "camp-1",
		Amount:     50,
		DonorName:  "Ayu",
		DonorEmail: "ayu@example.com",
	})
	require.ErrorIs(t, err, domain.ErrAmountTooLow)
	assert.Zero(t, orders.calls, "no provider order may be opened")
}

func TestCreateOrderRejectsUnsharedCampaign(t *testing.T) {
	repo := payableCampaignRepo()
	repo.link.Visibility = domain.VisibilityPrivate
	orders := &fakeOrders{response: map[string]interface{}{"id": "order_123"}}
	rail := newTestRazorpayRail(t, repo, orders)

	_, err := rail.CreateOrder(context.Background(), SessionRequest{
		CampaignID: "camp-1",
		Amount:     5000,
		DonorName:  "Ayu",
		DonorEmail: "ayu@example.com",
	})
	require.ErrorIs(t, err, domain.ErrNotPayable)

	var notPayable *NotPayableError
	require.ErrorAs(t, err, &notPayable)
	assert.Equal(t, domain.PayReasonNotShared, notPayable.Reason)
	assert.Zero(t, orders.calls)
}

func TestVerifyConfirmation(t *testing.T) {
	rail := newTestRazorpayRail(t, payableCampaignRepo(), &fakeOrders{})

	req := ConfirmRequest{
		OrderID:    "order_9",
		PaymentID:  "pay_9",
		Signature:  signRazorpay("order_9", "pay_9", razorpayTestSecret),
		CampaignID: "camp-1",
		DonorName:  "Budi",
		DonorEmail: "budi@example.com",
		Amount:     2500,
	}
	draft, err := rail.VerifyConfirmation(req)
	require.NoError(t, err)
	assert.Equal(t, "pay_9", draft.PaymentID)
	assert.Equal(t, "order_9", draft.SessionID)
	assert.Equal(t, int64(2500), draft.Amount)
	assert.Equal(t, domain.ProviderRazorpay, draft.Provider)
}

func TestVerifyConfirmationWrongSecret(t *testing.T) {
	rail := newTestRazorpayRail(t, payableCampaignRepo(), &fakeOrders{})

	req := ConfirmRequest{
		OrderID:    "order_9",
		PaymentID:  "pay_9",
		Signature:  signRazorpay("order_9", "pay_9", "some-other-secret"),
		CampaignID: "camp-1",
		Amount:     2500,
	}
	_, err := rail.VerifyConfirmation(req)
	require.ErrorIs(t, err, domain.ErrInvalidSignature)
}
