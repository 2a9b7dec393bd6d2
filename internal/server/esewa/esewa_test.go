package esewa

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/jobportal/internal/server/config"
)

func testConfig(statusURL string) config.EsewaConfig {
	return config.EsewaConfig{
		ProductCode:    "EPAYTEST",
		SecretKey:      "8gBm/:&EnhH.1/q",
		PaymentURL:     "https://pay.example/form",
		StatusCheckURL: statusURL,
	}
}

func TestSign_KnownVector(t *testing.T) {
	// Test merchant credentials.
	msg := SignatureMessage("100", "11-201-13", "EPAYTEST")
	assert.Equal(t, "total_amount=100,transaction_uuid=11-201-13,product_code=EPAYTEST", msg)
	assert.Equal(t, "5DZywcrTKD0gia/rsSMcrRHmJl+4Tbol6S+lWgdJ94E=", Sign("8gBm/:&EnhH.1/q", msg))
}

func TestFormParameters(t *testing.T) {
	g := New(testConfig(""), nil)

	p := g.FormParameters("2500", "u1_abc", "https://api/ok", "https://api/fail")

	assert.Equal(t, "2500", p["amount"])
	assert.Equal(t, "2500", p["total_amount"])
	assert.Equal(t, "0", p["tax_amount"])
	assert.Equal(t, "0", p["product_service_charge"])
	assert.Equal(t, "0", p["product_delivery_charge"])
	assert.Equal(t, "u1_abc", p["transaction_uuid"])
	assert.Equal(t, "EPAYTEST", p["product_code"])
	assert.Equal(t, "https://api/ok", p["success_url"])
	assert.Equal(t, "https://api/fail", p["failure_url"])
	assert.Equal(t, "total_amount,transaction_uuid,product_code", p["signed_field_names"])
	assert.Equal(t, Sign("8gBm/:&EnhH.1/q", SignatureMessage("2500", "u1_abc", "EPAYTEST")), p["signature"])
	assert.Equal(t, "https://pay.example/form", g.PaymentURL())
}

func encodeCallback(t *testing.T, v map[string]any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(b)
}

func TestDecodeCallback(t *testing.T) {
	t.Run("numeric amount keeps its literal", func(t *testing.T) {
		c, err := DecodeCallback(encodeCallback(t, map[string]any{
			"transaction_code": "000AWEO",
			"status":           "COMPLETE",
			"total_amount":     1000.0,
			"transaction_uuid": "u1_x",
			"product_code":     "EPAYTEST",
		}))
		require.NoError(t, err)
		assert.Equal(t, Amount("1000"), c.TotalAmount)
		assert.Equal(t, "u1_x", c.TransactionUUID)
	})

	t.Run("string amount", func(t *testing.T) {
		c, err := DecodeCallback(encodeCallback(t, map[string]any{"total_amount": "1,000.0"}))
		require.NoError(t, err)
		assert.Equal(t, Amount("1,000.0"), c.TotalAmount)
	})

	t.Run("bad base64", func(t *testing.T) {
		_, err := DecodeCallback("!!!")
		assert.True(t, errors.Is(err, ErrInvalidCallback))
	})

	t.Run("bad json", func(t *testing.T) {
		_, err := DecodeCallback(base64.StdEncoding.EncodeToString([]byte("{")))
		assert.True(t, errors.Is(err, ErrInvalidCallback))
	})
}

func TestCallback_VerifySignature(t *testing.T) {
	secret := "8gBm/:&EnhH.1/q"
	c := &Callback{
		TransactionCode:  "000AWEO",
		Status:           "COMPLETE",
		TotalAmount:      "1000.0",
		TransactionUUID:  "u1_x",
		ProductCode:      "EPAYTEST",
		SignedFieldNames: "transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names",
	}
	c.Signature = Sign(secret, "transaction_code=000AWEO,status=COMPLETE,total_amount=1000.0,transaction_uuid=u1_x,product_code=EPAYTEST,signed_field_names=transaction_code,status,total_amount,transaction_uuid,product_code,signed_field_names")

	require.NoError(t, c.VerifySignature(secret))

	c.Status = "PENDING"
	assert.ErrorIs(t, c.VerifySignature(secret), ErrInvalidSignature)

	c.SignedFieldNames = "bogus"
	assert.ErrorIs(t, c.VerifySignature(secret), ErrInvalidSignature)

	assert.NoError(t, (&Callback{}).VerifySignature(secret))
}

func TestUserIDFromTransaction(t *testing.T) {
	id, err := UserIDFromTransaction("7c9e6679-7425-40de-944b-e07fc1f90ae7_1b4e28ba")
	require.NoError(t, err)
	assert.Equal(t, "7c9e6679-7425-40de-944b-e07fc1f90ae7", id)

	_, err = UserIDFromTransaction("nounderscore")
	assert.ErrorIs(t, err, ErrInvalidCallback)

	_, err = UserIDFromTransaction("_abc")
	assert.ErrorIs(t, err, ErrInvalidCallback)
}

func TestCheckStatus(t *testing.T) {
	t.Run("complete", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "EPAYTEST", q.Get("product_code"))
			assert.Equal(t, "2500", q.Get("total_amount"))
			assert.Equal(t, "u1_x", q.Get("transaction_uuid"))
			_, _ = w.Write([]byte(`{"product_code":"EPAYTEST","transaction_uuid":"u1_x","total_amount":2500.0,"status":"COMPLETE","ref_id":"REF1"}`))
		}))
		defer srv.Close()

		g := New(testConfig(srv.URL+"/status/"), srv.Client())
		res, err := g.CheckStatus(context.Background(), "2500", "u1_x")
		require.NoError(t, err)
		assert.True(t, res.Complete())
		require.NotNil(t, res.RefID)
		assert.Equal(t, "REF1", *res.RefID)
	})

	t.Run("pending is not complete", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"status":"PENDING","ref_id":null}`))
		}))
		defer srv.Close()

		res, err := New(testConfig(srv.URL), srv.Client()).CheckStatus(context.Background(), "1000", "u1_x")
		require.NoError(t, err)
		assert.False(t, res.Complete())
		assert.Nil(t, res.RefID)
	})

	t.Run("non-200", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusBadGateway)
		}))
		defer srv.Close()

		_, err := New(testConfig(srv.URL), srv.Client()).CheckStatus(context.Background(), "1000", "u1_x")
		assert.ErrorIs(t, err, ErrStatusCheck)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("missing input", func(t *testing.T) {
		_, err := New(testConfig("http://unused"), nil).CheckStatus(context.Background(), "", "u1_x")
		assert.ErrorIs(t, err, ErrStatusCheck)
	})
}
