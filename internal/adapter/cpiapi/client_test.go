package cpiapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cpisim/cpisim-backend/internal/domain"
)

func testDistribution() domain.Distribution {
	return domain.Distribution{
		domain.CouncilTokenHouse:   decimal.NewFromFloat(60),
		domain.CouncilCitizenHouse: decimal.NewFromFloat(40),
	}
}

func TestCalculate_Success(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]interface{}{
			"results": []map[string]interface{}{
				{
					"filename": "01-06-2022.csv",
					"cpi":      0.38,
					"activeRedistributed": map[string]float64{
						"Token House": 60,
						"Not A House": 1,
					},
				},
				{"filename": "2023-04-05", "cpi": 0.35},
			},
		})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zap.NewNop())
	records, err := client.Calculate(context.Background(), testDistribution())

	require.NoError(t, err)
	assert.Equal(t, "/api/calculate-cpi", gotPath)

	// The raw percentage map is posted as label -> two-decimal string.
	assert.Equal(t, "60.00", gotBody["Token House"])
	assert.Equal(t, "40.00", gotBody["Citizen House"])

	require.Len(t, records, 2)
	assert.Equal(t, "01-06-2022.csv", records[0].DateKey)
	assert.Equal(t, 0.38, records[0].Value)
	// Unknown labels from the service are dropped.
	assert.Equal(t, map[domain.Council]float64{domain.CouncilTokenHouse: 60}, records[0].Attribution)
	assert.Nil(t, records[1].Attribution)
}

func TestCalculate_ServerMessageSurfaced(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]string{"message": "Invalid percentage value for Token House"})
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zap.NewNop())
	_, err := client.Calculate(context.Background(), testDistribution())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid percentage value for Token House")
}

func TestCalculate_GenericFallbackWithoutMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("boom"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zap.NewNop())
	_, err := client.Calculate(context.Background(), testDistribution())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}

func TestCalculate_NetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // immediately unreachable

	client := NewClient(srv.URL, nil, zap.NewNop())
	_, err := client.Calculate(context.Background(), testDistribution())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "calling CPI service")
}

func TestCalculate_MalformedResponseBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.Client(), zap.NewNop())
	_, err := client.Calculate(context.Background(), testDistribution())

	assert.ErrorContains(t, err, "decoding CPI response")
}
