package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/ktv-ledger/ktv-backend-go/internal/domain/salary"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddleware_LabelsByRoutePattern(t *testing.T) {
	m := New()
	r := chi.NewRouter()
	r.Use(m.Middleware)
	r.Get("/employees/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	for _, id := range []string{"a", "b", "c"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/employees/"+id, nil))
		require.Equal(t, http.StatusNoContent, rec.Code)
	}

	assert.Equal(t, float64(3), testutil.ToFloat64(m.requests.WithLabelValues("/employees/{id}", "GET", "204")))
}

func TestRecordSettlements(t *testing.T) {
	m := New()
	m.RecordSettlements(salary.SettlementListResponse{
		Settlements: []salary.SettlementSummary{
			{EmployeeID: "e1", EmployeeName: "Lily", UnpaidDays: 2, UnpaidBaseSalary: decimal.NewFromInt(450)},
			{EmployeeID: "e2", EmployeeName: "Rose", UnpaidDays: 0, UnpaidBaseSalary: decimal.Zero},
		},
		TotalUnpaidBase: decimal.NewFromInt(450),
	})

	assert.Equal(t, float64(450), testutil.ToFloat64(m.unpaidBase.WithLabelValues("e1", "Lily")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.unpaidDays.WithLabelValues("e1", "Lily")))
	assert.Equal(t, float64(450), testutil.ToFloat64(m.unpaidBaseTotal))

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(body), "ktv_settlement_unpaid_base_salary_total 450"))
}
