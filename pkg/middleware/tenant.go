package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/iota-uz/timesheet/pkg/composables"
)

const TenantIDHeader = "X-Tenant-ID"

// ProvideTenantID resolves the tenant from the request header. Requests
// without a valid tenant id are rejected before reaching any handler.
func ProvideTenantID() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tenantID, err := uuid.Parse(r.Header.Get(TenantIDHeader))
			if err != nil || tenantID == uuid.Nil {
				http.Error(w, "missing or invalid tenant id", http.StatusBadRequest)
				return
			}
			next.ServeHTTP(w, r.WithContext(composables.WithTenantID(r.Context(), tenantID)))
		})
	}
}
