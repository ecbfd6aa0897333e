package auth_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/billed/internal/bill"
	"github.com/MrJamesThe3rd/billed/internal/http/auth"
	"github.com/MrJamesThe3rd/billed/internal/user"
)

func TestMiddleware(t *testing.T) {
	tokens := user.NewTokens("test-secret", time.Hour)

	adminToken, err := tokens.Issue(&user.User{Email: "admin@test.tld", Type: user.TypeAdmin})
	require.NoError(t, err)

	employeeToken, err := tokens.Issue(&user.User{Email: "employee@test.tld", Type: user.TypeEmployee})
	require.NoError(t, err)

	foreignToken, err := user.NewTokens("other-secret", time.Hour).Issue(&user.User{Email: "admin@test.tld", Type: user.TypeAdmin})
	require.NoError(t, err)

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantActor  bill.Actor
	}{
		{name: "Admin", header: "Bearer " + adminToken, wantStatus: http.StatusOK, wantActor: bill.Actor{Email: "admin@test.tld", Admin: true}},
		{name: "Employee", header: "Bearer " + employeeToken, wantStatus: http.StatusOK, wantActor: bill.Actor{Email: "employee@test.tld"}},
		{name: "Missing", header: "", wantStatus: http.StatusUnauthorized},
		{name: "Not bearer", header: "Basic " + adminToken, wantStatus: http.StatusUnauthorized},
		{name: "Wrong secret", header: "Bearer " + foreignToken, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got bill.Actor

			h := auth.Middleware(tokens)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				a, ok := auth.ActorFrom(r.Context())
				require.True(t, ok)

				got = a
			}))

			req := httptest.NewRequest(http.MethodGet, "/api/v1/bills", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantActor, got)
		})
	}
}
