// internal/handlers/activity-signup/validation.go
package activitysignup

import (
	"net/http"
	"strings"

	apperrors "activities-service/internal/common/errors"
)

// parseRequest extracts the signup input. Participant identifiers are
// opaque, so only presence is validated. The router already
// percent-decodes the {name} segment.
func parseRequest(r *http.Request) (*Request, error) {
	email := strings.TrimSpace(r.URL.Query().Get("email"))
	if email == "" {
		return nil, apperrors.NewInvalidEmailError(email)
	}

	return &Request{
		Activity: r.PathValue("name"),
		Email:    email,
	}, nil
}
