package progress

import (
	"fmt"
	"time"

	"coursely/services/eligibility"

	"github.com/go-resty/resty/v2"
)

// RemoteSource fetches metrics from an external progress service over HTTP.
type RemoteSource struct {
	client *resty.Client
}

// NewRemoteSource creates a progress source backed by the given base URL
func NewRemoteSource(baseURL string) *RemoteSource {
	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(10 * time.Second).
		SetRetryCount(2)
	return &RemoteSource{client: client}
}

// Metrics fetches a snapshot from the remote progress API
func (s *RemoteSource) Metrics(userID, courseID uint) (eligibility.Metrics, error) {
	var result eligibility.Metrics

	resp, err := s.client.R().
		SetQueryParam("student_id", fmt.Sprintf("%d", userID)).
		SetQueryParam("course_id", fmt.Sprintf("%d", courseID)).
		SetResult(&result).
		Get("/progress")
	if err != nil {
		return eligibility.Metrics{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if resp.StatusCode() == 404 {
		return eligibility.Metrics{}, ErrNotEnrolled
	}
	if resp.IsError() {
		return eligibility.Metrics{}, fmt.Errorf("%w: progress API returned %d", ErrUnavailable, resp.StatusCode())
	}

	return result, nil
}
