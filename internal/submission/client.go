// Package submission talks to the third-party registration form. The form
// was never designed for programmatic use: every submission has to scrape a
// rotating one-time token from the registration page before posting.
package submission

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"leaderboard-backend/internal/config"
	"leaderboard-backend/internal/model"
)

// tokenPattern matches the hidden one-time token field on the registration
// page. No match means the third party changed their layout.
var tokenPattern = regexp.MustCompile(`<input type="hidden" name="zz_id" value="(.{5,10})">`)

const (
	actionInsert   = "insert"
	consentGranted = "Ja, ich stimme zu."
)

// TokenFetchError reports a transport failure while fetching the
// registration page.
type TokenFetchError struct {
	Err error
}

func (e *TokenFetchError) Error() string {
	return fmt.Sprintf("couldn't fetch submission token, are we blocked?: %v", e.Err)
}

func (e *TokenFetchError) Unwrap() error { return e.Err }

// ErrTokenExtract is returned when the token field is missing from the
// fetched page. Unlike transport errors this is not retryable: it signals
// the third party changed their page layout.
var ErrTokenExtract = errors.New("couldn't extract submission token, did the page layout change?")

// SubmitError reports a transport failure while posting the filled form.
type SubmitError struct {
	Err error
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("couldn't submit registration form: %v", e.Err)
}

func (e *SubmitError) Unwrap() error { return e.Err }

// Entry holds the identity data posted to the registration form.
type Entry struct {
	FirstName  string
	LastName   string
	Email      string
	Occupation string
	Newsletter bool
}

// Client submits raffle registrations to the external form endpoint.
type Client struct {
	http    *http.Client
	formURL string
	eventID int
}

// NewClient creates a submission client with a bounded HTTP timeout.
func NewClient(cfg *config.RaffleConfig) *Client {
	timeout := cfg.HTTPTimeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		http:    &http.Client{Timeout: timeout},
		formURL: cfg.FormURL,
		eventID: cfg.EventID,
	}
}

// fetchToken GETs the registration page and scrapes the one-time token.
// The token may be single-use, so it is never cached across submissions.
func (c *Client) fetchToken(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.formURL, nil)
	if err != nil {
		return "", &TokenFetchError{Err: err}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &TokenFetchError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TokenFetchError{Err: err}
	}

	m := tokenPattern.FindSubmatch(body)
	if m == nil {
		return "", ErrTokenExtract
	}

	return string(m[1]), nil
}

// Submit fetches a fresh token, fills the form and posts it urlencoded.
// The remote response is not validated beyond HTTP transport success; the
// raw body is logged so operators can spot a 200-with-error-page.
func (c *Client) Submit(ctx context.Context, entry Entry) error {
	token, err := c.fetchToken(ctx)
	if err != nil {
		return err
	}

	form := url.Values{}
	form.Set("persons[0][first_name]", entry.FirstName)
	form.Set("persons[0][last_name]", entry.LastName)
	form.Set("contactdetails_5[0][identification]", entry.Email)
	form.Set("registrationvarchars_103[0][registrationvarchar]", occupationLabel(entry.Occupation))
	form.Set("registrationvarchars_105[0][registrationvarchar]", newsletterLabel(entry.Newsletter))
	form.Set("registrationvarchars_106[0][registrationvarchar]", consentGranted)
	form.Set("zz_id", token)
	form.Set("zz_action", actionInsert)
	form.Set("events_contacts[0][event_id]", strconv.Itoa(c.eventID))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.formURL, strings.NewReader(form.Encode()))
	if err != nil {
		return &SubmitError{Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return &SubmitError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return &SubmitError{Err: err}
	}

	log.Info().
		Int("status", resp.StatusCode).
		Str("body", string(body)).
		Msg("Registration form response")

	return nil
}

// occupationLabel maps the closed form enum to the labels the registration
// service expects.
func occupationLabel(class string) string {
	switch class {
	case model.OccupationSchool:
		return "Schüler:in"
	case model.OccupationUniversity:
		return "Student:in"
	case model.OccupationParent:
		return "Elternteil"
	default:
		return "sonstiges"
	}
}

func newsletterLabel(wants bool) string {
	if wants {
		return "yes"
	}
	return "no"
}
