package submission

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leaderboard-backend/internal/config"
	"leaderboard-backend/internal/model"
)

const testToken = "a1b2c3d"

// formServer fakes the third-party registration endpoint: GET serves the
// page with the hidden token, POST records the submitted form.
type formServer struct {
	mu        sync.Mutex
	page      string
	posts     []url.Values
	breakPost bool
}

func (f *formServer) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "text/html")
			_, _ = w.Write([]byte(f.page))
		case http.MethodPost:
			f.mu.Lock()
			defer f.mu.Unlock()
			if f.breakPost {
				// kill the connection to simulate a transport failure
				conn, _, err := w.(http.Hijacker).Hijack()
				if err == nil {
					_ = conn.Close()
				}
				return
			}
			_ = r.ParseForm()
			f.posts = append(f.posts, r.PostForm)
			_, _ = w.Write([]byte("<html>Vielen Dank!</html>"))
		}
	}
}

func (f *formServer) postCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.posts)
}

func newTestClient(t *testing.T, fs *formServer) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(fs.handler())
	t.Cleanup(srv.Close)

	client := NewClient(&config.RaffleConfig{
		FormURL:     srv.URL,
		EventID:     4062,
		HTTPTimeout: 5 * time.Second,
	})
	return client, srv
}

func pageWithToken(token string) string {
	return `<html><form><input type="hidden" name="zz_id" value="` + token + `"></form></html>`
}

func TestSubmitPostsAllFields(t *testing.T) {
	fs := &formServer{page: pageWithToken(testToken)}
	client, _ := newTestClient(t, fs)

	err := client.Submit(context.Background(), Entry{
		FirstName:  "Testy",
		LastName:   "McTestface",
		Email:      "testy@example.com",
		Occupation: model.OccupationSchool,
		Newsletter: true,
	})
	require.NoError(t, err)

	require.Equal(t, 1, fs.postCount())
	form := fs.posts[0]
	assert.Equal(t, "Testy", form.Get("persons[0][first_name]"))
	assert.Equal(t, "McTestface", form.Get("persons[0][last_name]"))
	assert.Equal(t, "testy@example.com", form.Get("contactdetails_5[0][identification]"))
	assert.Equal(t, "Schüler:in", form.Get("registrationvarchars_103[0][registrationvarchar]"))
	assert.Equal(t, "yes", form.Get("registrationvarchars_105[0][registrationvarchar]"))
	assert.Equal(t, "Ja, ich stimme zu.", form.Get("registrationvarchars_106[0][registrationvarchar]"))
	assert.Equal(t, testToken, form.Get("zz_id"))
	assert.Equal(t, "insert", form.Get("zz_action"))
	assert.Equal(t, "4062", form.Get("events_contacts[0][event_id]"))
}

func TestSubmitNoNewsletter(t *testing.T) {
	fs := &formServer{page: pageWithToken(testToken)}
	client, _ := newTestClient(t, fs)

	err := client.Submit(context.Background(), Entry{
		FirstName:  "A",
		LastName:   "B",
		Email:      "a@b.c",
		Occupation: model.OccupationParent,
		Newsletter: false,
	})
	require.NoError(t, err)

	form := fs.posts[0]
	assert.Equal(t, "no", form.Get("registrationvarchars_105[0][registrationvarchar]"))
	assert.Equal(t, "Elternteil", form.Get("registrationvarchars_103[0][registrationvarchar]"))
}

func TestTokenExtractFailedSkipsPost(t *testing.T) {
	fs := &formServer{page: "<html>relaunched, shiny, tokenless</html>"}
	client, _ := newTestClient(t, fs)

	err := client.Submit(context.Background(), Entry{FirstName: "A", LastName: "B", Email: "a@b.c"})

	assert.ErrorIs(t, err, ErrTokenExtract)
	assert.Equal(t, 0, fs.postCount(), "no POST may happen without a token")
}

func TestTokenLengthBounds(t *testing.T) {
	// value shorter than 5 chars must not match the token pattern
	fs := &formServer{page: pageWithToken("abc")}
	client, _ := newTestClient(t, fs)

	err := client.Submit(context.Background(), Entry{FirstName: "A", LastName: "B", Email: "a@b.c"})

	assert.ErrorIs(t, err, ErrTokenExtract)
}

func TestTokenFetchFailed(t *testing.T) {
	fs := &formServer{page: pageWithToken(testToken)}
	client, srv := newTestClient(t, fs)
	srv.Close()

	err := client.Submit(context.Background(), Entry{FirstName: "A", LastName: "B", Email: "a@b.c"})

	var fetchErr *TokenFetchError
	assert.ErrorAs(t, err, &fetchErr)
	assert.NotErrorIs(t, err, ErrTokenExtract)
}

func TestSubmitTransportFailure(t *testing.T) {
	fs := &formServer{page: pageWithToken(testToken), breakPost: true}
	client, _ := newTestClient(t, fs)

	err := client.Submit(context.Background(), Entry{FirstName: "A", LastName: "B", Email: "a@b.c"})

	var submitErr *SubmitError
	assert.ErrorAs(t, err, &submitErr)
}

func TestSubmitContextTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(&config.RaffleConfig{FormURL: srv.URL, EventID: 4062, HTTPTimeout: time.Second})

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	err := client.Submit(ctx, Entry{FirstName: "A", LastName: "B", Email: "a@b.c"})

	var fetchErr *TokenFetchError
	require.ErrorAs(t, err, &fetchErr)
}

func TestOccupationLabels(t *testing.T) {
	assert.Equal(t, "Schüler:in", occupationLabel(model.OccupationSchool))
	assert.Equal(t, "Student:in", occupationLabel(model.OccupationUniversity))
	assert.Equal(t, "Elternteil", occupationLabel(model.OccupationParent))
	assert.Equal(t, "sonstiges", occupationLabel("other"))
	assert.Equal(t, "sonstiges", occupationLabel(""))
}
