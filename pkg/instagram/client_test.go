package instagram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"instarecon/pkg/config"
	"instarecon/pkg/errors"
	"instarecon/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const profileJSON = `{"data":{"user":{"username":"jdoe","full_name":"Jane Doe","id":"4242",` +
	`"biography":"hi","is_private":false,"is_verified":true,` +
	`"profile_pic_url":"https://cdn/small.jpg","profile_pic_url_hd":"https://cdn/hd.jpg",` +
	`"edge_followed_by":{"count":1500},"edge_follow":{"count":12},` +
	`"edge_owner_to_timeline_media":{"count":2,"edges":[` +
	`{"node":{"shortcode":"AAA","display_url":"https://cdn/a.jpg","thumbnail_src":"https://cdn/a_t.jpg",` +
	`"edge_media_to_caption":{"edges":[{"node":{"text":"first"}}]},` +
	`"edge_media_preview_like":{"count":10},"edge_media_to_comment":{"count":3}}},` +
	`{"node":{"shortcode":"BBB","display_url":"https://cdn/b.jpg",` +
	`"edge_media_to_caption":{"edges":[]},"edge_media_preview_like":{"count":0},"edge_media_to_comment":{"count":0}}}` +
	`]}}},"status":"ok"}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *logger.TestLogger) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	log := logger.NewTestLogger()
	cfg := config.DefaultConfig().Instagram
	cfg.Timeout = 5 * time.Second

	client := NewClient(&cfg, log)
	client.SetBaseURL(server.URL)
	return client, log
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient(nil, logger.NewNopLogger())

	require.NotNil(t, client)
	assert.Equal(t, BaseURL, client.baseURL)
	assert.Equal(t, config.DefaultUserAgent, client.http.Header.Get("User-Agent"))
	assert.Equal(t, config.DefaultAppID, client.http.Header.Get("X-IG-App-ID"))
	assert.Empty(t, client.http.Header.Get("Cookie"))
}

func TestFetchProfile(t *testing.T) {
	var gotUA, gotAppID, gotUsername string
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		gotAppID = r.Header.Get("X-IG-App-ID")
		gotUsername = r.URL.Query().Get("username")
		assert.Equal(t, ProfileEndpoint, r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(profileJSON))
	})

	profile, err := client.FetchProfile(context.Background(), "@jdoe/")
	require.NoError(t, err)

	assert.Equal(t, config.DefaultUserAgent, gotUA)
	assert.Equal(t, config.DefaultAppID, gotAppID)
	assert.Equal(t, "jdoe", gotUsername)

	assert.Equal(t, "jdoe", profile.Target)
	assert.Equal(t, "Jane Doe", profile.User.FullName)
	assert.Equal(t, ID("4242"), profile.User.ID)
	assert.Equal(t, int64(1500), profile.User.Followers())
	assert.Equal(t, int64(12), profile.User.Following())
	assert.Equal(t, int64(2), profile.User.PostCount())
	assert.True(t, profile.User.IsVerified)
	assert.Equal(t, "https://cdn/hd.jpg", profile.User.PictureURL())
	assert.Contains(t, string(profile.Raw), `"full_name":"Jane Doe"`)

	posts := profile.User.RecentPosts()
	require.Len(t, posts, 2)
	assert.Equal(t, "first", posts[0].Caption)
	assert.Equal(t, "https://cdn/a_t.jpg", posts[0].ThumbnailURL)
	assert.Equal(t, int64(10), posts[0].Likes)
	assert.Equal(t, GetPostURL("AAA"), posts[0].URL)
	assert.Equal(t, NoCaption, posts[1].Caption)
	assert.Equal(t, "https://cdn/b.jpg", posts[1].ThumbnailURL)
}

func TestFetchProfileSendsSession(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "sessionid=sid; csrftoken=tok", r.Header.Get("Cookie"))
		assert.Equal(t, "tok", r.Header.Get("X-CSRFToken"))
		w.Write([]byte(profileJSON))
	}))
	defer server.Close()

	cfg := config.DefaultConfig().Instagram
	cfg.SessionID = "sid"
	cfg.CSRFToken = "tok"
	client := NewClient(&cfg, logger.NewNopLogger())
	client.SetBaseURL(server.URL)

	_, err := client.FetchProfile(context.Background(), "jdoe")
	require.NoError(t, err)
}

func TestDownloadImageOmitsSession(t *testing.T) {
	var gotCookie, gotCSRF string
	images := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCookie = r.Header.Get("Cookie")
		gotCSRF = r.Header.Get("X-CSRFToken")
		w.Write([]byte("jpeg-bytes"))
	}))
	defer images.Close()

	cfg := config.DefaultConfig().Instagram
	cfg.SessionID = "secret-session"
	cfg.CSRFToken = "secret-csrf"
	client := NewClient(&cfg, logger.NewNopLogger())

	data, err := client.DownloadImage(context.Background(), images.URL+"/pic.jpg")
	require.NoError(t, err)
	assert.Equal(t, []byte("jpeg-bytes"), data)
	assert.Empty(t, gotCookie)
	assert.Empty(t, gotCSRF)
	assert.Empty(t, client.http.Header.Get("Cookie"))
}

func TestFetchProfileErrors(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		expected errors.ErrorType
	}{
		{name: "not found status", status: http.StatusNotFound, expected: errors.ErrorTypeNotFound},
		{name: "unauthorized", status: http.StatusUnauthorized, expected: errors.ErrorTypeAuth},
		{name: "forbidden", status: http.StatusForbidden, expected: errors.ErrorTypeAuth},
		{name: "rate limited", status: http.StatusTooManyRequests, expected: errors.ErrorTypeRateLimit},
		{name: "server error", status: http.StatusBadGateway, expected: errors.ErrorTypeServerError},
		{name: "other client error", status: http.StatusTeapot, expected: errors.ErrorTypeHTTPStatus},
		{name: "invalid json", status: http.StatusOK, body: `{invalid json`, expected: errors.ErrorTypeParsing},
		{name: "login wall", status: http.StatusOK, body: `{"requires_to_login":true}`, expected: errors.ErrorTypeAuth},
		{name: "null user", status: http.StatusOK, body: `{"data":{"user":null},"status":"ok"}`, expected: errors.ErrorTypeNotFound},
		{name: "missing user", status: http.StatusOK, body: `{"data":{},"status":"ok"}`, expected: errors.ErrorTypeNotFound},
		{name: "user of wrong shape", status: http.StatusOK, body: `{"data":{"user":"nope"}}`, expected: errors.ErrorTypeParsing},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, log := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(tt.body))
			})

			profile, err := client.FetchProfile(context.Background(), "ghost")
			require.Error(t, err)
			assert.Nil(t, profile)
			assert.Equal(t, tt.expected, errors.TypeOf(err))
			assert.NotEmpty(t, log.GetMessages())
		})
	}
}

func TestFetchProfileNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	baseURL := server.URL
	server.Close()

	client := NewClient(nil, logger.NewNopLogger())
	client.SetBaseURL(baseURL)

	_, err := client.FetchProfile(context.Background(), "jdoe")
	require.Error(t, err)
	assert.True(t, errors.IsType(err, errors.ErrorTypeNetwork))
	assert.False(t, errors.IsNotFound(err))
}

func TestFetchProfileEmptyUsername(t *testing.T) {
	client := NewClient(nil, logger.NewNopLogger())

	_, err := client.FetchProfile(context.Background(), " @ ")
	assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
}

func TestDownloadImage(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/pic.jpg":
			w.Write([]byte{0xff, 0xd8, 0xff})
		case "/empty.jpg":
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	t.Run("success", func(t *testing.T) {
		data, err := client.DownloadImage(context.Background(), client.baseURL+"/pic.jpg")
		require.NoError(t, err)
		assert.Equal(t, []byte{0xff, 0xd8, 0xff}, data)
	})

	t.Run("empty body", func(t *testing.T) {
		_, err := client.DownloadImage(context.Background(), client.baseURL+"/empty.jpg")
		assert.Error(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		_, err := client.DownloadImage(context.Background(), client.baseURL+"/missing.jpg")
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("empty url", func(t *testing.T) {
		_, err := client.DownloadImage(context.Background(), "")
		assert.True(t, errors.IsType(err, errors.ErrorTypeInput))
	})
}

func TestIDAcceptsNumbers(t *testing.T) {
	var u User
	require.NoError(t, json.Unmarshal([]byte(`{"id": 17841400000000000}`), &u))
	assert.Equal(t, ID("17841400000000000"), u.ID)

	require.NoError(t, json.Unmarshal([]byte(`{"id": "99"}`), &u))
	assert.Equal(t, "99", u.ID.String())
}

func TestUserFallbacks(t *testing.T) {
	u := User{Username: "jdoe", ProfilePicURL: "small"}
	assert.Equal(t, "small", u.PictureURL())
	assert.Equal(t, "jdoe", u.DisplayName())
	assert.Empty(t, u.RecentPosts())
}
