package report

import (
	"encoding/json"
	"testing"

	"instarecon/pkg/instagram"

	"github.com/stretchr/testify/require"
)

const publicUserJSON = `{"username":"jdoe","full_name":"Jane Doe","id":"4242",` +
	`"biography":"Travel & food <b>\nmail: jane@example.com #travel #food\nwith @friend",` +
	`"is_private":false,"is_verified":true,"external_url":"https://jane.example",` +
	`"business_email":"biz@example.com",` +
	`"profile_pic_url":"https://cdn.example/s.jpg","profile_pic_url_hd":"https://cdn.example/hd.jpg",` +
	`"edge_followed_by":{"count":1500},"edge_follow":{"count":12},` +
	`"edge_owner_to_timeline_media":{"count":1234567,"edges":[` +
	`{"node":{"shortcode":"AAA","display_url":"https://cdn.example/a.jpg","thumbnail_src":"https://cdn.example/a_t.jpg",` +
	`"edge_media_to_caption":{"edges":[{"node":{"text":"Sunset over the bay\nsecond line of a caption that keeps going well past the limit"}}]},` +
	`"edge_media_preview_like":{"count":2048},"edge_media_to_comment":{"count":7}}},` +
	`{"node":{"shortcode":"BBB","display_url":"https://cdn.example/b.jpg",` +
	`"edge_media_to_caption":{"edges":[]},"edge_media_preview_like":{"count":1},"edge_media_to_comment":{"count":0}}},` +
	`{"node":{"shortcode":"CCC","display_url":"https://cdn.example/c.jpg","is_video":true,` +
	`"edge_media_to_caption":{"edges":[{"node":{"text":"<script>alert(1)</script>"}}]},` +
	`"edge_media_preview_like":{"count":5},"edge_media_to_comment":{"count":2}}}` +
	`]}}`

const privateUserJSON = `{"username":"locked","full_name":"","id":99,"biography":"",` +
	`"is_private":true,"is_verified":false,"profile_pic_url":"",` +
	`"edge_followed_by":{"count":10},"edge_follow":{"count":20},` +
	`"edge_owner_to_timeline_media":{"count":5,"edges":[]}}`

const emptyUserJSON = `{"username":"quiet","full_name":"Quiet One","biography":"just vibes",` +
	`"is_private":false,"edge_followed_by":{"count":0},"edge_follow":{"count":0},` +
	`"edge_owner_to_timeline_media":{"count":0,"edges":[]}}`

func newProfile(t *testing.T, raw string) *instagram.Profile {
	t.Helper()

	var user instagram.User
	require.NoError(t, json.Unmarshal([]byte(raw), &user))
	return &instagram.Profile{
		Target: user.Username,
		Raw:    json.RawMessage(raw),
		User:   user,
	}
}
