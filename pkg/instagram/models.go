package instagram

import (
	"bytes"
	"encoding/json"
	"time"
)

// ProfileResponse is the envelope returned by the web profile info endpoint
type ProfileResponse struct {
	RequiresToLogin bool   `json:"requires_to_login"`
	Data            Data   `json:"data"`
	Status          string `json:"status"`
}

// Data wraps the user record. User is kept raw so it can be written out verbatim.
type Data struct {
	User json.RawMessage `json:"user"`
}

// Profile is everything fetched for one target
type Profile struct {
	// Target is the sanitized username that was requested
	Target string
	// Raw is the user record exactly as Instagram returned it
	Raw json.RawMessage
	// User is a typed view decoded from Raw
	User User
}

// ID accepts both string and numeric JSON ids
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

// User represents an Instagram user profile
type User struct {
	ID                       ID                       `json:"id"`
	Username                 string                   `json:"username"`
	FullName                 string                   `json:"full_name"`
	Biography                string                   `json:"biography"`
	IsVerified               bool                     `json:"is_verified"`
	IsPrivate                bool                     `json:"is_private"`
	IsBusinessAccount        bool                     `json:"is_business_account"`
	ProfilePicURL            string                   `json:"profile_pic_url"`
	ProfilePicURLHD          string                   `json:"profile_pic_url_hd"`
	ExternalURL              string                   `json:"external_url"`
	BusinessEmail            string                   `json:"business_email"`
	BusinessPhoneNumber      string                   `json:"business_phone_number"`
	CategoryName             string                   `json:"category_name"`
	EdgeFollowedBy           Count                    `json:"edge_followed_by"`
	EdgeFollow               Count                    `json:"edge_follow"`
	EdgeOwnerToTimelineMedia EdgeOwnerToTimelineMedia `json:"edge_owner_to_timeline_media"`
}

// Count is the {"count": n} shape used for all edge totals
type Count struct {
	Count int64 `json:"count"`
}

// EdgeOwnerToTimelineMedia contains the user's media information
type EdgeOwnerToTimelineMedia struct {
	Count int64  `json:"count"`
	Edges []Edge `json:"edges"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item (photo or video)
type Node struct {
	ID                   ID           `json:"id"`
	Shortcode            string       `json:"shortcode"`
	DisplayURL           string       `json:"display_url"`
	ThumbnailSrc         string       `json:"thumbnail_src"`
	IsVideo              bool         `json:"is_video"`
	TakenAtTimestamp     int64        `json:"taken_at_timestamp"`
	EdgeMediaToCaption   CaptionEdges `json:"edge_media_to_caption"`
	EdgeMediaPreviewLike Count        `json:"edge_media_preview_like"`
	EdgeMediaToComment   Count        `json:"edge_media_to_comment"`
}

// CaptionEdges holds a post's caption text, if any
type CaptionEdges struct {
	Edges []struct {
		Node struct {
			Text string `json:"text"`
		} `json:"node"`
	} `json:"edges"`
}

// NoCaption is used for posts without caption text
const NoCaption = "No caption"

// Caption returns the first caption text or NoCaption
func (n Node) Caption() string {
	if len(n.EdgeMediaToCaption.Edges) > 0 {
		if text := n.EdgeMediaToCaption.Edges[0].Node.Text; text != "" {
			return text
		}
	}
	return NoCaption
}

// PostSummary is the flattened view of one recent post used by the reports
type PostSummary struct {
	Shortcode    string
	URL          string
	Caption      string
	Likes        int64
	Comments     int64
	ThumbnailURL string
	IsVideo      bool
	TakenAt      time.Time
}

// PictureURL prefers the HD profile picture
func (u User) PictureURL() string {
	if u.ProfilePicURLHD != "" {
		return u.ProfilePicURLHD
	}
	return u.ProfilePicURL
}

// DisplayName falls back to the username when no full name is set
func (u User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

// PostCount, Followers and Following expose the edge totals
func (u User) PostCount() int64 { return u.EdgeOwnerToTimelineMedia.Count }
func (u User) Followers() int64 { return u.EdgeFollowedBy.Count }
func (u User) Following() int64 { return u.EdgeFollow.Count }

// RecentPosts returns the timeline edges embedded in the profile record
func (u User) RecentPosts() []PostSummary {
	posts := make([]PostSummary, 0, len(u.EdgeOwnerToTimelineMedia.Edges))
	for _, edge := range u.EdgeOwnerToTimelineMedia.Edges {
		n := edge.Node
		thumb := n.ThumbnailSrc
		if thumb == "" {
			thumb = n.DisplayURL
		}
		var takenAt time.Time
		if n.TakenAtTimestamp > 0 {
			takenAt = time.Unix(n.TakenAtTimestamp, 0).UTC()
		}
		posts = append(posts, PostSummary{
			Shortcode:    n.Shortcode,
			URL:          GetPostURL(n.Shortcode),
			Caption:      n.Caption(),
			Likes:        n.EdgeMediaPreviewLike.Count,
			Comments:     n.EdgeMediaToComment.Count,
			ThumbnailURL: thumb,
			IsVideo:      n.IsVideo,
			TakenAt:      takenAt,
		})
	}
	return posts
}

func (id ID) String() string { return string(id) }
