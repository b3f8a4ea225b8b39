package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"instarecon/pkg/analyzer"
	"instarecon/pkg/errors"
	"instarecon/pkg/instagram"
	"instarecon/pkg/storage"

	"github.com/dustin/go-humanize"
)

// HTMLFileName is the report file written into each target directory
const HTMLFileName = "report.html"

const timestampLayout = "2006-01-02 15:04:05 MST"

var reportTemplate = template.Must(template.New("report").Parse(reportHTML))

type htmlPost struct {
	URL          string
	ThumbnailURL string
	Likes        string
	Comments     string
	Caption      string
	IsVideo      bool
}

type htmlReport struct {
	Username    string
	FullName    string
	PicturePath string
	Posts       string
	Followers   string
	Following   string
	Verified    string
	Bio         template.HTML
	Private     bool
	RecentPosts []htmlPost
	GeneratedAt string
}

// BioHTML escapes bio and turns emails, hashtags and mentions into links.
// Text is escaped once per segment and inserted markup is never scanned again.
func BioHTML(bio string) template.HTML {
	bio = strings.ReplaceAll(bio, "\r\n", "\n")

	var b strings.Builder
	for _, tok := range analyzer.Tokenize(bio) {
		text := template.HTMLEscapeString(tok.Text)
		switch tok.Kind {
		case analyzer.TokenEmail:
			fmt.Fprintf(&b, `<a href="mailto:%s">%s</a>`, template.HTMLEscapeString(tok.Value), text)
		case analyzer.TokenHashtag:
			fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener">%s</a>`,
				template.HTMLEscapeString(instagram.GetTagURL(tok.Value)), text)
		case analyzer.TokenMention:
			fmt.Fprintf(&b, `<a href="%s" target="_blank" rel="noopener">%s</a>`,
				template.HTMLEscapeString(instagram.GetUserProfileURL(tok.Value)), text)
		default:
			b.WriteString(strings.ReplaceAll(text, "\n", "<br>"))
		}
	}
	return template.HTML(b.String())
}

func newHTMLReport(p *instagram.Profile, picFile string, generated time.Time) htmlReport {
	u := p.User
	username := u.Username
	if username == "" {
		username = p.Target
	}

	data := htmlReport{
		Username:    username,
		FullName:    orNA(u.FullName),
		PicturePath: picFile,
		Posts:       humanize.Comma(u.PostCount()),
		Followers:   humanize.Comma(u.Followers()),
		Following:   humanize.Comma(u.Following()),
		Verified:    yesNo(u.IsVerified),
		Private:     u.IsPrivate,
		GeneratedAt: generated.Format(timestampLayout),
	}
	if u.Biography != "" {
		data.Bio = BioHTML(u.Biography)
	}
	if !u.IsPrivate {
		for _, post := range u.RecentPosts() {
			data.RecentPosts = append(data.RecentPosts, htmlPost{
				URL:          post.URL,
				ThumbnailURL: post.ThumbnailURL,
				Likes:        humanize.Comma(post.Likes),
				Comments:     humanize.Comma(post.Comments),
				Caption:      post.Caption,
				IsVideo:      post.IsVideo,
			})
		}
	}
	return data
}

// RenderHTML writes the report document to w
func RenderHTML(w io.Writer, p *instagram.Profile, picFile string, generated time.Time) error {
	if err := reportTemplate.Execute(w, newHTMLReport(p, picFile, generated)); err != nil {
		return errors.Wrap(errors.ErrorTypeStorage, err, "failed to render HTML report")
	}
	return nil
}

// WriteHTML renders report.html into the target directory. picFile is the
// picture path relative to that directory, or "" when there is none.
func WriteHTML(store *storage.Manager, p *instagram.Profile, picFile string, generated time.Time) (string, error) {
	var buf bytes.Buffer
	if err := RenderHTML(&buf, p, picFile, generated); err != nil {
		return "", err
	}
	return store.SaveFile(HTMLFileName, &buf)
}

const reportHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Insta-Recon Report: {{.Username}}</title>
<style>
body { font-family: Arial, sans-serif; background-color: #121212; color: #e0e0e0; margin: 0; padding: 20px; }
.container { max-width: 800px; margin: auto; background-color: #1e1e1e; padding: 20px; border-radius: 8px; box-shadow: 0 0 10px rgba(0,0,0,0.5); }
h1, h2 { color: #bb86fc; border-bottom: 2px solid #bb86fc; padding-bottom: 10px; }
.header { display: flex; align-items: center; }
.header img { border-radius: 50%; width: 100px; height: 100px; margin-right: 20px; object-fit: cover; }
.stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(150px, 1fr)); gap: 15px; }
.stat { background-color: #333; padding: 15px; border-radius: 5px; text-align: center; }
.stat .value { font-size: 1.5em; font-weight: bold; color: #03dac6; }
.bio { background-color: #333; padding: 15px; border-radius: 5px; margin-top: 20px; }
.post { display: flex; background-color: #333; padding: 10px; border-radius: 5px; margin-bottom: 10px; align-items: center; }
.post img { width: 150px; height: 150px; object-fit: cover; border-radius: 5px; margin-right: 15px; }
.post .caption { white-space: pre-wrap; }
.placeholder { font-style: italic; color: #9e9e9e; }
footer { margin-top: 20px; font-size: 0.8em; color: #757575; }
a { color: #03dac6; text-decoration: none; }
a:hover { text-decoration: underline; }
</style>
</head>
<body>
<div class="container">
<div class="header">
{{if .PicturePath}}<img class="avatar" src="{{.PicturePath}}" alt="Profile Picture">{{end}}
<h1><span class="full-name">{{.FullName}}</span> <span class="username">(@{{.Username}})</span></h1>
</div>

<h2>Profile Stats</h2>
<div class="stats-grid">
<div class="stat" id="stat-posts"><div>Posts</div><div class="value">{{.Posts}}</div></div>
<div class="stat" id="stat-followers"><div>Followers</div><div class="value">{{.Followers}}</div></div>
<div class="stat" id="stat-following"><div>Following</div><div class="value">{{.Following}}</div></div>
<div class="stat" id="stat-verified"><div>Verified</div><div class="value">{{.Verified}}</div></div>
</div>

<h2>Biography</h2>
<div class="bio">
{{if .Bio}}<p>{{.Bio}}</p>{{else}}<p class="placeholder">No biography found.</p>{{end}}
</div>

<h2>Recent Posts</h2>
<div class="gallery">
{{- if .Private}}
<p class="placeholder">Account is private. Posts are not available.</p>
{{- else if not .RecentPosts}}
<p class="placeholder">No posts found.</p>
{{- else}}
{{- range .RecentPosts}}
<div class="post">
<a href="{{.URL}}" target="_blank" rel="noopener"><img src="{{.ThumbnailURL}}" alt="Post thumbnail"></a>
<div class="post-info">
<p><b>Likes:</b> <span class="likes">{{.Likes}}</span> | <b>Comments:</b> <span class="comments">{{.Comments}}</span>{{if .IsVideo}} | <i>video</i>{{end}}</p>
<p class="caption">{{.Caption}}</p>
</div>
</div>
{{- end}}
{{- end}}
</div>

<footer>Generated {{.GeneratedAt}}</footer>
</div>
</body>
</html>
`
