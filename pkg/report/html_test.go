package report

import (
	"bytes"
	"os"
	"strings"
	"testing"
	"time"

	"instarecon/pkg/instagram"
	"instarecon/pkg/storage"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var generatedAt = time.Date(2024, 5, 1, 12, 30, 0, 0, time.UTC)

func renderDoc(t *testing.T, raw, picFile string) (*goquery.Document, string) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, RenderHTML(&buf, newProfile(t, raw), picFile, generatedAt))
	html := buf.String()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return doc, html
}

func TestRenderHTMLPublic(t *testing.T) {
	doc, _ := renderDoc(t, publicUserJSON, "jdoe_profile_pic.jpg")

	assert.Equal(t, "Insta-Recon Report: jdoe", doc.Find("title").Text())
	assert.Equal(t, "Jane Doe", doc.Find(".full-name").Text())
	assert.Equal(t, "(@jdoe)", doc.Find(".username").Text())

	src, ok := doc.Find("img.avatar").Attr("src")
	require.True(t, ok)
	assert.Equal(t, "jdoe_profile_pic.jpg", src)

	assert.Equal(t, "1,234,567", doc.Find("#stat-posts .value").Text())
	assert.Equal(t, "1,500", doc.Find("#stat-followers .value").Text())
	assert.Equal(t, "12", doc.Find("#stat-following .value").Text())
	assert.Equal(t, "Yes", doc.Find("#stat-verified .value").Text())

	posts := doc.Find(".gallery .post")
	require.Equal(t, 3, posts.Length())

	first := posts.First()
	href, _ := first.Find("a").Attr("href")
	assert.Equal(t, "https://www.instagram.com/p/AAA/", href)
	thumb, _ := first.Find("img").Attr("src")
	assert.Equal(t, "https://cdn.example/a_t.jpg", thumb)
	assert.Equal(t, "2,048", first.Find(".likes").Text())
	assert.Equal(t, "7", first.Find(".comments").Text())

	assert.Equal(t, instagram.NoCaption, posts.Eq(1).Find(".caption").Text())
	assert.Equal(t, "<script>alert(1)</script>", posts.Eq(2).Find(".caption").Text())
	assert.Equal(t, 0, doc.Find("script").Length())

	assert.Contains(t, doc.Find("footer").Text(), "2024-05-01 12:30:00 UTC")
}

func TestRenderHTMLPlaceholders(t *testing.T) {
	t.Run("private", func(t *testing.T) {
		doc, _ := renderDoc(t, privateUserJSON, "")

		assert.Equal(t, 0, doc.Find(".post").Length())
		assert.Contains(t, doc.Find(".gallery").Text(), "Account is private. Posts are not available.")
		assert.Contains(t, doc.Find(".bio").Text(), NoBiography)
		assert.Equal(t, 0, doc.Find("img.avatar").Length())
		assert.Equal(t, NotAvailable, doc.Find(".full-name").Text())
	})

	t.Run("no posts", func(t *testing.T) {
		doc, _ := renderDoc(t, emptyUserJSON, "")

		assert.Equal(t, 0, doc.Find(".post").Length())
		assert.Contains(t, doc.Find(".gallery").Text(), NoPosts)
		assert.Equal(t, "No", doc.Find("#stat-verified .value").Text())
	})
}

func TestBioHTMLLinks(t *testing.T) {
	doc, _ := renderDoc(t, publicUserJSON, "")

	links := doc.Find(".bio a")
	require.Equal(t, 4, links.Length())

	var hrefs, texts []string
	links.Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		hrefs = append(hrefs, href)
		texts = append(texts, s.Text())
	})

	assert.Equal(t, []string{
		"mailto:jane@example.com",
		"https://www.instagram.com/explore/tags/travel/",
		"https://www.instagram.com/explore/tags/food/",
		"https://www.instagram.com/friend/",
	}, hrefs)
	assert.Equal(t, []string{"jane@example.com", "#travel", "#food", "@friend"}, texts)

	assert.Equal(t, 2, doc.Find(".bio br").Length())
	assert.Equal(t, 0, doc.Find(".bio b").Length())
	assert.Contains(t, doc.Find(".bio").Text(), "Travel & food <b>")
}

func TestBioHTMLEscaping(t *testing.T) {
	tests := []struct {
		name     string
		bio      string
		expected string
	}{
		{
			name:     "metacharacters escaped once",
			bio:      `a < b & "c"`,
			expected: `a &lt; b &amp; &#34;c&#34;`,
		},
		{
			name:     "apostrophe entity is not a hashtag",
			bio:      "it's fine",
			expected: "it&#39;s fine",
		},
		{
			name:     "newline becomes br",
			bio:      "one\ntwo",
			expected: "one<br>two",
		},
		{
			name:     "markup around a mention",
			bio:      "<i>@bob</i>",
			expected: `&lt;i&gt;<a href="https://www.instagram.com/bob/" target="_blank" rel="noopener">@bob</a>&lt;/i&gt;`,
		},
		{
			name:     "mention inside email stays part of the email",
			bio:      "x@y.com",
			expected: `<a href="mailto:x@y.com">x@y.com</a>`,
		},
		{
			name:     "hashtag link text is not re-scanned",
			bio:      "#a #a",
			expected: `<a href="https://www.instagram.com/explore/tags/a/" target="_blank" rel="noopener">#a</a> <a href="https://www.instagram.com/explore/tags/a/" target="_blank" rel="noopener">#a</a>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := string(BioHTML(tt.bio))
			assert.Equal(t, tt.expected, got)
			assert.NotContains(t, got, "&amp;amp;")
		})
	}
}

func TestWriteHTML(t *testing.T) {
	store, err := storage.NewTargetManager(t.TempDir(), "jdoe")
	require.NoError(t, err)

	path, err := WriteHTML(store, newProfile(t, publicUserJSON), "", generatedAt)
	require.NoError(t, err)
	assert.Equal(t, store.Path(HTMLFileName), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(content), "<!DOCTYPE html>"))
}
