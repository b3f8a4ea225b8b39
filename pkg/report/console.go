package report

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"instarecon/pkg/analyzer"
	"instarecon/pkg/config"
	"instarecon/pkg/instagram"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/muesli/termenv"
)

// Placeholder messages shared by the console and HTML reports
const (
	NoBiography     = "No biography found."
	PrivatePosts    = "Cannot view posts, account is private."
	NoPosts         = "No posts found."
	NotAvailable    = "N/A"
	captionEllipsis = "..."
)

var (
	sectionColor = lipgloss.Color("#00FFFF")
	labelColor   = lipgloss.Color("#FFFF00")
	valueColor   = lipgloss.Color("#39FF14")
	alertColor   = lipgloss.Color("#FF0000")
	accentColor  = lipgloss.Color("#FF00FF")
	noticeColor  = lipgloss.Color("#FF6700")
)

type consoleStyles struct {
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	alert   lipgloss.Style
	accent  lipgloss.Style
	notice  lipgloss.Style
}

func newConsoleStyles(r *lipgloss.Renderer) consoleStyles {
	return consoleStyles{
		section: r.NewStyle().Foreground(sectionColor).Bold(true),
		label:   r.NewStyle().Foreground(labelColor),
		value:   r.NewStyle().Foreground(valueColor),
		alert:   r.NewStyle().Foreground(alertColor),
		accent:  r.NewStyle().Foreground(accentColor).Bold(true),
		notice:  r.NewStyle().Foreground(noticeColor),
	}
}

// ConsoleRenderer prints a profile as colored terminal sections
type ConsoleRenderer struct {
	w             io.Writer
	maxPosts      int
	captionLength int
	styles        consoleStyles
}

// ConsoleOption configures a ConsoleRenderer
type ConsoleOption func(*lipgloss.Renderer)

// WithNoColor disables ANSI styling
func WithNoColor() ConsoleOption {
	return func(r *lipgloss.Renderer) {
		r.SetColorProfile(termenv.Ascii)
	}
}

// NewConsoleRenderer creates a renderer writing to w
func NewConsoleRenderer(w io.Writer, cfg config.ReportConfig, opts ...ConsoleOption) *ConsoleRenderer {
	renderer := lipgloss.NewRenderer(w)
	for _, opt := range opts {
		opt(renderer)
	}

	return &ConsoleRenderer{
		w:             w,
		maxPosts:      cfg.MaxPosts,
		captionLength: cfg.CaptionLength,
		styles:        newConsoleStyles(renderer),
	}
}

// Render prints all four sections
func (r *ConsoleRenderer) Render(p *instagram.Profile) {
	r.Summary(p.User)
	r.Biography(p.User)
	r.RecentPosts(p.User)
}

func (r *ConsoleRenderer) section(title string) {
	fmt.Fprintf(r.w, "\n%s\n", r.styles.section.Render("[+] "+strings.ToUpper(title)))
}

func (r *ConsoleRenderer) field(name, value string, style lipgloss.Style) {
	fmt.Fprintf(r.w, "    %s %s\n", r.styles.label.Render(fmt.Sprintf("%-12s:", name)), style.Render(value))
}

func (r *ConsoleRenderer) line(text string, style lipgloss.Style) {
	fmt.Fprintf(r.w, "    %s\n", style.Render(text))
}

// Summary prints the "User Summary" and "Profile Stats" sections
func (r *ConsoleRenderer) Summary(u instagram.User) {
	r.section("User Summary")
	r.field("Full Name", orNA(u.FullName), r.styles.value)
	r.field("Username", orNA(u.Username), r.styles.value)
	r.field("User ID", orNA(u.ID.String()), r.styles.value)
	if u.IsVerified {
		r.field("Verified", yesNo(true), r.styles.accent)
	} else {
		r.field("Verified", yesNo(false), r.styles.value)
	}
	if u.IsPrivate {
		r.field("Private", yesNo(true), r.styles.alert)
	} else {
		r.field("Private", yesNo(false), r.styles.value)
	}
	if u.CategoryName != "" {
		r.field("Category", u.CategoryName, r.styles.value)
	}

	r.section("Profile Stats")
	r.field("Posts", humanize.Comma(u.PostCount()), r.styles.value)
	r.field("Followers", humanize.Comma(u.Followers()), r.styles.value)
	r.field("Following", humanize.Comma(u.Following()), r.styles.value)
}

// Biography prints the "Biography & Contact" section
func (r *ConsoleRenderer) Biography(u instagram.User) {
	r.section("Biography & Contact")

	if u.Biography == "" {
		r.line(NoBiography, r.styles.notice)
	} else {
		for _, l := range strings.Split(u.Biography, "\n") {
			r.line(l, r.styles.value)
		}
	}

	found := analyzer.Analyze(u.Biography)
	if len(found.Emails) > 0 {
		r.field("Emails", strings.Join(found.Emails, ", "), r.styles.alert)
	}
	if len(found.Hashtags) > 0 {
		r.field("Hashtags", "#"+strings.Join(found.Hashtags, " #"), r.styles.value)
	}
	if len(found.Mentions) > 0 {
		r.field("Mentions", "@"+strings.Join(found.Mentions, " @"), r.styles.value)
	}
	if u.ExternalURL != "" {
		r.field("Website", u.ExternalURL, r.styles.value)
	}
	if u.BusinessEmail != "" {
		r.field("Bus. Email", u.BusinessEmail, r.styles.alert)
	}
	if u.BusinessPhoneNumber != "" {
		r.field("Bus. Phone", u.BusinessPhoneNumber, r.styles.alert)
	}
}

// RecentPosts prints the "Recent Posts" section as a table
func (r *ConsoleRenderer) RecentPosts(u instagram.User) {
	r.section("Recent Posts")

	if u.IsPrivate {
		r.line(PrivatePosts, r.styles.notice)
		return
	}
	posts := u.RecentPosts()
	if len(posts) == 0 {
		r.line(NoPosts, r.styles.notice)
		return
	}
	if r.maxPosts > 0 && len(posts) > r.maxPosts {
		posts = posts[:r.maxPosts]
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.AppendHeader(table.Row{"#", "Post", "Likes", "Comments", "Caption"})
	for i, post := range posts {
		t.AppendRow(table.Row{
			i + 1,
			post.URL,
			humanize.Comma(post.Likes),
			humanize.Comma(post.Comments),
			TruncateCaption(post.Caption, r.captionLength),
		})
	}
	fmt.Fprintln(r.w, t.Render())
}

// TruncateCaption flattens newlines and cuts s to n runes, adding "..." only
// when something was cut. n <= 0 disables truncation.
func TruncateCaption(s string, n int) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	if n <= 0 || utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n]) + captionEllipsis
}

func orNA(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
