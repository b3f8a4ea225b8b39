package auth

import (
	"fmt"
	"io"
	"strings"
)

// WriteCookieGuide explains where to find the two session cookies
func WriteCookieGuide(w io.Writer) {
	rule := strings.Repeat("=", 72)
	lines := []string{
		rule,
		"INSTAGRAM SESSION COOKIES",
		rule,
		"",
		"A session is optional. Without one, only profiles Instagram serves",
		"to anonymous visitors can be fetched.",
		"",
		"1. Log in at https://www.instagram.com in your browser",
		"2. Open Developer Tools (F12) and go to Application/Storage > Cookies",
		"3. Select https://www.instagram.com and copy these values:",
		"     sessionid   long string containing %3A",
		"     csrftoken   32-character string",
		"",
		"These cookies grant full access to the account. Never share them and",
		"prefer a secondary account. They expire, so refresh them when",
		"requests start failing with authentication errors.",
		rule,
		"",
	}
	for _, l := range lines {
		fmt.Fprintln(w, l)
	}
}
