package prompt

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// hint matches a family of content platforms by host and produces
// extraction instructions for the primary resource of a URL.
type hint struct {
	hosts []string
	build func(u *url.URL) string
}

const ignoreSurroundings = "Ignore recommendations, sidebars, related items, comments and ads. "

var (
	tweetID      = regexp.MustCompile(`/status(?:es)?/(\d+)`)
	redditPost   = regexp.MustCompile(`/comments/([a-z0-9]+)`)
	youtubeShort = regexp.MustCompile(`^/(?:shorts|embed|live)/([A-Za-z0-9_-]{6,})`)
)

var hints = []hint{
	{
		hosts: []string{"youtube.com", "youtu.be"},
		build: func(u *url.URL) string {
			id := youtubeID(u)
			if id == "" {
				return "This is a YouTube page. " + ignoreSurroundings +
					"Describe only the main video or channel shown.\n"
			}
			return fmt.Sprintf("This is a YouTube video page for video ID %q. "+ignoreSurroundings+
				"Recommended and up-next videos appear in the page; extract fields only for the video with ID %q "+
				"(its title, channel, description and publish date).\n", id, id)
		},
	},
	{
		hosts: []string{"vimeo.com"},
		build: func(u *url.URL) string {
			return "This is a Vimeo video page. " + ignoreSurroundings +
				"Extract fields only for the video at path " + u.Path + ".\n"
		},
	},
	{
		hosts: []string{"twitter.com", "x.com"},
		build: func(u *url.URL) string {
			if m := tweetID.FindStringSubmatch(u.Path); m != nil {
				return fmt.Sprintf("This is a post on X/Twitter with status ID %q. "+ignoreSurroundings+
					"Use only the post with that ID and its author, not replies or other posts in the timeline.\n", m[1])
			}
			return "This is an X/Twitter page. " + ignoreSurroundings + "Focus on the profile or post in the URL.\n"
		},
	},
	{
		hosts: []string{"reddit.com"},
		build: func(u *url.URL) string {
			if m := redditPost.FindStringSubmatch(u.Path); m != nil {
				return fmt.Sprintf("This is a Reddit thread with post ID %q. "+ignoreSurroundings+
					"Use the original post's title, author and body, not the comments.\n", m[1])
			}
			return "This is a Reddit page. " + ignoreSurroundings + "Focus on the subreddit or post in the URL.\n"
		},
	},
	{
		hosts: []string{"news.ycombinator.com"},
		build: func(u *url.URL) string {
			if id := u.Query().Get("id"); id != "" {
				return fmt.Sprintf("This is a Hacker News item with ID %q. "+ignoreSurroundings+
					"Use the submission's title, linked URL and author, not the comment thread.\n", id)
			}
			return "This is a Hacker News listing. " + ignoreSurroundings + "\n"
		},
	},
	{
		hosts: []string{"stackoverflow.com", "stackexchange.com"},
		build: func(u *url.URL) string {
			return "This is a Q&A forum page. " + ignoreSurroundings +
				"Use the question in the URL and its accepted or top answer, not linked or related questions.\n"
		},
	},
	{
		hosts: []string{
			"nytimes.com", "bbc.co.uk", "bbc.com", "cnn.com", "theguardian.com",
			"reuters.com", "apnews.com", "washingtonpost.com", "bloomberg.com", "wsj.com",
		},
		build: func(u *url.URL) string {
			return "This is a news article. " + ignoreSurroundings +
				"Use the headline, byline, publication date and body of the single article at this URL, " +
				"not teasers for other stories.\n"
		},
	},
}

// Hints returns targeted extraction instructions for well-known content
// platforms, or an empty string when the URL is not recognized.
func Hints(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	for _, h := range hints {
		for _, candidate := range h.hosts {
			if host == candidate || strings.HasSuffix(host, "."+candidate) {
				return h.build(u)
			}
		}
	}
	return ""
}

// youtubeID extracts the video ID from watch, short-link and shorts URLs.
func youtubeID(u *url.URL) string {
	if strings.HasSuffix(strings.ToLower(u.Hostname()), "youtu.be") {
		return strings.Trim(u.Path, "/")
	}
	if v := u.Query().Get("v"); v != "" {
		return v
	}
	if m := youtubeShort.FindStringSubmatch(u.Path); m != nil {
		return m[1]
	}
	return ""
}
