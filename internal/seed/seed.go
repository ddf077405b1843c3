// Package seed holds the data a fresh deployment starts with.
//
// The server falls back to Bookmarks when no bookmarks file exists yet (and
// always serves it in demo mode). Client stores start from Bookmarks, Widgets
// and Settings before anything has been hydrated or fetched.
package seed

import (
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/sakif/navidash/internal/model"
	"github.com/sakif/navidash/internal/validate"
)

func link(id, title, url, icon string) model.Bookmark {
	return model.Bookmark{ID: id, Title: title, URL: url, Icon: icon}
}

func folder(id, title, icon string, children ...model.Bookmark) model.Bookmark {
	if children == nil {
		children = []model.Bookmark{}
	}
	return model.Bookmark{ID: id, Title: title, Icon: icon, Children: children}
}

// Bookmarks returns a fresh copy of the built-in bookmark tree.
func Bookmarks() []model.Bookmark {
	return []model.Bookmark{
		folder("search-ai", "Search & AI", "search",
			link("google", "Google", "https://google.com", "chrome"),
			link("bing", "Bing", "https://bing.com", "globe"),
			link("chatgpt", "ChatGPT", "https://chat.openai.com", "bot"),
			link("claude", "Claude", "https://claude.ai", "brain"),
			link("perplexity", "Perplexity", "https://perplexity.ai", "sparkles"),
		),
		folder("dev", "Development", "code",
			link("github", "GitHub", "https://github.com", "github"),
			link("gitlab", "GitLab", "https://gitlab.com", "gitlab"),
			link("stackoverflow", "Stack Overflow", "https://stackoverflow.com", "layers"),
			link("mdn", "MDN Web Docs", "https://developer.mozilla.org", "book"),
			link("go-dev", "Go", "https://go.dev", "code"),
			link("pkg-go-dev", "Go Packages", "https://pkg.go.dev", "box"),
		),
		folder("design", "Design & Tools", "tool",
			link("figma", "Figma", "https://figma.com", "figma"),
			link("dribbble", "Dribbble", "https://dribbble.com", "dribbble"),
			link("notion", "Notion", "https://notion.so", "file"),
			link("trello", "Trello", "https://trello.com", "trello"),
		),
		folder("social", "Social Media", "message",
			link("twitter", "Twitter / X", "https://twitter.com", "twitter"),
			link("linkedin", "LinkedIn", "https://linkedin.com", "linkedin"),
			link("reddit", "Reddit", "https://reddit.com", "globe"),
			link("discord", "Discord", "https://discord.com", "gamepad"),
		),
		folder("news", "News & Tech", "newspaper",
			link("hackernews", "Hacker News", "https://news.ycombinator.com", "terminal"),
			link("lobsters", "Lobsters", "https://lobste.rs", "terminal"),
			link("techcrunch", "TechCrunch", "https://techcrunch.com", "monitor"),
		),
	}
}

// BookmarksFromEnv parses a deployment-provided default tree.
//
// An empty value selects the built-in tree. A value that is not a valid
// bookmark forest is logged and the built-in tree is used instead.
func BookmarksFromEnv(value string, logger *slog.Logger) []model.Bookmark {
	value = strings.TrimSpace(value)
	if value == "" {
		return Bookmarks()
	}

	tree, err := validate.Bookmarks([]byte(value))
	if err != nil {
		logger.Error("invalid DEFAULT_BOOKMARKS, using built-in bookmarks",
			slog.String("error", err.Error()),
		)
		return Bookmarks()
	}
	return tree
}

// Widgets returns a fresh copy of the dashboard a new browser starts with.
func Widgets() []model.Widget {
	return []model.Widget{
		{ID: "1", Type: model.WidgetClock, Size: model.Size{W: 2, H: 1}, Position: model.Position{X: 0, Y: 0}, Config: model.EmptyConfig},
		{ID: "2", Type: model.WidgetWeather, Size: model.Size{W: 2, H: 1}, Position: model.Position{X: 2, Y: 0}, Config: json.RawMessage(`{"city":"Shanghai"}`)},
		{ID: "3", Type: model.WidgetCalendar, Size: model.Size{W: 2, H: 2}, Position: model.Position{X: 4, Y: 0}, Config: model.EmptyConfig},
		{ID: "4", Type: model.WidgetMemo, Size: model.Size{W: 2, H: 2}, Position: model.Position{X: 0, Y: 2}, Config: json.RawMessage(`{"text":"Welcome to NaviDash! This memo is an example."}`)},
		{ID: "5", Type: model.WidgetTodo, Size: model.Size{W: 2, H: 2}, Position: model.Position{X: 2, Y: 2}, Config: json.RawMessage(`{"items":[{"id":"t1","text":"Explore the sidebar bookmarks","done":false},{"id":"t2","text":"Add a new widget","done":false}]}`)},
	}
}

// Settings returns the default appearance.
func Settings() model.Settings {
	return model.Settings{
		BackgroundImage:  "radial-gradient(#d1d5db 2px, transparent 2px)",
		BackgroundSize:   "24px 24px",
		BackgroundRepeat: "repeat",
		Language:         "zh",
	}
}
