package models

// OmniSearchResult bundles results from all omni-search branches. A failed
// branch is represented by an empty slice, never by a missing bundle.
type OmniSearchResult struct {
	Definitions []Definition `json:"definitions"`
	LocalNews   []Article    `json:"local_news"`
	GitHubRepos []GitHubRepo `json:"github_repos"`
	RedditPosts []RedditPost `json:"reddit_posts"`
}

// Definition is a glossary entry matched against the query.
type Definition struct {
	Term       string `json:"term"`
	Definition string `json:"definition"`
}

// GitHubRepo is one ranked item from the code-repository search branch.
type GitHubRepo struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Stars       int    `json:"stars"`
	Language    string `json:"language,omitempty"`
	URL         string `json:"url"`
}

// RedditPost is one ranked item from the discussion search branch.
type RedditPost struct {
	Title     string `json:"title"`
	Subreddit string `json:"subreddit"`
	Upvotes   int    `json:"upvotes"`
	URL       string `json:"url"`
}
