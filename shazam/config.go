package shazam

import "time"

// ClientConfig controls how the Shazam web search endpoint is queried.
type ClientConfig struct {
	BaseURL   string        // scheme and host of the web api
	Language  string        // locale segment of the search path, e.g. en-US
	Country   string        // endpoint country segment, e.g. US
	UserAgent string        // sent with every request; the web api rejects empty agents
	Timeout   time.Duration // per request timeout
}

// DefaultClientConfig returns parameters matching the public web player.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:   "https://www.shazam.com",
		Language:  "en-US",
		Country:   "US",
		UserAgent: "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36",
		Timeout:   15 * time.Second,
	}
}
