package router

import "strings"

// Intent is the classification assigned to one inbound message.
type Intent int

const (
	// IntentChat is the fallback: no keyword matched, route to the model.
	IntentChat Intent = iota
	IntentNews
	IntentWeather
	IntentJoke
	IntentDefine
	IntentYouTube
	IntentPodcast
	IntentReadPDF
	IntentScrape
	IntentQuiz
)

var intentNames = map[Intent]string{
	IntentChat:    "chat",
	IntentNews:    "news",
	IntentWeather: "weather",
	IntentJoke:    "joke",
	IntentDefine:  "define",
	IntentYouTube: "youtube",
	IntentPodcast: "podcast",
	IntentReadPDF: "read_pdf",
	IntentScrape:  "scrape_website",
	IntentQuiz:    "quiz",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}

// bindings are evaluated in order and the first containment match wins.
// The order is a commitment, not an accident: a message mentioning both
// news and weather routes to news.
var bindings = []struct {
	keyword string
	intent  Intent
}{
	{"news", IntentNews},
	{"weather", IntentWeather},
	{"joke", IntentJoke},
	{"define", IntentDefine},
	{"youtube", IntentYouTube},
	{"podcast", IntentPodcast},
	{"read pdf", IntentReadPDF},
	{"scrape website", IntentScrape},
	{"quiz", IntentQuiz},
}

// Classify matches text case-insensitively against the fixed keyword table
// and returns the first matching intent, or IntentChat when nothing matches.
// Purely lexical; no argument parsing happens here.
func Classify(text string) Intent {
	lower := strings.ToLower(text)
	for _, b := range bindings {
		if strings.Contains(lower, b.keyword) {
			return b.intent
		}
	}
	return IntentChat
}
