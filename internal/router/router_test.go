package router

import "testing"

func TestClassify_FirstMatchWins(t *testing.T) {
	// "news" precedes "weather" in the binding order.
	if got := Classify("what's the news and weather"); got != IntentNews {
		t.Errorf("expected news intent, got %v", got)
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	if got := Classify("Tell me a JOKE"); got != IntentJoke {
		t.Errorf("expected joke intent, got %v", got)
	}
}

func TestClassify_SubstringContainment(t *testing.T) {
	if got := Classify("any good podcasts lately?"); got != IntentPodcast {
		t.Errorf("expected podcast intent, got %v", got)
	}
}

func TestClassify_MultiWordKeywords(t *testing.T) {
	if got := Classify("can you read pdf files"); got != IntentReadPDF {
		t.Errorf("expected read_pdf intent, got %v", got)
	}
	if got := Classify("please scrape website example.com"); got != IntentScrape {
		t.Errorf("expected scrape_website intent, got %v", got)
	}
}

func TestClassify_Fallback(t *testing.T) {
	if got := Classify("how are you today"); got != IntentChat {
		t.Errorf("expected chat fallback, got %v", got)
	}
}

func TestClassify_AllKeywords(t *testing.T) {
	cases := map[string]Intent{
		"news":           IntentNews,
		"weather":        IntentWeather,
		"joke":           IntentJoke,
		"define":         IntentDefine,
		"youtube":        IntentYouTube,
		"podcast":        IntentPodcast,
		"read pdf":       IntentReadPDF,
		"scrape website": IntentScrape,
		"quiz":           IntentQuiz,
	}
	for text, want := range cases {
		if got := Classify(text); got != want {
			t.Errorf("Classify(%q) = %v, want %v", text, got, want)
		}
	}
}
