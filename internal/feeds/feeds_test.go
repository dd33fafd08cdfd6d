package feeds

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestNewsClient_TopHeadlines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/top-headlines" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("country"); got != "us" {
			t.Errorf("unexpected country %q", got)
		}
		if got := r.URL.Query().Get("apiKey"); got != "news-key" {
			t.Errorf("unexpected apiKey %q", got)
		}
		_, _ = io.WriteString(w, `{"articles":[
			{"title":"Headline One","source":{"name":"Reuters"}},
			{"title":"Headline Two","source":{"name":"AP"}}
		]}`)
	}))
	defer srv.Close()

	c := NewNewsClient("news-key", srv.URL, 2*time.Second)
	headlines, err := c.TopHeadlines("us")
	if err != nil {
		t.Fatalf("TopHeadlines failed: %v", err)
	}
	if len(headlines) != 2 {
		t.Fatalf("expected 2 headlines, got %d", len(headlines))
	}
	if headlines[0].Title != "Headline One" || headlines[0].Source != "Reuters" {
		t.Errorf("unexpected headline: %+v", headlines[0])
	}
}

func TestNewsClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewNewsClient("bad-key", srv.URL, 2*time.Second)
	_, err := c.TopHeadlines("us")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestWeatherClient_Current(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("q"); got != "london" {
			t.Errorf("unexpected location %q", got)
		}
		if got := r.URL.Query().Get("units"); got != "metric" {
			t.Errorf("unexpected units %q", got)
		}
		_, _ = io.WriteString(w, `{"name":"London","main":{"temp":14.2,"humidity":81},"weather":[{"description":"light rain"}],"wind":{"speed":4.6}}`)
	}))
	defer srv.Close()

	c := NewWeatherClient("weather-key", srv.URL, 2*time.Second)
	report, err := c.Current("london")
	if err != nil {
		t.Fatalf("Current failed: %v", err)
	}
	if report.Name != "London" || report.TempC != 14.2 || report.HumidityPct != 81 {
		t.Errorf("unexpected report: %+v", report)
	}
	if report.Description != "light rain" || report.WindSpeed != 4.6 {
		t.Errorf("unexpected report: %+v", report)
	}
}

func TestWeatherClient_UnknownLocation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	c := NewWeatherClient("weather-key", srv.URL, 2*time.Second)
	_, err := c.Current("nowheresville")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestJokeClient_SingleJoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/joke/Any" {
			http.NotFound(w, r)
			return
		}
		_, _ = io.WriteString(w, `{"type":"single","joke":"I told my computer a joke. It didn't laugh."}`)
	}))
	defer srv.Close()

	c := NewJokeClient(srv.URL, 2*time.Second)
	joke, err := c.Random()
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	if joke != "I told my computer a joke. It didn't laugh." {
		t.Errorf("unexpected joke %q", joke)
	}
}

func TestJokeClient_TwoPartJoke(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"type":"twopart","setup":"Why did the gopher cross the road?","delivery":"To recover from a panic."}`)
	}))
	defer srv.Close()

	c := NewJokeClient(srv.URL, 2*time.Second)
	joke, err := c.Random()
	if err != nil {
		t.Fatalf("Random failed: %v", err)
	}
	want := "Why did the gopher cross the road? ... To recover from a panic."
	if joke != want {
		t.Errorf("unexpected joke %q", joke)
	}
}

func TestDictionaryClient_Define(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v2/entries/en-gb/palaver" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if r.Header.Get("app_id") != "app-id" || r.Header.Get("app_key") != "app-key" {
			t.Error("missing auth headers")
		}
		_, _ = io.WriteString(w, `{"results":[{"lexicalEntries":[{"entries":[{"senses":[{"definitions":["prolonged and tedious fuss or discussion"]}]}]}]}]}`)
	}))
	defer srv.Close()

	c := NewDictionaryClient("app-id", "app-key", srv.URL, 2*time.Second)
	def, err := c.Define("Palaver")
	if err != nil {
		t.Fatalf("Define failed: %v", err)
	}
	if def != "prolonged and tedious fuss or discussion" {
		t.Errorf("unexpected definition %q", def)
	}
}

func TestDictionaryClient_NoSenses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"results":[{"lexicalEntries":[{"entries":[{"senses":[]}]}]}]}`)
	}))
	defer srv.Close()

	c := NewDictionaryClient("app-id", "app-key", srv.URL, 2*time.Second)
	_, err := c.Define("ghostword")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestVideoClient_FiltersNonVideos(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/youtube/v3/search" {
			http.NotFound(w, r)
			return
		}
		if got := r.URL.Query().Get("maxResults"); got != "5" {
			t.Errorf("unexpected maxResults %q", got)
		}
		_, _ = io.WriteString(w, `{"items":[
			{"id":{"kind":"youtube#video","videoId":"abc123"}},
			{"id":{"kind":"youtube#channel"}},
			{"id":{"kind":"youtube#video","videoId":"def456"}}
		]}`)
	}))
	defer srv.Close()

	c := NewVideoClient("yt-key", srv.URL, 2*time.Second)
	links, err := c.Search("gophers")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(links))
	}
	if links[0] != "https://www.youtube.com/watch?v=abc123" {
		t.Errorf("unexpected link %q", links[0])
	}
}

func TestPodcastClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-ListenAPI-Key") != "pod-key" {
			t.Error("missing API key header")
		}
		_, _ = io.WriteString(w, `{"results":[{"link":"https://pod.example/ep1"},{"link":"https://pod.example/ep2"}]}`)
	}))
	defer srv.Close()

	c := NewPodcastClient("pod-key", srv.URL, 2*time.Second)
	links, err := c.Search("history")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}
	if len(links) != 2 || links[1] != "https://pod.example/ep2" {
		t.Fatalf("unexpected links %v", links)
	}
}

func TestPageClient_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, "<html><body>hi</body></html>")
	}))
	defer srv.Close()

	c := NewPageClient(2 * time.Second)
	data, err := c.Fetch(srv.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(data) != "<html><body>hi</body></html>" {
		t.Errorf("unexpected body %q", string(data))
	}
}

func TestPageClient_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	c := NewPageClient(2 * time.Second)
	_, err := c.Fetch(srv.URL)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}
