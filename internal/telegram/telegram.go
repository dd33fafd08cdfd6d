package telegram

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	cmdpkg "github.com/palaverbot/palaver/internal/commander"
)

// Telegram rejects messages longer than 4096 characters.
const maxMessageChars = 4096

// Client is a minimal Telegram Bot API client.
type Client struct {
	apiBase    string
	fileBase   string
	httpClient *http.Client
}

// NewClient creates a Telegram client for the given bot API base URL
// (e.g. "https://api.telegram.org/bot<token>") and file download base URL
// (e.g. "https://api.telegram.org/file/bot<token>").
func NewClient(apiBase, fileBase string, requestTimeout time.Duration) *Client {
	return &Client{
		apiBase:  apiBase,
		fileBase: fileBase,
		httpClient: &http.Client{
			Timeout: requestTimeout,
		},
	}
}

// Response is the generic Telegram API response wrapper.
type Response struct {
	OK     bool            `json:"ok"`
	Result json.RawMessage `json:"result"`
}

type Update = cmdpkg.Update
type Message = cmdpkg.Message
type Chat = cmdpkg.Chat

// GetUpdates calls the getUpdates API.
func (c *Client) GetUpdates(offset int64, timeout int) ([]Update, error) {
	params := url.Values{}
	params.Set("offset", strconv.FormatInt(offset, 10))
	params.Set("timeout", strconv.Itoa(timeout))

	resp, err := c.httpClient.Get(c.apiBase + "/getUpdates?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("telegram getUpdates request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read getUpdates response: %w", err)
	}

	var tgResp Response
	if err := json.Unmarshal(body, &tgResp); err != nil {
		return nil, fmt.Errorf("failed to parse getUpdates response: %w", err)
	}

	if !tgResp.OK {
		return nil, nil
	}

	var updates []Update
	if err := json.Unmarshal(tgResp.Result, &updates); err != nil {
		return nil, fmt.Errorf("failed to parse getUpdates result: %w", err)
	}
	return updates, nil
}

// SendMessage sends a text message to the given chat.
func (c *Client) SendMessage(chatID int64, text string) error {
	limited := truncate(text, maxMessageChars)
	payload := fmt.Sprintf(`{"chat_id":%d,"text":%s}`, chatID, jsonString(limited))

	resp, err := c.httpClient.Post(
		c.apiBase+"/sendMessage",
		"application/json",
		strings.NewReader(payload),
	)
	if err != nil {
		return fmt.Errorf("telegram sendMessage request failed: %w", err)
	}
	defer resp.Body.Close()
	io.ReadAll(resp.Body) // drain
	return nil
}

type tgFile struct {
	FilePath string `json:"file_path"`
}

// DownloadFile resolves a file_id via getFile and downloads its content.
func (c *Client) DownloadFile(fileID string) ([]byte, error) {
	params := url.Values{}
	params.Set("file_id", fileID)

	resp, err := c.httpClient.Get(c.apiBase + "/getFile?" + params.Encode())
	if err != nil {
		return nil, fmt.Errorf("telegram getFile request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read getFile response: %w", err)
	}

	var tgResp Response
	if err := json.Unmarshal(body, &tgResp); err != nil {
		return nil, fmt.Errorf("failed to parse getFile response: %w", err)
	}
	if !tgResp.OK {
		return nil, fmt.Errorf("telegram getFile rejected file_id %s", fileID)
	}

	var file tgFile
	if err := json.Unmarshal(tgResp.Result, &file); err != nil {
		return nil, fmt.Errorf("failed to parse getFile result: %w", err)
	}
	if file.FilePath == "" {
		return nil, fmt.Errorf("telegram getFile returned no file_path for file_id %s", fileID)
	}

	fileResp, err := c.httpClient.Get(c.fileBase + "/" + file.FilePath)
	if err != nil {
		return nil, fmt.Errorf("telegram file download failed: %w", err)
	}
	defer fileResp.Body.Close()

	if fileResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("telegram file download status=%d", fileResp.StatusCode)
	}

	data, err := io.ReadAll(fileResp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read downloaded file: %w", err)
	}
	return data, nil
}

func truncate(s string, maxChars int) string {
	runes := []rune(s)
	if len(runes) <= maxChars {
		return s
	}
	return string(runes[:maxChars])
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
