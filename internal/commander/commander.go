package commander

// Commander is the delivery-channel abstraction the bot runs against.
type Commander interface {
	GetUpdates(offset int64, timeout int) ([]Update, error)
	SendMessage(chatID int64, text string) error
	DownloadFile(fileID string) ([]byte, error)
}

// Update represents an incoming message/update.
type Update struct {
	UpdateID int64    `json:"update_id"`
	Message  *Message `json:"message,omitempty"`
}

// Message represents a source message.
type Message struct {
	Chat     Chat      `json:"chat"`
	From     *User     `json:"from,omitempty"`
	Text     *string   `json:"text,omitempty"`
	Document *Document `json:"document,omitempty"`
	Date     int64     `json:"date"`
}

// Chat identifies a conversation.
type Chat struct {
	ID int64 `json:"id"`
}

// User identifies a message sender.
type User struct {
	ID int64 `json:"id"`
}

// Document is an uploaded file attachment.
type Document struct {
	FileID   string `json:"file_id"`
	FileName string `json:"file_name,omitempty"`
	MimeType string `json:"mime_type,omitempty"`
}
