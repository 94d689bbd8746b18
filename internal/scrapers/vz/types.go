package vz

import (
	"time"
)

type OnlineUser struct {
	Id         string `json:"id"`
	Username   string `json:"username"`
	Location   string `json:"location"`
	ProfileUrl string `json:"profileUrl"`
	ImageUrl   string `json:"imageUrl"`
}

type ProfileType string

const (
	PROFILE_MALE   ProfileType = "male"
	PROFILE_FEMALE ProfileType = "female"
	PROFILE_COUPLE ProfileType = "couple"
)

type GroupMembership struct {
	Id   string `json:"id"`
	Name string `json:"name"`
}

// WritesToTypes holds the percentage of messages a profile writes to each
// profile type. The buckets are independent and need not sum to 100.
type WritesToTypes struct {
	Male   float64 `json:"male"`
	Female float64 `json:"female"`
	Couple float64 `json:"couple"`
}

type Profile struct {
	Id               string            `json:"id"`
	Username         string            `json:"username"`
	Type             ProfileType       `json:"type"`
	Age              *int              `json:"age,omitempty"`
	Location         string            `json:"location"`
	Orientation      string            `json:"orientation,omitempty"`
	Alignment        string            `json:"alignment,omitempty"`
	GroupMemberships []GroupMembership `json:"groupMemberships"`
	ImageUrl         string            `json:"imageUrl"`
	WritesToTypes    WritesToTypes     `json:"writesToTypes"`
	ProfileUrl       string            `json:"profileUrl"`
}

// MessageUser is the counterpart of a message box item, the sender for inbox
// items and the recipient for outbox items.
type MessageUser struct {
	Id         string `json:"id"`
	Name       string `json:"name"`
	Location   string `json:"location"`
	ProfileUrl string `json:"profileUrl"`
	ImageUrl   string `json:"imageUrl"`
}

type MessageBoxItem struct {
	// Id is the message id, the `msg` parameter of the message url.
	Id string `json:"id"`
	// DialogId identifies the conversation, it is the same for inbox and
	// outbox items of the same conversation.
	DialogId   string      `json:"dialogId"`
	Subject    string      `json:"subject"`
	Unread     bool        `json:"unread"`
	Deleted    bool        `json:"deleted"`
	Date       time.Time   `json:"date"`
	User       MessageUser `json:"user"`
	MessageUrl string      `json:"messageUrl"`
}

// Thread is one conversation merged out of the inbox and outbox, Date is the
// latest date of all its items.
type Thread struct {
	MessageBoxItem
}

type ThreadMessage struct {
	SenderId         string    `json:"senderId"`
	SenderName       string    `json:"senderName"`
	SenderProfileUrl string    `json:"senderProfileUrl"`
	SenderImageUrl   string    `json:"senderImageUrl"`
	Date             time.Time `json:"date"`
	Message          string    `json:"message"`
	Images           []string  `json:"images,omitempty"`
}

type Box int

const (
	BOX_INBOX Box = iota
	BOX_OUTBOX
)

func (b Box) String() string {
	switch b {
	case BOX_INBOX:
		return "inbox"
	case BOX_OUTBOX:
		return "outbox"
	}
	return "unknown"
}

// MessagePage is a single page of the inbox or outbox listing.
type MessagePage struct {
	Items     []MessageBoxItem
	HasUnread bool
	// TotalPages is only known on page 0, it is the highest page index the
	// pager links to (0 if there is only one page).
	TotalPages *int
}

type SendMessageRequest struct {
	DialogId string
	Text     string
	// Name is the display name of the recipient.
	Name string
	// Title is the subject of the message.
	Title string
	// Photo is the recipient's photo token, see PhotoToken.
	Photo string
}
