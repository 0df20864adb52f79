package dto

// MessageEvent is the validated form of an inbound text message. It is built
// at the webhook boundary; services never see transport payloads.
type MessageEvent struct {
	ChatID      int64
	ChatType    string // "private", "group", "supergroup", "channel"
	UserID      int64
	FirstName   string
	Text        string
	ReplyToText string // text of the replied-to message, empty when not a reply
}

// CallbackEvent is a button selection arriving back as a callback query.
// Data carries the opaque token the choice was sent with.
type CallbackEvent struct {
	ChatID    int64
	UserID    int64
	FirstName string
	Data      string
}

// ChoiceOption is one selectable button: a visible label and the token that
// returns in CallbackEvent.Data when picked.
type ChoiceOption struct {
	Label string
	Token string
}
