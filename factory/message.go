package factory

// PostedLayout is the fixed-width timestamp layout used for Message.Posted.
// Every field has a constant width, so lexicographic order on the formatted
// string matches chronological order.
const PostedLayout = "2006-01-02 15:04:05"

type Message struct {
	ID      int    `json:"id" xml:"id" validate:"gte=0"`
	Posted  string `json:"posted" xml:"posted"` // formatted timestamp, assigned on create
	Sender  string `json:"sender" xml:"sender"`
	Content string `json:"content" xml:"content"` // may contain newlines
}
