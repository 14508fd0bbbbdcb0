package domain

// MessageType discriminates outbound message payloads.
type MessageType string

const (
	// MessageText is a plain text reply.
	MessageText MessageType = "text"
	// MessageChoice asks the user to pick one of a fixed set of options.
	MessageChoice MessageType = "choice"
	// MessageCard carries rich display content. The engine treats it as an
	// inert bag of data; rendering is entirely up to the channel.
	MessageCard MessageType = "card"
)

// Layout hints for multi-card messages.
const (
	LayoutList     = "list"
	LayoutCarousel = "carousel"
)

// Message is one item of a turn's ordered output.
type Message struct {
	Type    MessageType `json:"type"`
	Text    string      `json:"text,omitempty"`
	Options []string    `json:"options,omitempty"`
	Cards   []Card      `json:"cards,omitempty"`
	Layout  string      `json:"layout,omitempty"`
}

// CardStyle selects the visual weight of a card.
type CardStyle string

const (
	CardHero      CardStyle = "hero"
	CardThumbnail CardStyle = "thumbnail"
)

// Card is a rich content attachment: title, subtitle, body text, images and
// action buttons. Channels interpret it as they see fit; text-only channels
// have to degrade it themselves.
type Card struct {
	Style    CardStyle    `json:"style,omitempty"`
	Title    string       `json:"title,omitempty"`
	Subtitle string       `json:"subtitle,omitempty"`
	Text     string       `json:"text,omitempty"`
	Images   []CardImage  `json:"images,omitempty"`
	Buttons  []CardAction `json:"buttons,omitempty"`

	// Tap is triggered when the card itself is activated.
	Tap *CardAction `json:"tap,omitempty"`
}

// CardImage is a displayable image, optionally with its own tap action.
type CardImage struct {
	URL string      `json:"url"`
	Tap *CardAction `json:"tap,omitempty"`
}

// CardActionType defines what activating a card button does.
type CardActionType string

const (
	// ActionIMBack posts Value back into the conversation as if the user
	// had typed it.
	ActionIMBack CardActionType = "imBack"
	// ActionOpenURL opens Value in a browser.
	ActionOpenURL CardActionType = "openUrl"
	// ActionShowImage displays Value as a full-size image.
	ActionShowImage CardActionType = "showImage"
)

// CardAction is a button or tap target on a card.
type CardAction struct {
	Type  CardActionType `json:"type"`
	Title string         `json:"title,omitempty"`
	Value string         `json:"value"`
}

// IMBack builds a button that posts value back into the conversation.
func IMBack(value, title string) CardAction {
	return CardAction{Type: ActionIMBack, Title: title, Value: value}
}

// OpenURL builds a button that opens a URL.
func OpenURL(url, title string) CardAction {
	return CardAction{Type: ActionOpenURL, Title: title, Value: url}
}

// TextMessage builds a plain text message.
func TextMessage(text string) Message {
	return Message{Type: MessageText, Text: text}
}

// CardMessage wraps cards in a message with the given layout.
func CardMessage(layout string, cards ...Card) Message {
	return Message{Type: MessageCard, Cards: cards, Layout: layout}
}
