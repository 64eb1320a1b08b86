package domain

// AttachmentKind classifies inbound attachments.
type AttachmentKind string

const (
	AttachmentPhoto    AttachmentKind = "photo"
	AttachmentDocument AttachmentKind = "document"
)

// Attachment describes an inbound file by its transport file reference.
type Attachment struct {
	Kind     AttachmentKind
	FileID   string
	MimeType string
}

// Event is one inbound chat event delivered by the gateway: plain text, a
// button press (Callback) or an attachment. Exactly one of Text, Callback or
// Attachment is expected to be meaningful. Language is the sender's client
// language code when the transport reports one.
type Event struct {
	Text       string
	Callback   string
	Attachment *Attachment
	Language   string
}

// IsCallback reports whether the event is a button press.
func (e Event) IsCallback() bool { return e.Callback != "" }

// Button is one pressable element of a Menu. Buttons with Data are rendered
// as inline callback buttons; buttons without are plain reply-keyboard keys.
type Button struct {
	Label string
	Data  string
}

// Menu is a transport-agnostic keyboard descriptor, one slice per row.
type Menu struct {
	Rows [][]Button
}

// NewMenu builds a menu with one button per row.
func NewMenu(buttons ...Button) *Menu {
	m := &Menu{}
	for _, b := range buttons {
		m.Rows = append(m.Rows, []Button{b})
	}
	return m
}

// Inline reports whether any button carries callback data.
func (m *Menu) Inline() bool {
	for _, row := range m.Rows {
		for _, b := range row {
			if b.Data != "" {
				return true
			}
		}
	}
	return false
}
