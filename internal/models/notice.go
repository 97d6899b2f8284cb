package models

// Notice kinds emitted by the matchmaker toward the partner side of an
// operation. The gateway maps them onto user-facing text.
const (
	NoticeRelay             = "relay"
	NoticeMatchFound        = "match_found"
	NoticePartnerDisconnect = "partner_disconnected"
)

// Notice is a fire-and-forget outbound event addressed to one user.
type Notice struct {
	UserID  int64  `json:"user_id"`
	Type    string `json:"type"`
	Content string `json:"content"` // relayed text, empty for system notices
}
