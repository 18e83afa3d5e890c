package model

// LatLng is a coordinate pair delivered by a location share.
type LatLng struct {
	Lat float64
	Lng float64
}

// Inbound is one transport event addressed to the core. Exactly one of
// Text or Location is set; the transport layer has already verified the
// message signature and resolved the user identity.
type Inbound struct {
	UserID   string
	Text     string
	Location *LatLng
}

// ReplyKind discriminates the outbound message shapes the core can produce.
type ReplyKind int

const (
	ReplyText ReplyKind = iota
	ReplyImage
	ReplyMenuLinks
)

// Reply is the core's answer to one inbound event. ReplyImage carries the
// rendered chart URL; ReplyMenuLinks tells the transport to send its
// brand-website imagemap.
type Reply struct {
	Kind     ReplyKind
	Text     string
	ImageURL string
}

// TextReply builds a plain text reply.
func TextReply(text string) Reply {
	return Reply{Kind: ReplyText, Text: text}
}

// ImageReply builds an image reply pointing at a rendered artifact.
func ImageReply(url string) Reply {
	return Reply{Kind: ReplyImage, ImageURL: url}
}

// MenuLinksReply asks the transport for the official-menu link card.
func MenuLinksReply() Reply {
	return Reply{Kind: ReplyMenuLinks}
}
