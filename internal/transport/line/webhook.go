// Package line adapts LINE webhook events to the core engine. The SDK
// verifies the request signature; the adapter's only job is converting
// events to core inbound messages and replies to LINE message payloads.
package line

import (
	"errors"
	"net/http"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/drinkcal-bot/server/internal/bot/flow"
	"github.com/drinkcal-bot/server/internal/bot/model"
	logx "github.com/drinkcal-bot/server/pkg/logger"
)

// Official menu imagemap: one image with the three brand websites mapped
// onto it side by side.
const (
	menuImagemapBase = "https://res.cloudinary.com/df8pqukj6/image/upload/v1748697999/link_zjrzoj.jpg#"
	menuImagemapAlt  = "點選前往官網"

	siteFiftyLan    = "http://50lan.com/web/products.asp"
	siteChingShin   = "https://www.chingshin.tw/product.php"
	siteMacuTea     = "https://www.macutea.com.tw"
	locationAskText = "請點選聊天室左下角「+」，選擇「位置資訊」傳送您的位置～"
)

// Handler terminates the /callback webhook endpoint.
type Handler struct {
	engine        *flow.Engine
	api           *messaging_api.MessagingApiAPI
	channelSecret string
}

func NewHandler(cfg model.LineConfig, engine *flow.Engine) (*Handler, error) {
	api, err := messaging_api.NewMessagingApiAPI(cfg.ChannelToken)
	if err != nil {
		return nil, err
	}
	return &Handler{
		engine:        engine,
		api:           api,
		channelSecret: cfg.ChannelSecret,
	}, nil
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	cb, err := webhook.ParseRequest(h.channelSecret, r)
	if err != nil {
		if errors.Is(err, webhook.ErrInvalidSignature) {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		logx.Error().Err(err).Msg("failed to parse webhook request")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	for _, event := range cb.Events {
		h.handleEvent(r, event)
	}
	w.WriteHeader(http.StatusOK)
}

func (h *Handler) handleEvent(r *http.Request, event webhook.EventInterface) {
	switch e := event.(type) {
	case webhook.MessageEvent:
		userID := sourceUserID(e.Source)
		if userID == "" {
			return
		}
		switch m := e.Message.(type) {
		case webhook.TextMessageContent:
			out := h.engine.Handle(r.Context(), model.Inbound{UserID: userID, Text: m.Text})
			h.reply(e.ReplyToken, out)
		case webhook.LocationMessageContent:
			out := h.engine.Handle(r.Context(), model.Inbound{
				UserID:   userID,
				Location: &model.LatLng{Lat: m.Latitude, Lng: m.Longitude},
			})
			h.reply(e.ReplyToken, out)
		}
	case webhook.PostbackEvent:
		if e.Postback != nil && e.Postback.Data == "action=location" {
			h.reply(e.ReplyToken, model.TextReply(locationAskText))
		}
	}
}

func sourceUserID(src webhook.SourceInterface) string {
	if us, ok := src.(webhook.UserSource); ok {
		return us.UserId
	}
	return ""
}

func (h *Handler) reply(replyToken string, out model.Reply) {
	_, err := h.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages:   []messaging_api.MessageInterface{toMessage(out)},
	})
	if err != nil {
		logx.Error().Err(err).Msg("failed to deliver reply")
	}
}

func toMessage(out model.Reply) messaging_api.MessageInterface {
	switch out.Kind {
	case model.ReplyImage:
		return messaging_api.ImageMessage{
			OriginalContentUrl: out.ImageURL,
			PreviewImageUrl:    out.ImageURL,
		}
	case model.ReplyMenuLinks:
		return menuLinksMessage()
	default:
		return messaging_api.TextMessage{Text: out.Text}
	}
}

func menuLinksMessage() messaging_api.ImagemapMessage {
	return messaging_api.ImagemapMessage{
		BaseUrl:  menuImagemapBase,
		AltText:  menuImagemapAlt,
		BaseSize: &messaging_api.ImagemapBaseSize{Width: 1040, Height: 520},
		Actions: []messaging_api.ImagemapActionInterface{
			messaging_api.UriImagemapAction{
				LinkUri: siteFiftyLan,
				Area:    &messaging_api.ImagemapArea{X: 0, Y: 0, Width: 346, Height: 520},
			},
			messaging_api.UriImagemapAction{
				LinkUri: siteChingShin,
				Area:    &messaging_api.ImagemapArea{X: 346, Y: 0, Width: 346, Height: 520},
			},
			messaging_api.UriImagemapAction{
				LinkUri: siteMacuTea,
				Area:    &messaging_api.ImagemapArea{X: 692, Y: 0, Width: 348, Height: 520},
			},
		},
	}
}
