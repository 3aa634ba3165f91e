package judgeapi

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/programme-lv/judgetrack/tracksrvc"
)

// frameSep separates the channel tag from the payload in push
// frames: "channel\x00payload".
var frameSep = []byte{0}

// WsConn is the push channel transport: a websocket connection
// subscribed to one named channel on the judge's notification
// endpoint.
type WsConn struct {
	conn *websocket.Conn
}

var _ tracksrvc.Conn = (*WsConn)(nil)

type subscribeMsg struct {
	Type    string `json:"type"`
	Channel string `json:"channel"`
}

// NewDialer returns a dialer that connects to the judge's
// websocket endpoint and subscribes to the given channel.
func NewDialer(wsUrl string, apiKey string) tracksrvc.Dialer {
	return func(ctx context.Context, channel string) (tracksrvc.Conn, error) {
		header := make(http.Header)
		header.Set("X-Api-Key", apiKey)

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, wsUrl, header)
		if err != nil {
			return nil, fmt.Errorf("ws connect: %w", err)
		}

		err = conn.WriteJSON(subscribeMsg{
			Type:    "subscribe",
			Channel: channel,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("ws subscribe: %w", err)
		}

		return &WsConn{conn: conn}, nil
	}
}

// ReadFrame blocks for the next websocket message and splits
// it into channel tag and payload. A frame without a separator
// yields an empty channel tag, which no consumer matches.
func (c *WsConn) ReadFrame() (string, []byte, error) {
	_, msg, err := c.conn.ReadMessage()
	if err != nil {
		return "", nil, err
	}
	tag, payload, found := bytes.Cut(msg, frameSep)
	if !found {
		return "", msg, nil
	}
	return string(tag), payload, nil
}

func (c *WsConn) Close() error {
	return c.conn.Close()
}
