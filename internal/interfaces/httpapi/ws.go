package httpapi

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const writeWait = 10 * time.Second

// Stream GET /ws：立即推送一次，之后每个 pushInterval 推送一次，每次推送跑一轮。
// 客户端断开（读出错）即结束。
func (h *Handler) Stream(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	defer cancel()

	// 只用于感知关闭
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	remote := c.RealIP()
	log.Info().Str("remote", remote).Msg("ws client connected")
	defer log.Info().Str("remote", remote).Msg("ws client disconnected")

	ticker := time.NewTicker(h.pushInterval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn); err != nil {
			log.Debug().Err(err).Str("remote", remote).Msg("ws push failed")
			return nil
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (h *Handler) push(ctx context.Context, conn *websocket.Conn) error {
	rep := h.tracker.Cycle(ctx)
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(BuildPayload(rep, h.markers))
}
