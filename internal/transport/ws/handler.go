package ws

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"nhooyr.io/websocket"

	libjwt "datespark/internal/lib/jwt"
	"datespark/internal/lib/logger/sl"
)

// ServeWS upgrades an authenticated request to a WebSocket connection and
// registers it with the hub. Browsers cannot set headers on WebSocket
// upgrades, so the access token travels in the "token" query parameter.
func ServeWS(hub *Hub, jwtSecret string, log *slog.Logger) echo.HandlerFunc {
	return func(c echo.Context) error {
		const op = "ws.ServeWS"

		tokenString := c.QueryParam("token")
		if tokenString == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "missing token")
		}

		token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})
		if err != nil || !token.Valid {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		claims, err := libjwt.ParseClaims(token)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
		}

		conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
			InsecureSkipVerify: true, // origin is enforced by the CORS middleware
		})
		if err != nil {
			log.Error(fmt.Sprintf("%s: websocket accept failed", op), sl.Err(err))
			return nil
		}

		client := NewClient(hub, conn, claims.Username, log)
		hub.register <- client

		ctx := c.Request().Context()
		go client.WritePump(ctx)
		client.ReadPump(ctx)

		return nil
	}
}
