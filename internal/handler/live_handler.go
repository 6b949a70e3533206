package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sondea/sondea-backend/internal/config"
	"github.com/sondea/sondea-backend/internal/middleware"
	"github.com/sondea/sondea-backend/internal/service"
	ws "github.com/sondea/sondea-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// LiveHandler streams persisted responses to console dashboards over
// WebSocket, backed by the survey's Redis PubSub channel.
type LiveHandler struct {
	rdb           *redis.Client
	surveyService *service.SurveyService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewLiveHandler creates a new LiveHandler.
func NewLiveHandler(rdb *redis.Client, surveyService *service.SurveyService, log zerolog.Logger, allowedOrigins []string) *LiveHandler {
	return &LiveHandler{
		rdb:           rdb,
		surveyService: surveyService,
		log:           log.With().Str("component", "live_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// SurveyLiveStream godoc
// WS /ws/v1/console/surveys/:id/live
// Upgrades to WebSocket and forwards response_received events as the
// submission worker publishes them.
func (h *LiveHandler) SurveyLiveStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	surveyID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid survey ID"})
		return
	}

	// Ownership check before the upgrade; after it the response is a socket.
	if _, err := h.surveyService.GetOwned(c.Request.Context(), surveyID, claims.CompanyID); err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "survey belongs to another company"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("company_id", claims.CompanyID).
		Str("survey_id", surveyID.String()).
		Logger()
	wsLog.Info().Msg("Console connected to live feed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.SurveyLiveChannel(surveyID.String()))
	defer sub.Close()

	go h.forwardEvents(ctx, cancel, conn, sub, wsLog)

	// Read loop: the client only sends pings; anything else is rejected.
	for {
		var msg ws.RequestEnvelope
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionPing:
			_ = ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			_ = ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}

	cancel()
}

// forwardEvents pumps PubSub messages to the socket until either side
// closes.
func (h *LiveHandler) forwardEvents(ctx context.Context, cancel context.CancelFunc, conn *websocket.Conn, sub *redis.PubSub, log zerolog.Logger) {
	defer cancel()

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}

			var event ws.ResponseReceivedEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				log.Warn().Err(err).Msg("Malformed live event")
				continue
			}
			if err := ws.WriteTyped(conn, event); err != nil {
				log.Debug().Err(err).Msg("Write failed, closing live feed")
				return
			}
		}
	}
}
