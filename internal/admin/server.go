package admin

import (
	"context"
	"crypto/subtle"
	"errors"
	"log"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"bunker/internal/cards"
	"bunker/internal/game"
	"bunker/internal/web"

	"github.com/a-h/templ"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

const operatorHeader = "X-Operator-ID"

// Games is the slice of the engine the admin surface drives.
type Games interface {
	List() []game.Summary
	Snapshot(chatID int64) (*game.Record, error)
	End(ctx context.Context, chatID, userID int64) error
	Restore(ctx context.Context) (int, error)
	IsOperator(userID int64) bool
}

// Cards is the catalog subset exposed over HTTP.
type Cards interface {
	Pool(category string) []cards.Entry
	Counts() map[string]int
	Add(ctx context.Context, category string, entry cards.Entry) error
	Remove(ctx context.Context, category, text string) error
}

type Server struct {
	games   Games
	cards   Cards
	token   string
	origins []string
}

// New builds the admin surface. Cross-origin requests are accepted only from origins.
func New(games Games, catalog Cards, token string, origins ...string) *Server {
	registerValidators()
	return &Server{games: games, cards: catalog, token: token, origins: origins}
}

func (s *Server) Handler() http.Handler {
	router := gin.New()
	router.Use(gin.Recovery())
	if len(s.origins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins: s.origins,
			AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete},
			AllowHeaders: []string{"Authorization", "Content-Type", operatorHeader},
			MaxAge:       12 * time.Hour,
		}))
	}
	router.GET("/healthz", s.handleHealth)
	router.GET("/dashboard", s.requireOperator, s.handleDashboard)

	api := router.Group("/api", s.requireOperator)
	api.GET("/games", s.handleListGames)
	api.POST("/games/restore", s.handleRestoreGames)
	api.GET("/games/:chatID", s.handleGetGame)
	api.POST("/games/:chatID/end", s.handleEndGame)
	api.GET("/cards", s.handleCardCounts)
	api.GET("/cards/:category", s.handleListCards)
	api.POST("/cards/:category", s.handleAddCard)
	api.DELETE("/cards/:category", s.handleRemoveCard)
	return router
}

// Run serves the admin API on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Printf("admin api listening addr=%s", addr)
		errCh <- srv.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}

func (s *Server) requireOperator(c *gin.Context) {
	if s.token == "" {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "admin token not configured"})
		return
	}
	provided := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if provided == "" {
		provided = c.Query("token")
	}
	if subtle.ConstantTimeCompare([]byte(provided), []byte(s.token)) != 1 {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid admin token"})
		return
	}
	rawOperator := c.GetHeader(operatorHeader)
	if rawOperator == "" {
		rawOperator = c.Query("operator")
	}
	operatorID, err := strconv.ParseInt(rawOperator, 10, 64)
	if err != nil || !s.games.IsOperator(operatorID) {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "operator not allowed"})
		return
	}
	c.Set("operatorID", operatorID)
	c.Next()
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "games": len(s.games.List())})
}

func (s *Server) handleDashboard(c *gin.Context) {
	data := web.DashboardData{GeneratedAt: time.Now()}
	for _, g := range s.games.List() {
		data.Games = append(data.Games, web.GameRow{
			ChatID:      g.ChatID,
			Phase:       g.Phase.Title(),
			Round:       g.CardPhase,
			Players:     g.Players,
			Alive:       g.Alive,
			Capacity:    g.Capacity,
			CurrentTurn: g.CurrentTurn,
			CreatedAt:   g.CreatedAt,
		})
	}
	for category, count := range s.cards.Counts() {
		data.Cards = append(data.Cards, web.CardCount{Category: category, Count: count})
	}
	sort.Slice(data.Cards, func(i, j int) bool { return data.Cards[i].Category < data.Cards[j].Category })
	templ.Handler(web.Dashboard(data)).ServeHTTP(c.Writer, c.Request)
}

func (s *Server) handleListGames(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"games": s.games.List()})
}

func (s *Server) handleGetGame(c *gin.Context) {
	chatID, ok := chatParam(c)
	if !ok {
		return
	}
	record, err := s.games.Snapshot(chatID)
	if err != nil {
		writeGameError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

func (s *Server) handleEndGame(c *gin.Context) {
	chatID, ok := chatParam(c)
	if !ok {
		return
	}
	operatorID := c.GetInt64("operatorID")
	if err := s.games.End(c.Request.Context(), chatID, operatorID); err != nil {
		writeGameError(c, err)
		return
	}
	log.Printf("admin ended game chat_id=%d operator_id=%d", chatID, operatorID)
	c.JSON(http.StatusOK, gin.H{"status": "ended"})
}

func (s *Server) handleRestoreGames(c *gin.Context) {
	restored, err := s.games.Restore(c.Request.Context())
	if err != nil {
		log.Printf("admin restore failed error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "restore failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"restored": restored})
}

func (s *Server) handleCardCounts(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"counts": s.cards.Counts()})
}

func (s *Server) handleListCards(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category, "cards": s.cards.Pool(category)})
}

func (s *Server) handleAddCard(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	var req cardRequest
	if !bindJSON(c, &req, cardMessages) {
		return
	}
	entry := cards.Entry{
		Text:   strings.TrimSpace(req.Text),
		Weight: req.Weight,
		Detail: strings.TrimSpace(req.Detail),
		Kind:   strings.TrimSpace(req.Kind),
	}
	if err := s.cards.Add(c.Request.Context(), category, entry); err != nil {
		writeCardError(c, err)
		return
	}
	log.Printf("admin added card category=%s operator_id=%d", category, c.GetInt64("operatorID"))
	c.JSON(http.StatusCreated, entry)
}

func (s *Server) handleRemoveCard(c *gin.Context) {
	category, ok := categoryParam(c)
	if !ok {
		return
	}
	text := strings.TrimSpace(c.Query("text"))
	if text == "" && c.Request.ContentLength > 0 {
		var req removeRequest
		if !bindJSON(c, &req, cardMessages) {
			return
		}
		text = strings.TrimSpace(req.Text)
	}
	if text == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "text is required"})
		return
	}
	if err := s.cards.Remove(c.Request.Context(), category, text); err != nil {
		writeCardError(c, err)
		return
	}
	log.Printf("admin removed card category=%s operator_id=%d", category, c.GetInt64("operatorID"))
	c.Status(http.StatusNoContent)
}

func chatParam(c *gin.Context) (int64, bool) {
	chatID, err := strconv.ParseInt(c.Param("chatID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid chat id"})
		return 0, false
	}
	return chatID, true
}

func categoryParam(c *gin.Context) (string, bool) {
	category := strings.ToLower(c.Param("category"))
	if !cards.IsCategory(category) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return "", false
	}
	return category, true
}

func writeGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, game.ErrGameNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, game.ErrNotAllowed):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case game.IsRejected(err):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("admin game request failed error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func writeCardError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cards.ErrUnknownCategory), errors.Is(err, cards.ErrEmptyText):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, cards.ErrCardNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, cards.ErrDuplicateCard), errors.Is(err, cards.ErrLastCard):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("admin card request failed error=%v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
