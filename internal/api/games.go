package api

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
)

// GamesHandler handles game endpoints.
type GamesHandler struct {
	DB *db.Conn
}

type createGameRequest struct {
	Name        string `json:"name" validate:"notblank"`
	Image       string `json:"image" validate:"required,url,startswith=https://"`
	StockTotal  int    `json:"stockTotal" validate:"required,gt=0"`
	CategoryID  int64  `json:"categoryId" validate:"required,gt=0"`
	PricePerDay int64  `json:"pricePerDay" validate:"required,gt=0"`
}

// List handles GET /games. The name parameter filters by case-insensitive
// name prefix.
func (h *GamesHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := listOptions(q)
	if err != nil {
		writeError(w, r, err, "list games")
		return
	}

	games, err := store.ListGames(r.Context(), h.DB, q.Get("name"), opts)
	if err != nil {
		writeError(w, r, err, "list games")
		return
	}
	if games == nil {
		games = []model.Game{}
	}
	jsonResponse(w, http.StatusOK, games)
}

// Create handles POST /games.
func (h *GamesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createGameRequest
	if err := decodeAndValidate(r, &req); err != nil {
		writeError(w, r, err, "create game")
		return
	}

	game, err := store.CreateGame(r.Context(), h.DB, model.Game{
		Name:        req.Name,
		Image:       req.Image,
		StockTotal:  req.StockTotal,
		CategoryID:  req.CategoryID,
		PricePerDay: req.PricePerDay,
	})
	if err != nil {
		writeError(w, r, err, "create game")
		return
	}

	slog.Info("game created", "id", game.ID, "name", game.Name, "stock", game.StockTotal)
	jsonResponse(w, http.StatusCreated, game)
}
