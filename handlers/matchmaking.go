// handlers/matchmaking.go exposes end-turn registration and the
// matchmaking attempt over HTTP. This is the transport the downstream
// game-logic caller is expected to call into — its own HTTP shape, auth
// scheme, and simulation body are its own concern; only the end-turn
// and matchmake operations themselves are exposed here.
package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"turn-matchmaking-coordinator/internal/keyschema"
	"turn-matchmaking-coordinator/internal/kvstore"
	"turn-matchmaking-coordinator/internal/matchmaking"
	"turn-matchmaking-coordinator/workers"
)

// MatchmakingHandler holds the dependencies the two routes need.
type MatchmakingHandler struct {
	Store  kvstore.Store
	Worker *workers.MatchmakingWorker
}

// NewMatchmakingHandler constructs a MatchmakingHandler.
func NewMatchmakingHandler(store kvstore.Store, worker *workers.MatchmakingWorker) *MatchmakingHandler {
	return &MatchmakingHandler{Store: store, Worker: worker}
}

// SetupMatchmakingRoutes registers the operational endpoints behind
// authMiddleware.
func SetupMatchmakingRoutes(app *fiber.App, h *MatchmakingHandler, authMiddleware fiber.Handler) {
	secured := app.Group("/", authMiddleware)
	secured.Post("/turns/:turn/end-turn", h.EndTurn)
	secured.Post("/turns/:turn/matchmake", h.Matchmake)
}

type endTurnRequest struct {
	RunID string `json:"run_id"`
}

// EndTurn handles POST /turns/:turn/end-turn.
func (h *MatchmakingHandler) EndTurn(c *fiber.Ctx) error {
	turnNumber, err := parseTurnNumber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req endTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.RunID == "" {
		req.RunID = uuid.NewString()
	}

	skey, err := matchmaking.EndTurn(c.Context(), h.Store, turnNumber, req.RunID)
	if err != nil {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(fiber.Map{
		"turn_number":      turnNumber,
		"run_id":           skey.RunID,
		"random_component": skey.RandomComponent,
		"sort_key":         skey.Format(),
	})
}

type matchmakeRequest struct {
	RunID           string `json:"run_id"`
	RandomComponent string `json:"random_component"`
}

// Matchmake handles POST /turns/:turn/matchmake.
func (h *MatchmakingHandler) Matchmake(c *fiber.Ctx) error {
	turnNumber, err := parseTurnNumber(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	var req matchmakeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid JSON", "details": err.Error()})
	}
	if req.RunID == "" || req.RandomComponent == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "run_id and random_component are required"})
	}

	request := matchmaking.AsyncRequest{
		TurnNumber: turnNumber,
		Skey:       keyschema.Skey{RandomComponent: req.RandomComponent, RunID: req.RunID},
	}

	result, err := h.Worker.Run(c.Context(), request)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	return c.JSON(resultToJSON(result))
}

func resultToJSON(result matchmaking.Result) fiber.Map {
	switch result.Kind {
	case matchmaking.ResultMatched:
		return fiber.Map{
			"status":   "matched",
			"opponent": result.Opponent.RunID,
		}
	case matchmaking.ResultCanDrop:
		return fiber.Map{"status": "can_drop"}
	default:
		out := fiber.Map{"status": "fake_simulate"}
		if result.DegradedReason != nil {
			out["reason"] = *result.DegradedReason
		}
		return out
	}
}

func parseTurnNumber(c *fiber.Ctx) (uint32, error) {
	raw := c.Params("turn")
	n, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, errors.New("invalid turn number")
	}
	return uint32(n), nil
}
