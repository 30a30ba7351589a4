package httpapi

import (
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/i474232898/retirement-travel-planner/internal/agent"
	"github.com/i474232898/retirement-travel-planner/internal/common"
	"github.com/i474232898/retirement-travel-planner/internal/planner"
	"github.com/i474232898/retirement-travel-planner/internal/store"
	"github.com/i474232898/retirement-travel-planner/internal/travel"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *planner.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/plan", func(c *fiber.Ctx) error {
		var req planRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		plan, err := service.Plan(c.UserContext(), req.Request)
		if err != nil {
			switch {
			case errors.Is(err, planner.ErrNoEngine):
				return fiber.NewError(fiber.StatusServiceUnavailable, err.Error())
			case errors.Is(err, agent.ErrIterationLimit):
				return fiber.NewError(fiber.StatusGatewayTimeout, "planner did not finish within its iteration limit")
			}
			return fiber.NewError(fiber.StatusBadGateway, "reasoning engine failed")
		}

		return c.JSON(newPlanResponse(plan))
	})

	v1.Get("/report", func(c *fiber.Ctx) error {
		cities := common.SplitCities(c.Query("cities"))
		if len(cities) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "cities query parameter is required")
		}

		report, err := service.Report(c.UserContext(), cities)
		if err != nil {
			if errors.Is(err, planner.ErrNoCities) {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to store travel report")
		}
		return c.JSON(newReportResponse(report))
	})

	v1.Get("/reports/latest", func(c *fiber.Ctx) error {
		report, err := service.Latest()
		if err != nil {
			return storeError(err)
		}
		return c.JSON(newReportResponse(report))
	})

	v1.Get("/reports/:id", func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid report id")
		}
		report, err := service.Get(id)
		if err != nil {
			return storeError(err)
		}
		return c.JSON(newReportResponse(report))
	})

	v1.Get("/reports", func(c *fiber.Ctx) error {
		var req rangeQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		reports, err := service.Range(req.From, req.To)
		if err != nil {
			return storeError(err)
		}
		out := make([]reportResponse, 0, len(reports))
		for _, r := range reports {
			out = append(out, newReportResponse(r))
		}
		return c.JSON(fiber.Map{
			"from":    req.From,
			"to":      req.To,
			"reports": out,
		})
	})
}

func storeError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "no travel report found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch travel report")
}

type planRequest struct {
	Request string `json:"request" validate:"required"`
}

type toolCallResponse struct {
	Tool    string `json:"tool"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

type planResponse struct {
	Narrative  string             `json:"narrative"`
	Iterations int                `json:"iterations"`
	ToolCalls  []toolCallResponse `json:"tool_calls"`
}

func newPlanResponse(p agent.Plan) planResponse {
	resp := planResponse{
		Narrative:  p.Narrative,
		Iterations: p.Iterations,
		ToolCalls:  make([]toolCallResponse, 0, len(p.Invocations)),
	}
	for _, inv := range p.Invocations {
		resp.ToolCalls = append(resp.ToolCalls, toolCallResponse{
			Tool:    inv.Result.Tool,
			Success: inv.Result.Success,
			Error:   inv.Result.Error,
		})
	}
	return resp
}

type reportResponse struct {
	ID         uuid.UUID           `json:"id"`
	CreatedAt  time.Time           `json:"created_at"`
	Transcript []string            `json:"transcript"`
	Cities     *travel.CityReports `json:"cities"`
}

func newReportResponse(r *travel.TravelReport) reportResponse {
	return reportResponse{
		ID:         r.ID,
		CreatedAt:  r.CreatedAt,
		Transcript: r.Transcript.Lines(),
		Cities:     r.Cities,
	}
}

// rangeQuery holds query parameters for the report history endpoint.
type rangeQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (q *rangeQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	q.From = from
	q.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
