package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/shadownet/contract-desk/internal/api/middleware"
	"github.com/shadownet/contract-desk/internal/core/domain"
	"github.com/shadownet/contract-desk/internal/core/ports"
)

// ContractHandler exposes the contract workflow: public submission, admin
// management, and the client dashboard listing.
type ContractHandler struct {
	service ports.ContractService
}

func NewContractHandler(service ports.ContractService) *ContractHandler {
	return &ContractHandler{service: service}
}

type createContractRequest struct {
	Target  string `json:"target"  validate:"required"`
	Type    string `json:"type"    validate:"required,oneof=target_infiltration data_extraction account_takeover network_breach"`
	Details string `json:"details" validate:"required"`
	Bounty  string `json:"bounty"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pending reviewing accepted in_progress completed rejected"`
}

// Create accepts a contract submission. The route is public; when the caller
// is authenticated the contract is attached to their account.
//
// @Summary      Submit a contract
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        body  body      createContractRequest  true  "Contract details"
// @Success      201   {object}  domain.Contract
// @Failure      400   {object}  map[string]string
// @Router       /contracts [post]
func (h *ContractHandler) Create(c echo.Context) error {
	var req createContractRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	var userID *string
	if user := middleware.CurrentUser(c); user != nil {
		userID = &user.ID
	}

	contract, err := h.service.Create(c.Request().Context(), ports.CreateContractInput{
		Target:  req.Target,
		Type:    domain.ContractType(req.Type),
		Details: req.Details,
		Bounty:  req.Bounty,
		UserID:  userID,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, contract)
}

// List returns every contract, newest first. Admin only.
//
// @Summary      List all contracts
// @Tags         contracts
// @Produce      json
// @Success      200  {array}   domain.Contract
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /contracts [get]
func (h *ContractHandler) List(c echo.Context) error {
	contracts, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contracts)
}

// Get returns one contract. Admin sessions see everything, clients only
// their own.
//
// @Summary      Get a contract
// @Tags         contracts
// @Produce      json
// @Param        id   path      string  true  "Contract id"
// @Success      200  {object}  domain.Contract
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /contracts/{id} [get]
func (h *ContractHandler) Get(c echo.Context) error {
	user := middleware.CurrentUser(c)
	contract, err := h.service.Get(c.Request().Context(), c.Param("id"), ports.Requester{
		UserID:  user.ID,
		IsAdmin: middleware.IsAdminSession(c),
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}

// UpdateStatus applies a new status. Admin only; any status value from the
// closed enum is accepted regardless of the current one.
//
// @Summary      Update contract status
// @Tags         contracts
// @Accept       json
// @Produce      json
// @Param        id    path      string               true  "Contract id"
// @Param        body  body      updateStatusRequest  true  "New status"
// @Success      200   {object}  domain.Contract
// @Failure      400   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /contracts/{id}/status [patch]
func (h *ContractHandler) UpdateStatus(c echo.Context) error {
	var req updateStatusRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	contract, err := h.service.UpdateStatus(c.Request().Context(), c.Param("id"), domain.ContractStatus(req.Status))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contract)
}

// Delete removes a contract permanently. Admin only.
//
// @Summary      Delete a contract
// @Tags         contracts
// @Param        id  path  string  true  "Contract id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /contracts/{id} [delete]
func (h *ContractHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the caller's own contracts.
//
// @Summary      List own contracts
// @Tags         contracts
// @Produce      json
// @Success      200  {array}   domain.Contract
// @Failure      401  {object}  map[string]string
// @Router       /client/contracts [get]
func (h *ContractHandler) ListMine(c echo.Context) error {
	user := middleware.CurrentUser(c)
	contracts, err := h.service.ListByOwner(c.Request().Context(), user.ID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, contracts)
}
