package customer

import (
	"net/http"
	"net/mail"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"storefront/internal/domain"
	apperrors "storefront/internal/errors"
	"storefront/internal/httpx"
)

type Controller struct {
	service Service
	logger  *zap.Logger
}

func NewController(service Service, logger *zap.Logger) *Controller {
	return &Controller{
		service: service,
		logger:  logger,
	}
}

func (c *Controller) Register(r chi.Router) {
	r.Route("/customers", func(r chi.Router) {
		r.Get("/", c.HandleList)
		r.Post("/", c.HandleCreate)
		r.Get("/{customerId}", c.HandleGet)
		r.Put("/{customerId}", c.HandleUpdate)
		r.Delete("/{customerId}", c.HandleDelete)
	})
}

func (c *Controller) HandleList(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	customers, err := c.service.ListCustomers(r.Context())
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	out := make([]CustomerDTO, 0, len(customers))
	for _, cu := range customers {
		out = append(out, toCustomerDTO(cu))
	}
	httpx.WriteJSON(w, c.logger, http.StatusOK, out)
}

func (c *Controller) HandleGet(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "customerId")
	if !ok {
		return
	}

	cu, err := c.service.GetCustomer(r.Context(), id)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toCustomerDTO(*cu))
}

func (c *Controller) HandleCreate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	cu, ok := c.decode(w, r, traceID)
	if !ok {
		return
	}

	created, err := c.service.CreateCustomer(r.Context(), cu)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusCreated, toCustomerDTO(*created))
}

func (c *Controller) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "customerId")
	if !ok {
		return
	}

	cu, ok := c.decode(w, r, traceID)
	if !ok {
		return
	}
	cu.ID = id

	updated, err := c.service.UpdateCustomer(r.Context(), cu)
	if err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	httpx.WriteJSON(w, c.logger, http.StatusOK, toCustomerDTO(*updated))
}

func (c *Controller) HandleDelete(w http.ResponseWriter, r *http.Request) {
	traceID := httpx.NewTraceID()

	id, ok := httpx.IDParam(w, r, c.logger, traceID, "customerId")
	if !ok {
		return
	}

	if err := c.service.DeleteCustomer(r.Context(), id); err != nil {
		httpx.HandleError(w, c.logger, traceID, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (c *Controller) decode(w http.ResponseWriter, r *http.Request, traceID string) (domain.Customer, bool) {
	var req CustomerRequest
	if !httpx.DecodeJSON(w, r, c.logger, traceID, &req) {
		return domain.Customer{}, false
	}

	if details := validateCustomerRequest(req); len(details) > 0 {
		httpx.WriteValidationError(w, c.logger, traceID, "validation failed", details...)
		return domain.Customer{}, false
	}

	return domain.Customer{
		FirstName: strings.TrimSpace(req.FirstName),
		LastName:  strings.TrimSpace(req.LastName),
		Email:     req.Email,
		Phone:     req.Phone,
		Address:   req.Address,
	}, true
}

func validateCustomerRequest(req CustomerRequest) []apperrors.ValidationDetail {
	var details []apperrors.ValidationDetail

	if strings.TrimSpace(req.FirstName) == "" {
		details = append(details, apperrors.ValidationDetail{Field: "firstName", Message: "firstName is required"})
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email is required"})
	} else if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		details = append(details, apperrors.ValidationDetail{Field: "email", Message: "email must be a valid address"})
	}

	return details
}
