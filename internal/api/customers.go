package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/erazemk/boardcamp/internal/db"
	"github.com/erazemk/boardcamp/internal/model"
	"github.com/erazemk/boardcamp/internal/store"
	"github.com/erazemk/boardcamp/internal/validate"
)

// CustomersHandler handles customer endpoints.
type CustomersHandler struct {
	DB  *db.Conn
	Now func() time.Time
}

type customerRequest struct {
	Name     string `json:"name" validate:"notblank"`
	Phone    string `json:"phone" validate:"digits,min=10,max=11"`
	CPF      string `json:"cpf" validate:"digits,len=11"`
	Birthday string `json:"birthday" validate:"isodate"`
}

// customer validates the request and converts it. Birthdays after today are
// rejected.
func (req *customerRequest) customer(today model.Date) (model.Customer, error) {
	if err := validate.Struct(req); err != nil {
		return model.Customer{}, err
	}
	birthday, err := model.ParseDate(req.Birthday)
	if err != nil {
		return model.Customer{}, validate.Field("birthday", "isodate")
	}
	if birthday.After(today) {
		return model.Customer{}, validate.Field("birthday", "notfuture")
	}
	return model.Customer{
		Name:     req.Name,
		Phone:    req.Phone,
		CPF:      req.CPF,
		Birthday: birthday,
	}, nil
}

// List handles GET /customers. The cpf parameter filters by CPF prefix.
func (h *CustomersHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts, err := listOptions(q)
	if err != nil {
		writeError(w, r, err, "list customers")
		return
	}

	customers, err := store.ListCustomers(r.Context(), h.DB, q.Get("cpf"), opts)
	if err != nil {
		writeError(w, r, err, "list customers")
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	jsonResponse(w, http.StatusOK, customers)
}

// Get handles GET /customers/{id}. The customer is wrapped in an array of one.
func (h *CustomersHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}

	customer, err := store.GetCustomer(r.Context(), h.DB, id)
	if err != nil {
		writeError(w, r, err, "get customer")
		return
	}
	if customer == nil {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}

	jsonResponse(w, http.StatusOK, []model.Customer{*customer})
}

// Create handles POST /customers.
func (h *CustomersHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, validate.Field("body", "json"), "create customer")
		return
	}

	c, err := req.customer(model.DateOf(h.Now()))
	if err != nil {
		writeError(w, r, err, "create customer")
		return
	}

	customer, err := store.CreateCustomer(r.Context(), h.DB, c)
	if err != nil {
		writeError(w, r, err, "create customer")
		return
	}

	slog.Info("customer created", "id", customer.ID)
	jsonResponse(w, http.StatusCreated, customer)
}

// Update handles PUT /customers/{id}. Every field is replaced.
func (h *CustomersHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r)
	if !ok {
		jsonError(w, http.StatusNotFound, "customer not found")
		return
	}

	var req customerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, validate.Field("body", "json"), "update customer")
		return
	}

	c, err := req.customer(model.DateOf(h.Now()))
	if err != nil {
		writeError(w, r, err, "update customer")
		return
	}
	c.ID = id

	if err := store.UpdateCustomer(r.Context(), h.DB, c); err != nil {
		writeError(w, r, err, "update customer")
		return
	}

	slog.Info("customer updated", "id", id)
	jsonResponse(w, http.StatusOK, c)
}
