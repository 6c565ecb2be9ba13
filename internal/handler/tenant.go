package handler

import (
	"net/http"

	"rentflow-backend/internal/domain"
	"rentflow-backend/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TenantHandler struct {
	Service        service.TenantService
	MaxUploadBytes int64
}

func (h TenantHandler) RegisterRoutes(r chi.Router) {
	r.Get("/tenants", h.list)
	r.Get("/tenants/{id}", h.get)
	r.Post("/tenants", h.create)
	r.Put("/tenants/{id}", h.update)
	r.Post("/tenants/delete", h.delete)
	r.Post("/tenants/undo", h.undo)
}

type tenantRequest struct {
	Name             string           `json:"name"`
	Email            string           `json:"email"`
	Phone            string           `json:"phone"`
	Property         string           `json:"property"`
	Rent             decimal.Decimal  `json:"rent"`
	JoinDate         string           `json:"joinDate"`
	Status           string           `json:"status"`
	AvatarURL        string           `json:"avatarUrl"`
	FatherName       string           `json:"fatherName"`
	Address          string           `json:"address"`
	DateOfBirth      *string          `json:"dateOfBirth"`
	NationalID       string           `json:"nationalId"`
	DepositAmount    *decimal.Decimal `json:"depositAmount"`
	ElectricityMeter string           `json:"electricityMeter"`
	GasMeter         string           `json:"gasMeter"`
	WaterMeter       string           `json:"waterMeter"`
	// Documents nil keeps the stored list on update.
	Documents []string `json:"documents"`
}

func (req tenantRequest) toDomain(id uuid.UUID) (domain.Tenant, error) {
	joined, err := parseDate("joinDate", req.JoinDate)
	if err != nil {
		return domain.Tenant{}, err
	}
	dob, err := parseOptionalDate("dateOfBirth", req.DateOfBirth)
	if err != nil {
		return domain.Tenant{}, err
	}
	return domain.Tenant{
		ID:               id,
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Property:         req.Property,
		Rent:             req.Rent,
		JoinDate:         joined,
		Status:           domain.TenantStatus(req.Status),
		AvatarURL:        req.AvatarURL,
		FatherName:       req.FatherName,
		Address:          req.Address,
		DateOfBirth:      dob,
		NationalID:       req.NationalID,
		DepositAmount:    req.DepositAmount,
		ElectricityMeter: req.ElectricityMeter,
		GasMeter:         req.GasMeter,
		WaterMeter:       req.WaterMeter,
		Documents:        req.Documents,
	}, nil
}

func (h TenantHandler) list(w http.ResponseWriter, r *http.Request) {
	items, err := h.Service.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h TenantHandler) get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, err := h.Service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (h TenantHandler) create(w http.ResponseWriter, r *http.Request) {
	t, files, ok := h.readTenant(w, r, uuid.Nil)
	if !ok {
		return
	}
	created, err := h.Service.Create(r.Context(), t, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h TenantHandler) update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}
	t, files, ok := h.readTenant(w, r, id)
	if !ok {
		return
	}
	res, err := h.Service.Update(r.Context(), t, files)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h TenantHandler) delete(w http.ResponseWriter, r *http.Request) {
	softDelete(w, r, h.Service.Delete)
}

func (h TenantHandler) undo(w http.ResponseWriter, r *http.Request) {
	restore(w, r, h.Service.Undo)
}

// readTenant decodes the tenant and its files. It writes the error response
// itself and reports false when the request cannot be used.
func (h TenantHandler) readTenant(w http.ResponseWriter, r *http.Request, id uuid.UUID) (domain.Tenant, service.TenantFiles, bool) {
	var req tenantRequest
	form, err := decodeForm(w, r, h.MaxUploadBytes, &req)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return domain.Tenant{}, service.TenantFiles{}, false
	}
	t, err := req.toDomain(id)
	if err != nil {
		writeServiceError(w, err)
		return domain.Tenant{}, service.TenantFiles{}, false
	}
	var files service.TenantFiles
	if files.Avatar, err = formFile(form, "avatar"); err == nil {
		files.Documents, err = formFiles(form, "documents")
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid file: "+err.Error())
		return domain.Tenant{}, service.TenantFiles{}, false
	}
	return t, files, true
}
