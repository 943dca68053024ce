package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/media"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/notify"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
)

const (
	searchLimit         = 50
	profileReviewsLimit = 5
	avatarFormField     = "avatar"
)

type BarberHandler struct {
	db        *gorm.DB
	avatars   *media.Avatars
	dashboard *repository.DashboardGormRepository
}

func NewBarberHandler(db *gorm.DB, avatars *media.Avatars) *BarberHandler {
	return &BarberHandler{
		db:        db,
		avatars:   avatars,
		dashboard: repository.NewDashboardGormRepository(db),
	}
}

// --------- Requests ---------

type UpdateBarberRequest struct {
	Name           *string `json:"name,omitempty"`
	ShopName       *string `json:"shop_name,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Bio            *string `json:"bio,omitempty"`
	Specialization *string `json:"specialization,omitempty"`
	Address        *string `json:"shop_address,omitempty"`
	City           *string `json:"city,omitempty"`
	State          *string `json:"state,omitempty"`
	ZipCode        *string `json:"zip_code,omitempty"`
	Timezone       *string `json:"timezone,omitempty"`
}

// --------- Responses ---------

type BarberProfile struct {
	models.Barber
	Reviews []models.Review     `json:"reviews"`
	Contact notify.ContactLinks `json:"contact"`
}

// ======================================================
// PUBLIC
// ======================================================

// Search matches location against city, state, address, name and
// specialization.
func (h *BarberHandler) Search(c *gin.Context) {
	location := strings.TrimSpace(c.Query("location"))

	q := h.db.WithContext(c.Request.Context()).Model(&models.Barber{})
	if location != "" {
		like := "%" + location + "%"
		q = q.Where(
			"city ILIKE ? OR state ILIKE ? OR address ILIKE ? OR name ILIKE ? OR shop_name ILIKE ? OR specialization ILIKE ?",
			like, like, like, like, like, like,
		)
	}

	var barbers []models.Barber
	if err := q.
		Order("average_rating DESC, review_count DESC, id ASC").
		Limit(searchLimit).
		Find(&barbers).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, barbers)
}

func (h *BarberHandler) Profile(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	db := h.db.WithContext(c.Request.Context())

	var barber models.Barber
	if err := db.
		Preload("Services", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("price ASC")
		}).
		First(&barber, id).Error; err != nil {

		httperr.Respond(c, notFoundOr(err, "barber_not_found"))
		return
	}

	var reviews []models.Review
	if err := db.
		Preload("Client").
		Where("barber_id = ?", id).
		Order("created_at DESC").
		Limit(profileReviewsLimit).
		Find(&reviews).Error; err != nil {

		httperr.Respond(c, err)
		return
	}
	if reviews == nil {
		reviews = []models.Review{}
	}

	httpresp.OK(c, BarberProfile{
		Barber:  barber,
		Reviews: reviews,
		Contact: notify.LinksFor(barber.Phone, barber.ShopName),
	})
}

func (h *BarberHandler) Services(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	var services []models.Service
	if err := h.db.WithContext(c.Request.Context()).
		Where("barber_id = ?", id).
		Order("price ASC").
		Find(&services).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, services)
}

func (h *BarberHandler) Reviews(c *gin.Context) {
	id, ok := uintParam(c, "id")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	var reviews []models.Review
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Client").
		Where("barber_id = ?", id).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, reviews)
}

// ======================================================
// ME
// ======================================================

func (h *BarberHandler) GetMe(c *gin.Context) {
	barber, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, barber)
}

func (h *BarberHandler) UpdateMe(c *gin.Context) {
	barber, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateBarberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Timezone != nil {
		tz := strings.TrimSpace(*req.Timezone)
		if !timezone.IsValid(tz) {
			httperr.Respond(c, httperr.InvalidInput("invalid_timezone"))
			return
		}
		barber.Timezone = tz
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.Respond(c, httperr.InvalidInput("invalid_name"))
			return
		}
		barber.Name = name
	}

	setTrimmed(&barber.ShopName, req.ShopName)
	setTrimmed(&barber.Phone, req.Phone)
	setTrimmed(&barber.Bio, req.Bio)
	setTrimmed(&barber.Specialization, req.Specialization)
	setTrimmed(&barber.Address, req.Address)
	setTrimmed(&barber.City, req.City)
	setTrimmed(&barber.State, req.State)
	setTrimmed(&barber.ZipCode, req.ZipCode)

	if err := h.db.WithContext(c.Request.Context()).Save(barber).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, barber)
}

func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	barber, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	file, err := c.FormFile(avatarFormField)
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid_image"))
		return
	}

	f, err := file.Open()
	if err != nil {
		httperr.Respond(c, httperr.InvalidInput("invalid_image"))
		return
	}
	defer f.Close()

	url, err := h.avatars.Upload(c.Request.Context(), barber.ID, f)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Model(barber).
		Update("avatar_url", url).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"avatar_url": url})
}

func (h *BarberHandler) Dashboard(c *gin.Context) {
	barber, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	today := timezone.StartOfDay(timezone.NowIn(barber.Timezone))
	stats, err := h.dashboard.BarberStats(c.Request.Context(), barber.ID, today)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}

func (h *BarberHandler) load(c *gin.Context) (*models.Barber, error) {
	var barber models.Barber
	if err := h.db.WithContext(c.Request.Context()).
		First(&barber, currentUserID(c)).Error; err != nil {
		return nil, notFoundOr(err, "barber_not_found")
	}
	return &barber, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
