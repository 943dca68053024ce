package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/BruksfildServices01/barberbook/internal/httperr"
	"github.com/BruksfildServices01/barberbook/internal/httpresp"
	"github.com/BruksfildServices01/barberbook/internal/infra/repository"
	"github.com/BruksfildServices01/barberbook/internal/models"
	"github.com/BruksfildServices01/barberbook/internal/timezone"
	ucClient "github.com/BruksfildServices01/barberbook/internal/usecase/client"
)

type ClientHandler struct {
	db        *gorm.DB
	reviews   *ucClient.CreateReview
	favorites *ucClient.Favorites
	dashboard *repository.DashboardGormRepository
}

func NewClientHandler(
	db *gorm.DB,
	reviews *ucClient.CreateReview,
	favorites *ucClient.Favorites,
) *ClientHandler {
	return &ClientHandler{
		db:        db,
		reviews:   reviews,
		favorites: favorites,
		dashboard: repository.NewDashboardGormRepository(db),
	}
}

// --------- Requests ---------

type UpdateClientRequest struct {
	Name  *string `json:"name,omitempty"`
	Phone *string `json:"phone,omitempty"`
	City  *string `json:"city,omitempty"`
}

type CreateReviewRequest struct {
	BookingID uint   `json:"booking_id" binding:"required"`
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
}

type AddFavoriteRequest struct {
	BarberID uint `json:"barber_id" binding:"required"`
}

// ======================================================
// PROFILE
// ======================================================

func (h *ClientHandler) GetProfile(c *gin.Context) {
	client, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.OK(c, client)
}

func (h *ClientHandler) UpdateProfile(c *gin.Context) {
	client, err := h.load(c)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			httperr.Respond(c, httperr.InvalidInput("invalid_name"))
			return
		}
		client.Name = name
	}
	setTrimmed(&client.Phone, req.Phone)
	setTrimmed(&client.City, req.City)

	if err := h.db.WithContext(c.Request.Context()).Save(client).Error; err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, client)
}

func (h *ClientHandler) Dashboard(c *gin.Context) {
	today := timezone.StartOfDay(timezone.Now())

	stats, err := h.dashboard.ClientStats(c.Request.Context(), currentUserID(c), today)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, stats)
}

// ======================================================
// REVIEWS
// ======================================================

func (h *ClientHandler) CreateReview(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	review, err := h.reviews.Execute(c.Request.Context(), ucClient.CreateReviewInput{
		ClientID:  currentUserID(c),
		BookingID: req.BookingID,
		Rating:    req.Rating,
		Comment:   req.Comment,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, review)
}

func (h *ClientHandler) ListReviews(c *gin.Context) {
	var reviews []models.Review
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barber").
		Where("client_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, reviews)
}

// ======================================================
// FAVORITES
// ======================================================

func (h *ClientHandler) ListFavorites(c *gin.Context) {
	var favorites []models.Favorite
	if err := h.db.WithContext(c.Request.Context()).
		Preload("Barber").
		Where("client_id = ?", currentUserID(c)).
		Order("created_at DESC").
		Find(&favorites).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, favorites)
}

// AddFavorite answers 201 the first time and 200 when the barber was
// already a favorite.
func (h *ClientHandler) AddFavorite(c *gin.Context) {
	var req AddFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	created, err := h.favorites.Add(c.Request.Context(), currentUserID(c), req.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	body := gin.H{"barber_id": req.BarberID, "favorite": true}
	if !created {
		httpresp.OK(c, body)
		return
	}
	httpresp.Created(c, body)
}

func (h *ClientHandler) RemoveFavorite(c *gin.Context) {
	barberID, ok := uintParam(c, "barberId")
	if !ok {
		httperr.Respond(c, httperr.NotFound("barber_not_found"))
		return
	}

	if err := h.db.WithContext(c.Request.Context()).
		Where("client_id = ? AND barber_id = ?", currentUserID(c), barberID).
		Delete(&models.Favorite{}).Error; err != nil {

		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"barber_id": barberID, "favorite": false})
}

func (h *ClientHandler) load(c *gin.Context) (*models.Client, error) {
	var client models.Client
	if err := h.db.WithContext(c.Request.Context()).
		First(&client, currentUserID(c)).Error; err != nil {
		return nil, notFoundOr(err, "client_not_found")
	}
	return &client, nil
}
