package ginserver

import (
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"

	"hotelops/internal/app/dto"
	pricingapp "hotelops/internal/app/handlers/pricing"
	"hotelops/internal/app/queries"
)

type PricingHandler struct {
	Logger  *slog.Logger
	Queries queries.Bus
}

type quoteRequest struct {
	CheckIn  string `json:"check_in"`
	CheckOut string `json:"check_out"`
}

func (h PricingHandler) Quote(c *gin.Context) {
	var req quoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}
	query := pricingapp.QuoteStayQuery{
		HotelID:    c.Param("hotelId"),
		RoomTypeID: c.Param("roomTypeId"),
		CheckIn:    req.CheckIn,
		CheckOut:   req.CheckOut,
	}
	quote, err := queries.Ask[pricingapp.QuoteStayQuery, dto.StayQuote](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, quote)
}

func (h PricingHandler) Warnings(c *gin.Context) {
	query := pricingapp.PricingWarningsQuery{HotelID: c.Param("hotelId")}
	result, err := queries.Ask[pricingapp.PricingWarningsQuery, dto.PricingWarnings](c.Request.Context(), h.Queries, query)
	if err != nil {
		respondWithError(c, h.Logger, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

var _ PricingHTTP = PricingHandler{}
