package shopserver

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	insightsmapper "github.com/Apurer/flower-shop-api/internal/domains/insights/adapters/http/mapper"
	insightsports "github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	"github.com/Apurer/flower-shop-api/internal/shared/pagination"
)

// InsightsAPI proxies the recommendation and forecasting service.
type InsightsAPI struct {
	service insightsports.Service
}

func NewInsightsAPI(service insightsports.Service) InsightsAPI {
	return InsightsAPI{service: service}
}

// Get /recommend/:userId
func (api *InsightsAPI) Recommend(c *gin.Context) {
	products, err := api.service.Recommend(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Recommendations fetched", insightsmapper.FromProducts(products))
}

// Get /popular
func (api *InsightsAPI) Popular(c *gin.Context) {
	products, err := api.service.Popular(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Popular products fetched", insightsmapper.FromProducts(products))
}

// Get /forecast
func (api *InsightsAPI) Forecast(c *gin.Context) {
	products, err := api.service.Forecast(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Forecast fetched", insightsmapper.FromProducts(products))
}

// Get /business-strategy
func (api *InsightsAPI) BusinessStrategy(c *gin.Context) {
	strategy, err := api.service.BusinessStrategy(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Business strategy fetched", strategy)
}

// Get /predicted-leads?page=&limit=
func (api *InsightsAPI) PredictedLeads(c *gin.Context) {
	page, _ := strconv.Atoi(c.Query("page"))
	limit, _ := strconv.Atoi(c.Query("limit"))
	q := pagination.Query{Page: page, Limit: limit}.Normalize()
	leads, err := api.service.PredictedLeads(c.Request.Context(), q.Page, q.Limit)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Predicted leads fetched", leads)
}

// Post /chatbot
func (api *InsightsAPI) Chatbot(c *gin.Context) {
	var payload insightsmapper.ChatRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	reply, err := api.service.Chat(c.Request.Context(), payload.Prompt)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Reply generated", insightsmapper.ChatReply{Reply: reply})
}

// Get /insights
// Fetches the dashboard widgets concurrently; failed parts are listed under errors.
func (api *InsightsAPI) Overview(c *gin.Context) {
	overview, err := api.service.Overview(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Insights fetched", insightsmapper.FromOverview(overview))
}
