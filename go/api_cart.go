package shopserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartmapper "github.com/Apurer/flower-shop-api/internal/domains/cart/adapters/http/mapper"
	cartports "github.com/Apurer/flower-shop-api/internal/domains/cart/ports"
)

// CartAPI serves the caller's shopping cart.
type CartAPI struct {
	service cartports.Service
}

func NewCartAPI(service cartports.Service) CartAPI {
	return CartAPI{service: service}
}

// Post /cart
// Adds a product, merging with an existing line of the same size and color
func (api *CartAPI) AddToCart(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload cartmapper.AddRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	view, err := api.service.Add(c.Request.Context(), cartmapper.ToAddInput(principal.UserID, payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Added to cart", cartmapper.FromView(view))
}

// Get /cart
func (api *CartAPI) GetCart(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	view, err := api.service.Get(c.Request.Context(), principal.UserID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Cart fetched", cartmapper.FromView(view))
}

// Patch /cart/:productId
// Sets the quantity of one line
func (api *CartAPI) UpdateCartItem(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	var payload cartmapper.QuantityRequest
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	input := cartmapper.ToQuantityInput(principal.UserID, c.Param("productId"), payload)
	view, err := api.service.UpdateQuantity(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Cart updated", cartmapper.FromView(view))
}

// Delete /cart/:productId?size=&color=
func (api *CartAPI) RemoveCartItem(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	view, err := api.service.RemoveItem(c.Request.Context(), principal.UserID, c.Param("productId"), c.Query("size"), c.Query("color"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Item removed", cartmapper.FromView(view))
}

// Delete /cart
func (api *CartAPI) ClearCart(c *gin.Context) {
	principal, ok := requirePrincipal(c)
	if !ok {
		return
	}
	if err := api.service.Clear(c.Request.Context(), principal.UserID); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Cart cleared")
}
