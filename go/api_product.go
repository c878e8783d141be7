package shopserver

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	catalogmapper "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/http/mapper"
	catalogdomain "github.com/Apurer/flower-shop-api/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/flower-shop-api/internal/domains/catalog/ports"
)

// ProductAPI exposes the catalog.
type ProductAPI struct {
	service catalogports.Service
}

// NewProductAPI creates a ProductAPI backed by the catalog service.
func NewProductAPI(service catalogports.Service) ProductAPI {
	return ProductAPI{service: service}
}

// Get /products
// Lists products. Shoppers only see active products that are not in the trash.
func (api *ProductAPI) ListProducts(c *gin.Context) {
	query := catalogports.ListQuery{Page: pageQuery(c), Q: strings.TrimSpace(c.Query("q"))}
	if raw := strings.TrimSpace(c.Query("status")); raw != "" {
		status, err := catalogdomain.ParseStatus(raw)
		if err != nil {
			respondBadRequest(c, err)
			return
		}
		query.Status = &status
	}
	deleted, err := optionalBool(c, "deleted")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	query.Deleted = deleted

	if principal, _ := principalFrom(c); !isStaff(principal) {
		active := catalogdomain.StatusActive
		notDeleted := false
		query.Status = &active
		query.Deleted = &notDeleted
	}

	page, err := api.service.List(c.Request.Context(), query)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondPage(c, "Products fetched", page, func(p *catalogdomain.Product) catalogmapper.Product {
		return catalogmapper.FromDomain(p)
	})
}

// Get /product/:id
// Finds a product by ID
func (api *ProductAPI) GetProduct(c *gin.Context) {
	product, err := api.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	if principal, _ := principalFrom(c); !isStaff(principal) && !product.Purchasable() {
		respondServiceError(c, catalogports.ErrNotFound)
		return
	}
	respondData(c, http.StatusOK, "Product fetched", catalogmapper.FromDomain(product))
}

// Post /product
// Adds a product to the catalog
func (api *ProductAPI) CreateProduct(c *gin.Context) {
	var payload catalogmapper.ProductForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Create(c.Request.Context(), catalogmapper.ToCreateInput(payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, "Product created", catalogmapper.FromDomain(product))
}

// Put /product/:id
// Updates the fields present in the body
func (api *ProductAPI) UpdateProduct(c *gin.Context) {
	var payload catalogmapper.ProductForm
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	product, err := api.service.Update(c.Request.Context(), catalogmapper.ToUpdateInput(c.Param("id"), payload))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Product updated", catalogmapper.FromDomain(product))
}

// Delete /product/:id
// Removes a product permanently
func (api *ProductAPI) DeleteProduct(c *gin.Context) {
	if err := api.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondServiceError(c, err)
		return
	}
	respondMessage(c, "Product deleted")
}

// Patch /product/:id?deleted=true|false
// Moves a product into or out of the trash
func (api *ProductAPI) SoftDeleteProduct(c *gin.Context) {
	deleted, err := optionalBool(c, "deleted")
	if err != nil {
		respondBadRequest(c, err)
		return
	}
	flag := deleted == nil || *deleted
	product, err := api.service.SoftDelete(c.Request.Context(), c.Param("id"), flag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	message := "Product moved to trash"
	if !flag {
		message = "Product restored"
	}
	respondData(c, http.StatusOK, message, catalogmapper.FromDomain(product))
}

// Patch /product-delete-multiple
// Moves several products into or out of the trash
func (api *ProductAPI) SoftDeleteProducts(c *gin.Context) {
	var payload catalogmapper.SoftDeleteMany
	if err := c.ShouldBindJSON(&payload); err != nil {
		respondBadRequest(c, err)
		return
	}
	flag := payload.Deleted == nil || *payload.Deleted
	modified, err := api.service.SoftDeleteMany(c.Request.Context(), payload.IDs, flag)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, "Products updated", gin.H{"modified": modified})
}
