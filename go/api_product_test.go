package shopserver

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	catalogmapper "github.com/Apurer/flower-shop-api/internal/domains/catalog/adapters/http/mapper"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
)

func TestProductAPI_CreateValidatesInput(t *testing.T) {
	srv := newTestServer(t)
	staff := srv.token(t, "staff-1", auth.RoleStaff)

	rec := srv.do(t, http.MethodPost, "/product", staff, map[string]any{
		"nameProduct": "Rose",
		"price":       0,
		"images":      []map[string]string{{"url": "https://cdn.example/rose.jpg"}},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "Validation Error", decode[problemBody](t, rec).Title)
}

func TestProductAPI_ShoppersOnlySeeActiveProducts(t *testing.T) {
	srv := newTestServer(t)
	staff := srv.token(t, "staff-1", auth.RoleStaff)

	roseID := srv.createProduct(t, "rose", 150000)
	tulipID := srv.createProduct(t, "tulip", 90000)

	rec := srv.do(t, http.MethodPatch, "/product/"+tulipID+"?deleted=true", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.True(t, decode[dataEnvelope[catalogmapper.Product]](t, rec).Data.Deleted)

	rec = srv.do(t, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[docsEnvelope[catalogmapper.Product]](t, rec)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, roseID, page.Docs[0].ID)
	assert.EqualValues(t, 1, page.TotalDocs)

	rec = srv.do(t, http.MethodGet, "/product/"+tulipID, "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = srv.do(t, http.MethodGet, "/products?deleted=true", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page = decode[docsEnvelope[catalogmapper.Product]](t, rec)
	require.Len(t, page.Docs, 1)
	assert.Equal(t, tulipID, page.Docs[0].ID)

	rec = srv.do(t, http.MethodPatch, "/product-delete-multiple", staff, map[string]any{
		"id":      []string{tulipID},
		"deleted": false,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = srv.do(t, http.MethodGet, "/products", "", nil)
	assert.EqualValues(t, 2, decode[docsEnvelope[catalogmapper.Product]](t, rec).TotalDocs)
}

func TestProductAPI_PaginationEnvelope(t *testing.T) {
	srv := newTestServer(t)
	for _, name := range []string{"a", "b", "c"} {
		srv.createProduct(t, name, 10000)
	}

	rec := srv.do(t, http.MethodGet, "/products?page=2&limit=2", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[docsEnvelope[catalogmapper.Product]](t, rec)
	assert.True(t, page.Success)
	assert.Len(t, page.Docs, 1)
	assert.EqualValues(t, 3, page.TotalDocs)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 3, page.PagingCounter)
	assert.True(t, page.HasPrevPage)
	assert.False(t, page.HasNextPage)
	require.NotNil(t, page.PrevPage)
	assert.Equal(t, 1, *page.PrevPage)
	assert.Nil(t, page.NextPage)
}

func TestProductAPI_UpdateAndDelete(t *testing.T) {
	srv := newTestServer(t)
	staff := srv.token(t, "staff-1", auth.RoleStaff)
	id := srv.createProduct(t, "lily", 120000)

	rec := srv.do(t, http.MethodPut, "/product/"+id, staff, map[string]any{"price": 135000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	updated := decode[dataEnvelope[catalogmapper.Product]](t, rec).Data
	assert.EqualValues(t, 135000, updated.Price)
	assert.Equal(t, "lily", updated.Name)

	rec = srv.do(t, http.MethodDelete, "/product/"+id, staff, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = srv.do(t, http.MethodGet, "/product/"+id, staff, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
