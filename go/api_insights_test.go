package shopserver

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	chatmapper "github.com/Apurer/flower-shop-api/internal/domains/chat/adapters/http/mapper"
	chatports "github.com/Apurer/flower-shop-api/internal/domains/chat/ports"
	insightsmapper "github.com/Apurer/flower-shop-api/internal/domains/insights/adapters/http/mapper"
	insightsports "github.com/Apurer/flower-shop-api/internal/domains/insights/ports"
	"github.com/Apurer/flower-shop-api/internal/platform/auth"
)

func TestInsightsAPI_PopularIsPublic(t *testing.T) {
	srv := newTestServer(t)
	srv.ml.products = []insightsports.Product{{ID: "rose", Name: "Rose", Price: 150000}}

	rec := srv.do(t, http.MethodGet, "/popular", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	products := decode[dataEnvelope[[]insightsmapper.Product]](t, rec).Data
	require.Len(t, products, 1)
	assert.Equal(t, "rose", products[0].ID)
}

func TestInsightsAPI_OverviewReportsFailedParts(t *testing.T) {
	srv := newTestServer(t)
	srv.ml.products = []insightsports.Product{{ID: "tulip", Name: "Tulip", Price: 90000}}
	srv.ml.forecastErr = errors.New("model not trained")
	staff := srv.token(t, "staff-1", auth.RoleStaff)

	rec := srv.do(t, http.MethodGet, "/insights", staff, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	overview := decode[dataEnvelope[insightsmapper.Overview]](t, rec).Data
	assert.Len(t, overview.Popular, 1)
	assert.Empty(t, overview.Forecast)
	assert.Contains(t, overview.Errors, "forecast")
	assert.JSONEq(t, `{"strategy":"bundle roses with cards"}`, string(overview.BusinessStrategy))

	rec = srv.do(t, http.MethodGet, "/forecast", staff, nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestInsightsAPI_Chatbot(t *testing.T) {
	srv := newTestServer(t)
	customer := srv.token(t, "customer-1", auth.RoleCustomer)

	rec := srv.do(t, http.MethodPost, "/chatbot", customer, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = srv.do(t, http.MethodPost, "/chatbot", customer, map[string]string{"prompt": "what flowers for a wedding?"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Try our peonies.", decode[dataEnvelope[insightsmapper.ChatReply]](t, rec).Data.Reply)
}

func TestChatAPI_RoomHistory(t *testing.T) {
	srv := newTestServer(t)
	customer := srv.token(t, "customer-1", auth.RoleCustomer)

	_, err := srv.chatSvc.Send(context.Background(), chatports.SendInput{RoomID: "room-1", SenderID: "customer-1", Content: "hello"})
	require.NoError(t, err)
	_, err = srv.chatSvc.Send(context.Background(), chatports.SendInput{RoomID: "room-2", SenderID: "customer-2", Content: "other room"})
	require.NoError(t, err)

	rec := srv.do(t, http.MethodGet, "/messages/room-1", customer, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	messages := decode[dataEnvelope[[]chatmapper.Message]](t, rec).Data
	require.Len(t, messages, 1)
	assert.Equal(t, "hello", messages[0].Content)
}
