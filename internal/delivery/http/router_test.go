package http

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"belezure-api/config"
	"belezure-api/internal/delivery/http/handler"
	"belezure-api/internal/delivery/http/middleware"
	"belezure-api/internal/domain/entity"
	"belezure-api/internal/infrastructure/mail"
	"belezure-api/internal/infrastructure/storage"
	"belezure-api/internal/repository"
	"belezure-api/internal/service"
	"belezure-api/internal/testutil"
	"belezure-api/internal/usecase"
	"belezure-api/pkg/jwt"
	"belezure-api/pkg/validator"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type apiFixture struct {
	t      *testing.T
	db     *gorm.DB
	router *mux.Router
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	db := testutil.NewTestDB(t)
	_, redisClient := testutil.NewTestRedis(t)
	log := testutil.NewTestLogger()
	v := validator.NewValidator()

	jwtService := jwt.NewJWTService(config.JWTConfig{
		Secret:        "test-secret",
		AccessExpiry:  15 * time.Minute,
		RefreshExpiry: time.Hour,
	})

	identityRepo := repository.NewIdentityRepository()
	userRepo := repository.NewUserRepository()
	addressRepo := repository.NewAddressRepository()
	profileRepo := repository.NewProviderProfileRepository()
	categoryRepo := repository.NewCategoryRepository()
	serviceRepo := repository.NewServiceRepository()
	reviewRepo := repository.NewReviewRepository()
	ledgerRepo := repository.NewAvailabilityLedgerRepository()
	bookingRepo := repository.NewBookingRepository()

	cache := service.NewSlotCacheService(db, redisClient, log, ledgerRepo, time.UTC)
	t.Cleanup(cache.Stop)
	audit := service.NewAuditService(db, log, repository.NewAuditLogRepository())
	images := service.NewImageService(storage.NewMockBlobStore(), log)
	notifications := service.NewNotificationService(db, log, mail.NewMailer(config.MailConfig{}, log), bookingRepo, userRepo)

	identity := usecase.NewIdentityGateway(db, log, identityRepo)
	availability := usecase.NewAvailabilityUsecase(db, log, ledgerRepo, bookingRepo, audit, cache)
	booking := usecase.NewBookingUsecase(db, log, time.UTC, availability, cache, serviceRepo, userRepo, bookingRepo, notifications)

	r := NewRouter(
		handler.NewAuthHandler(
			usecase.NewAuthUsecase(db, log, identity, userRepo, addressRepo, profileRepo, audit, images, jwtService, redisClient),
			usecase.NewRegistrationUsecase(db, log, v, identity, userRepo, addressRepo, profileRepo, audit, images),
			v,
		),
		handler.NewCatalogHandler(usecase.NewCatalogUsecase(db, log, serviceRepo, categoryRepo, profileRepo, userRepo, addressRepo, reviewRepo, audit, images), v),
		handler.NewAvailabilityHandler(availability, booking, v),
		handler.NewBookingHandler(booking, v),
		handler.NewServiceHandler(usecase.NewServiceUsecase(db, log, serviceRepo, categoryRepo, profileRepo, audit, images), v),
		handler.NewUploadHandler(usecase.NewUploadUsecase(log, images)),
		handler.NewAuditLogHandler(usecase.NewAuditLogUsecase(log, audit)),
		middleware.NewAuthMiddleware(jwtService, redisClient, log),
		middleware.NewCORSMiddleware(),
		middleware.NewRequestMiddleware(log, 5*time.Second),
	)

	return &apiFixture{t: t, db: db, router: r.Setup()}
}

func (f *apiFixture) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	f.t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(f.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// data decodes the "data" member of a success envelope into out
func (f *apiFixture) data(rec *httptest.ResponseRecorder, out interface{}) {
	f.t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(f.t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.NoError(f.t, json.Unmarshal(envelope.Data, out))
}

func registrationBody(email, userType string) map[string]interface{} {
	personal := map[string]interface{}{
		"name":      "Ana Souza",
		"email":     email,
		"password":  "secret123",
		"cpf":       "529.982.247-25",
		"phone":     "11999990000",
		"gender":    "female",
		"user_type": userType,
	}
	if userType == "provider" {
		personal["provider"] = map[string]interface{}{
			"trade_name": "Studio Ana",
			"specialty":  "Manicure",
			"field":      "Unhas",
		}
	}
	return map[string]interface{}{
		"personal": personal,
		"address": map[string]interface{}{
			"postal_code": "01310-100",
			"city":        "São Paulo",
			"state":       "SP",
			"district":    "Bela Vista",
			"street":      "Av. Paulista",
			"number":      "1000",
		},
	}
}

type signedIn struct {
	ID    string
	Token string
}

func (f *apiFixture) signUp(email, userType string) signedIn {
	f.t.Helper()

	rec := f.do(http.MethodPost, "/api/v1/auth/register", "", registrationBody(email, userType))
	require.Equal(f.t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": email, "password": "secret123"})
	require.Equal(f.t, http.StatusOK, rec.Code, rec.Body.String())

	var tokens struct {
		AccessToken string `json:"access_token"`
		UserID      string `json:"user_id"`
	}
	f.data(rec, &tokens)
	return signedIn{ID: tokens.UserID, Token: tokens.AccessToken}
}

func TestHealth(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPreflight(t *testing.T) {
	f := newAPIFixture(t)

	rec := f.do(http.MethodOptions, "/api/v1/provider/availability/2030-05-01", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PATCH")
}

func TestRegistrationEndpoints(t *testing.T) {
	f := newAPIFixture(t)

	body := registrationBody("ana@example.com", "provider")
	rec := f.do(http.MethodPost, "/api/v1/auth/register/validate", "", body["personal"])
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	bad := registrationBody("ana@example.com", "client")
	bad["personal"].(map[string]interface{})["cpf"] = "123.456.789-00"
	rec = f.do(http.MethodPost, "/api/v1/auth/register", "", bad)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "CPF")

	rec = f.do(http.MethodPost, "/api/v1/auth/register", "", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/auth/register", "", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"email": "ana@example.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthGuards(t *testing.T) {
	f := newAPIFixture(t)
	provider := f.signUp("ana@example.com", "provider")
	client := f.signUp("bia@example.com", "client")

	rec := f.do(http.MethodGet, "/api/v1/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/auth/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/provider/services", client.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/bookings", provider.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/auth/me", client.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/auth/logout", client.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/auth/me", client.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestBookingJourney(t *testing.T) {
	f := newAPIFixture(t)
	category := testutil.SeedCategory(t, f.db, "Unhas")
	provider := f.signUp("ana@example.com", "provider")
	first := f.signUp("bia@example.com", "client")
	second := f.signUp("caio@example.com", "client")
	date := testutil.FutureDate(time.UTC, 2)

	rec := f.do(http.MethodPost, "/api/v1/provider/services", provider.Token, map[string]interface{}{
		"description": "Manicure completa",
		"category_id": category.ID,
		"price":       "45.00",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var svc struct {
		ID string `json:"id"`
	}
	f.data(rec, &svc)

	rec = f.do(http.MethodPut, "/api/v1/provider/availability/"+date, provider.Token, map[string]interface{}{
		"slots": []string{"11:00", "9:30", "10:00"},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPut, "/api/v1/provider/availability/"+date, provider.Token, map[string]interface{}{
		"slots":            []string{"10:00"},
		"expected_version": 0,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = f.do(http.MethodPatch, "/api/v1/provider/availability/"+date+"/slots/2", provider.Token, map[string]interface{}{
		"label": "12:00",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/providers/"+provider.ID+"/availability?date="+date, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var options struct {
		Slots []string `json:"slots"`
	}
	f.data(rec, &options)
	assert.Equal(t, []string{"09:30", "10:00", "12:00"}, options.Slots)

	booking := map[string]string{
		"provider_id": provider.ID,
		"service_id":  svc.ID,
		"date":        date,
		"time":        "10:00",
	}
	rec = f.do(http.MethodPost, "/api/v1/bookings", first.Token, booking)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created struct {
		ID   string `json:"id"`
		Code string `json:"code"`
	}
	f.data(rec, &created)
	assert.NotEmpty(t, created.Code)

	rec = f.do(http.MethodPost, "/api/v1/bookings", second.Token, booking)
	require.Equal(t, http.StatusConflict, rec.Code)
	var taken struct {
		Error struct {
			Code           string   `json:"code"`
			AvailableSlots []string `json:"available_slots"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &taken))
	assert.Equal(t, handler.SlotAlreadyTakenCode, taken.Error.Code)
	assert.Equal(t, []string{"09:30", "12:00"}, taken.Error.AvailableSlots)

	rec = f.do(http.MethodGet, "/api/v1/provider/availability?date="+date, provider.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var dashboard struct {
		Slots    []string `json:"slots"`
		Bookings []struct {
			Time       string `json:"time"`
			ClientName string `json:"client_name"`
		} `json:"bookings"`
	}
	f.data(rec, &dashboard)
	assert.Equal(t, []string{"09:30", "12:00"}, dashboard.Slots)
	require.Len(t, dashboard.Bookings, 1)
	assert.Equal(t, "10:00", dashboard.Bookings[0].Time)

	rec = f.do(http.MethodPost, "/api/v1/bookings/"+created.ID+"/cancel", second.Token, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/bookings/"+created.ID+"/cancel", first.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/bookings", second.Token, booking)
	assert.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/bookings", first.Token, map[string]string{
		"provider_id": provider.ID,
		"service_id":  svc.ID,
		"date":        "2020-01-01",
		"time":        "09:30",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalogEndpoints(t *testing.T) {
	f := newAPIFixture(t)
	category := testutil.SeedCategory(t, f.db, "Cabelo")
	provider := f.signUp("ana@example.com", "provider")
	client := f.signUp("bia@example.com", "client")

	rec := f.do(http.MethodPost, "/api/v1/provider/services", provider.Token, map[string]interface{}{
		"description": "Escova",
		"category_id": category.ID,
		"price":       "60",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodGet, "/api/v1/services?category_id="+strconv.Itoa(category.ID), "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var listing struct {
		Services []struct {
			ProviderName string `json:"provider_name"`
			City         string `json:"city"`
		} `json:"services"`
		Total int `json:"total"`
	}
	f.data(rec, &listing)
	require.Equal(t, 1, listing.Total)
	assert.Equal(t, "Studio Ana", listing.Services[0].ProviderName)
	assert.Equal(t, "São Paulo", listing.Services[0].City)

	rec = f.do(http.MethodGet, "/api/v1/services?category_id=abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/categories/999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = f.do(http.MethodPost, "/api/v1/providers/"+provider.ID+"/reviews", client.Token, map[string]interface{}{"rating": 5})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.do(http.MethodPost, "/api/v1/providers/"+provider.ID+"/reviews", client.Token, map[string]interface{}{"rating": 9})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(http.MethodGet, "/api/v1/providers/"+provider.ID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		AverageRating float64 `json:"average_rating"`
		ReviewCount   int     `json:"review_count"`
	}
	f.data(rec, &page)
	assert.Equal(t, 5.0, page.AverageRating)
	assert.Equal(t, 1, page.ReviewCount)

	rec = f.do(http.MethodGet, "/api/v1/audit-logs", provider.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), entity.AuditActionServiceCreate)
}

func TestUploadImage(t *testing.T) {
	f := newAPIFixture(t)
	provider := f.signUp("ana@example.com", "provider")

	upload := func(filename string, content []byte) *httptest.ResponseRecorder {
		var buf bytes.Buffer
		w := multipart.NewWriter(&buf)
		part, err := w.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
		require.NoError(t, w.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/v1/uploads", &buf)
		req.Header.Set("Content-Type", w.FormDataContentType())
		req.Header.Set("Authorization", "Bearer "+provider.Token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		return rec
	}

	rec := upload("nails.jpg", []byte("jpeg bytes"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var uploaded struct {
		Key string `json:"key"`
		URL string `json:"url"`
	}
	f.data(rec, &uploaded)
	assert.Contains(t, uploaded.Key, "nails.jpg")
	assert.NotEmpty(t, uploaded.URL)

	rec = upload("notes.txt", []byte("text"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
