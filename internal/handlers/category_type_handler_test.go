package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	apperrors "budgetbuddy/internal/errors"
	"budgetbuddy/internal/models"
	"budgetbuddy/internal/pagination"
	"budgetbuddy/internal/services"
)

type mockCategoryTypeService struct {
	createCategoryTypeFn  func(userID, name string) (*models.CategoryType, error)
	listCategoryTypesFn   func(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryType], error)
	getCategoryTypeByIDFn func(userID, typeID string) (*models.CategoryType, error)
	getTypeCategoriesFn   func(userID, typeID string) ([]services.CategoryDetail, error)
	updateCategoryTypeFn  func(userID, typeID, name string) (*models.CategoryType, error)
	deleteCategoryTypeFn  func(userID, typeID string, isStaff bool) error
}

func (m *mockCategoryTypeService) CreateCategoryType(userID, name string) (*models.CategoryType, error) {
	if m.createCategoryTypeFn != nil {
		return m.createCategoryTypeFn(userID, name)
	}
	return &models.CategoryType{}, nil
}

func (m *mockCategoryTypeService) ListCategoryTypes(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.CategoryType], error) {
	if m.listCategoryTypesFn != nil {
		return m.listCategoryTypesFn(userID, page)
	}
	result := pagination.NewPageResponse([]models.CategoryType{}, 1, 20, 0)
	return &result, nil
}

func (m *mockCategoryTypeService) GetCategoryTypeByID(userID, typeID string) (*models.CategoryType, error) {
	if m.getCategoryTypeByIDFn != nil {
		return m.getCategoryTypeByIDFn(userID, typeID)
	}
	return &models.CategoryType{}, nil
}

func (m *mockCategoryTypeService) GetTypeCategories(userID, typeID string) ([]services.CategoryDetail, error) {
	if m.getTypeCategoriesFn != nil {
		return m.getTypeCategoriesFn(userID, typeID)
	}
	return nil, nil
}

func (m *mockCategoryTypeService) UpdateCategoryType(userID, typeID, name string) (*models.CategoryType, error) {
	if m.updateCategoryTypeFn != nil {
		return m.updateCategoryTypeFn(userID, typeID, name)
	}
	return &models.CategoryType{}, nil
}

func (m *mockCategoryTypeService) DeleteCategoryType(userID, typeID string, isStaff bool) error {
	if m.deleteCategoryTypeFn != nil {
		return m.deleteCategoryTypeFn(userID, typeID, isStaff)
	}
	return nil
}

func setupCategoryTypeRouter(handler *CategoryTypeHandler, isStaff bool) *gin.Engine {
	r := gin.New()
	auth := injectUser("u1", isStaff)
	r.POST("/categorytypes", auth, handler.CreateCategoryType)
	r.GET("/categorytypes", auth, handler.ListCategoryTypes)
	r.GET("/categorytypes/:id", auth, handler.GetCategoryType)
	r.GET("/categorytypes/:id/categories", auth, handler.GetTypeCategories)
	r.PUT("/categorytypes/:id", auth, handler.UpdateCategoryType)
	r.DELETE("/categorytypes/:id", auth, handler.DeleteCategoryType)
	return r
}

func TestCategoryTypeHandler_CreateCategoryType(t *testing.T) {
	t.Run("returns 201 on success", func(t *testing.T) {
		svc := &mockCategoryTypeService{
			createCategoryTypeFn: func(userID, name string) (*models.CategoryType, error) {
				return &models.CategoryType{Base: models.Base{ID: "ct1"}, Name: name, UserID: &userID}, nil
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "POST", "/categorytypes", `{"name":"investments"}`)

		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
		categoryType := parseJSON(t, rec)["category_type"].(map[string]interface{})
		if categoryType["name"] != "investments" {
			t.Errorf("expected name investments, got %v", categoryType["name"])
		}
	})

	t.Run("returns 400 on duplicate name", func(t *testing.T) {
		svc := &mockCategoryTypeService{
			createCategoryTypeFn: func(_, _ string) (*models.CategoryType, error) {
				return nil, apperrors.ErrDuplicateName
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "POST", "/categorytypes", `{"name":"income"}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "DUPLICATE_NAME")
	})

	t.Run("returns 400 on empty name", func(t *testing.T) {
		handler := NewCategoryTypeHandler(&mockCategoryTypeService{}, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "POST", "/categorytypes", `{"name":""}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})
}

func TestCategoryTypeHandler_GetCategoryType(t *testing.T) {
	t.Run("attaches categories with rl=true", func(t *testing.T) {
		svc := &mockCategoryTypeService{
			getTypeCategoriesFn: func(_, _ string) ([]services.CategoryDetail, error) {
				return []services.CategoryDetail{
					{Category: models.Category{Base: models.Base{ID: "c1"}, Name: "Groceries", AmountPlanned: 400}},
				}, nil
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "GET", "/categorytypes/ct1?rl=true", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		categories := parseJSON(t, rec)["categories"].([]interface{})
		if len(categories) != 1 {
			t.Fatalf("expected 1 category, got %d", len(categories))
		}
		category := categories[0].(map[string]interface{})
		if category["amount_planned"].(float64) != 400 {
			t.Errorf("expected amount_planned 400, got %v", category["amount_planned"])
		}
	})

	t.Run("returns 404 when not visible", func(t *testing.T) {
		svc := &mockCategoryTypeService{
			getCategoryTypeByIDFn: func(_, _ string) (*models.CategoryType, error) {
				return nil, apperrors.ErrCategoryTypeNotFound
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "GET", "/categorytypes/foreign", "")

		if rec.Code != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", rec.Code)
		}
	})
}

func TestCategoryTypeHandler_DeleteCategoryType(t *testing.T) {
	t.Run("forwards the staff flag", func(t *testing.T) {
		var gotStaff bool
		svc := &mockCategoryTypeService{
			deleteCategoryTypeFn: func(_, _ string, isStaff bool) error {
				gotStaff = isStaff
				return nil
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, true)

		rec := doRequest(r, "DELETE", "/categorytypes/ct1", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if !gotStaff {
			t.Error("expected the staff flag to reach the service")
		}
	})

	t.Run("returns 403 for protected defaults", func(t *testing.T) {
		svc := &mockCategoryTypeService{
			deleteCategoryTypeFn: func(_, _ string, _ bool) error {
				return apperrors.ErrProtectedCategoryType
			},
		}
		handler := NewCategoryTypeHandler(svc, &mockAuditService{})
		r := setupCategoryTypeRouter(handler, false)

		rec := doRequest(r, "DELETE", "/categorytypes/default", "")

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
		assertErrorCode(t, parseJSON(t, rec), "PROTECTED_CATEGORY_TYPE")
	})
}
