package categories

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"marketgo/models"
)

// --- Mock Repository ---

type MockCategoryRepo struct {
	Categories []models.Category
	CreateErr  error
	ListErr    error

	createdCategory *models.Category
}

func (m *MockCategoryRepo) GetActiveCategories() ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	var active []models.Category
	for _, c := range m.Categories {
		if c.IsActive {
			active = append(active, c)
		}
	}
	return active, nil
}

func (m *MockCategoryRepo) GetAllCategories() ([]models.Category, error) {
	if m.ListErr != nil {
		return nil, m.ListErr
	}
	return m.Categories, nil
}

func (m *MockCategoryRepo) CreateCategory(category *models.Category) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	// Simulate the repository's slug assignment.
	category.ID = uint(len(m.Categories) + 1)
	category.Slug = strings.ToLower(strings.ReplaceAll(category.Name, " ", "-"))
	m.createdCategory = category
	return nil
}

// --- Tests ---

func TestHandleGetAll(t *testing.T) {
	testCases := []struct {
		name               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder)
	}{
		{
			name: "Success",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{
					Categories: []models.Category{
						{ID: 1, Name: "Clothing", Slug: "clothing", IsActive: true},
						{ID: 2, Name: "Shoes", Slug: "shoes", IsActive: true},
					},
				}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 2)
				assert.Equal(t, "Clothing", resp[0].Name)
				assert.Equal(t, "clothing", resp[0].Slug)
			},
		},
		{
			name: "Empty list",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusOK,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var resp []CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Len(t, resp, 0)
			},
		},
		{
			name: "Repository error",
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{ListErr: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder) {
				var errResp map[string]string
				err := json.NewDecoder(rec.Body).Decode(&errResp)
				assert.NoError(t, err)
				assert.Equal(t, "failed to fetch categories", errResp["error"])
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("GET", "/categories", nil)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleGetAll(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, rec)
		})
	}
}

func TestHandleListAll(t *testing.T) {
	repo := &MockCategoryRepo{
		Categories: []models.Category{
			{ID: 1, Name: "Clothing", Slug: "clothing", IsActive: true},
			{ID: 2, Name: "Discontinued", Slug: "discontinued", IsActive: false},
		},
	}
	handler := NewCategoryHandler(repo)
	req := httptest.NewRequest("GET", "/admin/categories", nil)
	rec := httptest.NewRecorder()

	handler.HandleListAll(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []AdminCategoryResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp, 2, "admin listing includes inactive categories")
	assert.False(t, resp[1].IsActive)

	// The public listing hides the inactive one.
	rec = httptest.NewRecorder()
	handler.HandleGetAll(rec, httptest.NewRequest("GET", "/categories", nil))

	var public []CategoryResponse
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&public))
	assert.Len(t, public, 1)
}

func TestHandleCreate(t *testing.T) {
	testCases := []struct {
		name               string
		body               string
		mockRepoSetup      func() *MockCategoryRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo)
	}{
		{
			name: "Success",
			body: `{"name": "Home Goods", "description": "For the house"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				var resp CategoryResponse
				err := json.NewDecoder(rec.Body).Decode(&resp)
				assert.NoError(t, err)
				assert.Equal(t, "Home Goods", resp.Name)
				assert.Equal(t, "home-goods", resp.Slug)

				assert.NotNil(t, repo.createdCategory)
				assert.Equal(t, "For the house", repo.createdCategory.Description)
				assert.True(t, repo.createdCategory.IsActive)
			},
		},
		{
			name: "Missing name",
			body: `{"description": "nameless"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {
				assert.Nil(t, repo.createdCategory)
			},
		},
		{
			name: "Invalid JSON",
			body: `{"name": `,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
			checkResponse:      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {},
		},
		{
			name: "Repository error",
			body: `{"name": "Home Goods"}`,
			mockRepoSetup: func() *MockCategoryRepo {
				return &MockCategoryRepo{CreateErr: errors.New("db down")}
			},
			expectedStatusCode: http.StatusInternalServerError,
			checkResponse:      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockCategoryRepo) {},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewCategoryHandler(mockRepo)
			req := httptest.NewRequest("POST", "/admin/categories", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			tc.checkResponse(t, rec, mockRepo)
		})
	}
}
