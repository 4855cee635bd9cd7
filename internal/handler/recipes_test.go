package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/osse101/ashfall/internal/recipe"
	"github.com/osse101/ashfall/internal/recipedict"
	"github.com/osse101/ashfall/internal/requirement"
)

func testDictionary(t *testing.T) *recipedict.Dictionary {
	t.Helper()
	dict := recipedict.New(0)
	add := func(ident string, id int, category, sub string, reversible bool, components ...string) {
		r := &recipe.Recipe{
			Ident:              ident,
			ID:                 id,
			Result:             ident,
			Time:               100,
			Difficulty:         1,
			SkillUsed:          "fabrication",
			RequiredSkills:     map[string]int{"fabrication": 1},
			Category:           category,
			Subcategory:        sub,
			Reversible:         reversible,
			LearnByDisassembly: recipe.NoDisassemblyLearning,
			ResultMult:         1,
		}
		for _, c := range components {
			r.Requirements.Components = append(r.Requirements.Components,
				requirement.Slot{{{TypeID: c, Quantity: 1}}})
		}
		require.NoError(t, dict.Add(r))
	}
	add("frame", 0, "other", "parts", true, "nails", "plank")
	add("box", 1, "other", "containers", false, "plank")
	add("knife", 2, "weapon", "cutting", false, "scrap")
	return dict
}

type listResponse struct {
	Data []RecipeSummary `json:"data"`
}

func listRecipes(t *testing.T, dict *recipedict.Dictionary, query string) (int, []RecipeSummary) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/recipes"+query, nil)
	w := httptest.NewRecorder()
	HandleListRecipes(dict).ServeHTTP(w, req)

	var body listResponse
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	}
	return w.Code, body.Data
}

func idents(rs []RecipeSummary) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestHandleListRecipes(t *testing.T) {
	dict := testDictionary(t)

	tests := []struct {
		name  string
		query string
		want  []string
	}{
		{"all", "", []string{"frame", "box", "knife"}},
		{"category", "?category=other", []string{"frame", "box"}},
		{"subcategory", "?category=other&subcategory=containers", []string{"box"}},
		{"component", "?component=plank", []string{"frame", "box"}},
		{"component and category", "?component=plank&category=weapon", []string{}},
		{"result", "?result=knife", []string{"knife"}},
		{"unknown component", "?component=unobtainium", []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, got := listRecipes(t, dict, tt.query)
			assert.Equal(t, http.StatusOK, code)
			assert.Equal(t, tt.want, idents(got))
		})
	}

	t.Run("subcategory without category", func(t *testing.T) {
		code, _ := listRecipes(t, dict, "?subcategory=parts")
		assert.Equal(t, http.StatusBadRequest, code)
	})

	t.Run("summary fields", func(t *testing.T) {
		_, got := listRecipes(t, dict, "?result=frame")
		require.Len(t, got, 1)
		assert.Equal(t, RecipeSummary{
			ID: "frame", Index: 0, Result: "frame", Category: "other", Subcategory: "parts",
			Time: 100, Difficulty: 1, SkillUsed: "fabrication", Reversible: true,
		}, got[0])
	})
}

func getRecipe(dict *recipedict.Dictionary, id string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Get("/api/v1/recipes/{id}", HandleGetRecipe(dict))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/"+id, nil))
	return w
}

func TestHandleGetRecipe(t *testing.T) {
	dict := testDictionary(t)

	t.Run("by id", func(t *testing.T) {
		w := getRecipe(dict, "frame")
		require.Equal(t, http.StatusOK, w.Code)

		var body struct {
			Data map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, "frame", body.Data["id"])
		assert.Equal(t, false, body.Data["auto_learnable"])
		assert.Equal(t, "fabrication(1)", body.Data["required_skills_text"])
		assert.NotNil(t, body.Data["requirements"])
	})

	t.Run("by numeric index", func(t *testing.T) {
		w := getRecipe(dict, "2")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"id":"knife"`)
	})

	t.Run("not found suggests", func(t *testing.T) {
		w := getRecipe(dict, "fram")
		require.Equal(t, http.StatusNotFound, w.Code)

		var body ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, ErrMsgRecipeNotFoundError, body.Error)
		assert.Equal(t, []string{"frame"}, body.Suggestions)
	})
}

func TestHandleSuggestRecipes(t *testing.T) {
	dict := testDictionary(t)
	suggest := func(query string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		HandleSuggestRecipes(dict).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/recipes/suggest"+query, nil))
		return w
	}

	w := suggest("?q=knif")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":["knife"]}`, w.Body.String())

	w = suggest("?q=zzzzzzzzzz")
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"data":[]}`, w.Body.String())

	assert.Equal(t, http.StatusBadRequest, suggest("").Code)
	assert.Equal(t, http.StatusBadRequest, suggest("?q=box&limit=0").Code)
	assert.Equal(t, http.StatusBadRequest, suggest("?q=box&limit=x").Code)
	assert.Equal(t, http.StatusOK, suggest("?q=box&limit=1000").Code)
}

// MockKnownRecipes mocks crafting.KnownRecipeRepository
type MockKnownRecipes struct {
	mock.Mock
}

func (m *MockKnownRecipes) KnownRecipes(ctx context.Context, crafterID string) ([]string, error) {
	args := m.Called(ctx, crafterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockKnownRecipes) IsKnown(ctx context.Context, crafterID, recipe string) (bool, error) {
	args := m.Called(ctx, crafterID, recipe)
	return args.Bool(0), args.Error(1)
}

func (m *MockKnownRecipes) LearnRecipe(ctx context.Context, crafterID, recipe, source string) (bool, error) {
	args := m.Called(ctx, crafterID, recipe, source)
	return args.Bool(0), args.Error(1)
}

func (m *MockKnownRecipes) ForgetRecipe(ctx context.Context, crafterID, recipe string) error {
	args := m.Called(ctx, crafterID, recipe)
	return args.Error(0)
}

func TestHandleKnownRecipes(t *testing.T) {
	serve := func(repo *MockKnownRecipes, crafter string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Get("/api/v1/crafters/{crafterID}/recipes", HandleKnownRecipes(repo))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/crafters/"+crafter+"/recipes", nil))
		return w
	}

	t.Run("lists", func(t *testing.T) {
		repo := &MockKnownRecipes{}
		repo.On("KnownRecipes", mock.Anything, "ava").Return([]string{"box", "frame"}, nil)

		w := serve(repo, "ava")
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"data":["box","frame"]}`, w.Body.String())
		repo.AssertExpectations(t)
	})

	t.Run("none known", func(t *testing.T) {
		repo := &MockKnownRecipes{}
		repo.On("KnownRecipes", mock.Anything, "bo").Return(nil, nil)

		w := serve(repo, "bo")
		assert.JSONEq(t, `{"data":[]}`, w.Body.String())
	})

	t.Run("repository error", func(t *testing.T) {
		repo := &MockKnownRecipes{}
		repo.On("KnownRecipes", mock.Anything, "ava").Return(nil, errors.New("connection reset"))

		w := serve(repo, "ava")
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.NotContains(t, w.Body.String(), "connection reset")
	})
}
