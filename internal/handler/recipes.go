package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/osse101/ashfall/internal/crafting"
	"github.com/osse101/ashfall/internal/domain"
	"github.com/osse101/ashfall/internal/logger"
	"github.com/osse101/ashfall/internal/recipe"
)

// RecipeSource is the read side of the recipe dictionary
type RecipeSource interface {
	ByName(ident string) (*recipe.Recipe, bool)
	ByID(id int) (*recipe.Recipe, bool)
	All() []*recipe.Recipe
	InCategory(category, subcategory string) []*recipe.Recipe
	OfComponent(typeID string) []*recipe.Recipe
	Suggest(query string, limit int) []string
}

// RecipeSummary is the list form of a recipe
type RecipeSummary struct {
	ID          string `json:"id"`
	Index       int    `json:"index"`
	Result      string `json:"result"`
	Category    string `json:"category"`
	Subcategory string `json:"subcategory,omitempty"`
	Time        int    `json:"time"`
	Difficulty  int    `json:"difficulty"`
	SkillUsed   string `json:"skill_used,omitempty"`
	Reversible  bool   `json:"reversible"`
	Autolearn   bool   `json:"autolearn"`
}

// RecipeDetail is a full recipe plus derived fields
type RecipeDetail struct {
	*recipe.Recipe
	AutoLearnable  bool   `json:"auto_learnable"`
	RequiredSkills string `json:"required_skills_text,omitempty"`
}

func summarize(r *recipe.Recipe) RecipeSummary {
	return RecipeSummary{
		ID:          r.Ident,
		Index:       r.ID,
		Result:      r.Result,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Time:        r.Time,
		Difficulty:  r.Difficulty,
		SkillUsed:   r.SkillUsed,
		Reversible:  r.Reversible,
		Autolearn:   r.IsAutoLearnable(),
	}
}

// HandleListRecipes lists recipes, optionally filtered by category,
// subcategory, component and result. Filters combine with AND.
func HandleListRecipes(src RecipeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		category, subcategory := q.Get(QueryCategory), q.Get(QuerySubcategory)
		component, result := q.Get(QueryComponent), q.Get(QueryResult)

		if subcategory != "" && category == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("%s requires %s", QuerySubcategory, QueryCategory))
			return
		}

		var recipes []*recipe.Recipe
		if category != "" {
			recipes = src.InCategory(category, subcategory)
		} else {
			recipes = src.All()
		}

		var uses map[*recipe.Recipe]bool
		if component != "" {
			uses = make(map[*recipe.Recipe]bool)
			for _, rc := range src.OfComponent(component) {
				uses[rc] = true
			}
		}

		out := make([]RecipeSummary, 0, len(recipes))
		for _, rc := range recipes {
			if uses != nil && !uses[rc] {
				continue
			}
			if result != "" && rc.Result != result {
				continue
			}
			out = append(out, summarize(rc))
		}

		logger.FromContext(r.Context()).Debug(LogMsgRecipesListed, "count", len(out),
			"category", category, "component", component, "result", result)
		respondJSON(w, http.StatusOK, DataResponse{Data: out})
	}
}

// HandleGetRecipe returns one recipe by string id, or by numeric index when
// no recipe has that id. Unknown ids answer 404 with close matches.
func HandleGetRecipe(src RecipeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ident := chi.URLParam(r, "id")
		rc, ok := src.ByName(ident)
		if !ok {
			if index, err := strconv.Atoi(ident); err == nil {
				rc, ok = src.ByID(index)
			}
		}
		logger.FromContext(r.Context()).Debug(LogMsgRecipeLookup, "id", ident, "found", ok)

		if !ok {
			respondJSON(w, http.StatusNotFound, ErrorResponse{
				Error:       ErrMsgRecipeNotFoundError,
				Suggestions: src.Suggest(ident, DefaultSuggestLimit),
			})
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Data: RecipeDetail{
			Recipe:         rc,
			AutoLearnable:  rc.IsAutoLearnable(),
			RequiredSkills: rc.RequiredSkillsString(),
		}})
	}
}

// HandleSuggestRecipes returns recipe ids close to ?q=
func HandleSuggestRecipes(src RecipeSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get(QueryQ)
		if query == "" {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("%s is required", QueryQ))
			return
		}

		limit := DefaultSuggestLimit
		if raw := r.URL.Query().Get(QueryLimit); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				respondError(w, http.StatusBadRequest, fmt.Sprintf("%s must be a positive integer", QueryLimit))
				return
			}
			limit = min(n, MaxSuggestLimit)
		}

		suggestions := src.Suggest(query, limit)
		if suggestions == nil {
			suggestions = []string{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: suggestions})
	}
}

// HandleKnownRecipes lists the recipes a crafter knows
func HandleKnownRecipes(repo crafting.KnownRecipeRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		crafterID := chi.URLParam(r, "crafterID")
		if crafterID == "" {
			respondServiceError(w, domain.ErrInvalidInput)
			return
		}

		known, err := repo.KnownRecipes(r.Context(), crafterID)
		if err != nil {
			logger.FromContext(r.Context()).Error(LogMsgKnownRecipesFail, "crafter", crafterID, "error", err)
			respondServiceError(w, err)
			return
		}
		if known == nil {
			known = []string{}
		}
		respondJSON(w, http.StatusOK, DataResponse{Data: known})
	}
}
