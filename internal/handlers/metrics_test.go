package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"diet-tracker/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeMetrics(t *testing.T) {
	tests := []struct {
		name  string
		flags []bool
		want  MealMetrics
	}{
		{
			name:  "streak broken in the middle",
			flags: []bool{true, true, false, false},
			want:  MealMetrics{TotalMeals: 4, TotalMealsOnDiet: 2, TotalMealsOffDiet: 2, BestOnDietSequence: 2},
		},
		{
			name:  "all on diet",
			flags: []bool{true, true, true},
			want:  MealMetrics{TotalMeals: 3, TotalMealsOnDiet: 3, BestOnDietSequence: 3},
		},
		{
			name:  "all off diet",
			flags: []bool{false, false},
			want:  MealMetrics{TotalMeals: 2, TotalMealsOffDiet: 2},
		},
		{
			name:  "empty ledger",
			flags: nil,
			want:  MealMetrics{},
		},
		{
			name:  "best streak after a reset",
			flags: []bool{true, false, true, true, true, false, true},
			want:  MealMetrics{TotalMeals: 7, TotalMealsOnDiet: 5, TotalMealsOffDiet: 2, BestOnDietSequence: 3},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meals := make([]models.Meal, len(tt.flags))
			for i, f := range tt.flags {
				meals[i] = models.Meal{IsOnDiet: f}
			}
			assert.Equal(t, tt.want, computeMetrics(meals))
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerUser(t, router, "Jane Doe", "jane@example.com")

	for _, isOnDiet := range []bool{true, true, false, false} {
		createMeal(t, router, cookie, "Dinner", isOnDiet)
	}

	req := httptest.NewRequest("GET", "/meal/metrics", http.NoBody)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var m MealMetrics
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &m))
	assert.Equal(t, MealMetrics{
		TotalMeals:         4,
		TotalMealsOnDiet:   2,
		TotalMealsOffDiet:  2,
		BestOnDietSequence: 2,
	}, m)
}

func TestMetricsEmptyLedger(t *testing.T) {
	router := newTestRouter(t)
	cookie := registerUser(t, router, "Jane Doe", "jane@example.com")

	req := httptest.NewRequest("GET", "/meal/metrics", http.NoBody)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalMeals":0,"totalMealsOnDiet":0,"totalMealsOffDiet":0,"bestOnDietSequence":0}`, w.Body.String())
}

func TestMetricsScopedToOwner(t *testing.T) {
	router := newTestRouter(t)
	janeCookie := registerUser(t, router, "Jane Doe", "jane@example.com")
	johnCookie := registerUser(t, router, "John Doe", "john@example.com")

	createMeal(t, router, janeCookie, "Dinner", true)

	req := httptest.NewRequest("GET", "/meal/metrics", http.NoBody)
	req.AddCookie(johnCookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"totalMeals":0,"totalMealsOnDiet":0,"totalMealsOffDiet":0,"bestOnDietSequence":0}`, w.Body.String())
}
