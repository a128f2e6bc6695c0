package handlers

import (
	"net/http"

	"diet-tracker/internal/models"
)

// MealMetrics summarizes a user's diet adherence.
type MealMetrics struct {
	TotalMeals         int `json:"totalMeals"`
	TotalMealsOnDiet   int `json:"totalMealsOnDiet"`
	TotalMealsOffDiet  int `json:"totalMealsOffDiet"`
	BestOnDietSequence int `json:"bestOnDietSequence"`
}

// computeMetrics scans meals in creation order. The streak counter resets
// on every off-diet meal; no sorting is needed because the input already
// is in creation order.
func computeMetrics(meals []models.Meal) MealMetrics {
	var m MealMetrics
	current := 0

	for _, meal := range meals {
		m.TotalMeals++
		if meal.IsOnDiet {
			m.TotalMealsOnDiet++
			current++
			if current > m.BestOnDietSequence {
				m.BestOnDietSequence = current
			}
		} else {
			m.TotalMealsOffDiet++
			current = 0
		}
	}

	return m
}

// Metrics returns adherence metrics over the authenticated user's meals.
func (h *Handlers) Metrics(w http.ResponseWriter, r *http.Request) {
	user := GetUserFromContext(r)

	meals, err := h.db.ListMeals(user.ID)
	if err != nil {
		h.log.WithError(err).Error("metrics: failed to list meals")
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	h.writeJSON(w, http.StatusOK, computeMetrics(meals))
}
