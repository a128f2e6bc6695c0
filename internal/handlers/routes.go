package handlers

import "net/http"

// Routes builds the HTTP mux. Registration is public; every meal route
// sits behind the auth middleware.
func (h *Handlers) Routes() *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /user", h.RegisterUser)

	mux.Handle("POST /meal", h.AuthMiddleware(http.HandlerFunc(h.CreateMeal)))
	mux.Handle("GET /meal", h.AuthMiddleware(http.HandlerFunc(h.ListMeals)))
	mux.Handle("GET /meal/metrics", h.AuthMiddleware(http.HandlerFunc(h.Metrics)))
	mux.Handle("GET /meal/{id}", h.AuthMiddleware(http.HandlerFunc(h.GetMeal)))
	mux.Handle("PUT /meal/{id}", h.AuthMiddleware(http.HandlerFunc(h.UpdateMeal)))
	mux.Handle("DELETE /meal/{id}", h.AuthMiddleware(http.HandlerFunc(h.DeleteMeal)))

	return mux
}
