package handlers

// AppHandlers groups every HTTP handler for route registration.
type AppHandlers struct {
	Auth      *AuthHandler
	Portfolio *PortfolioHandler
	TechStack *TechStackHandler
	File      *FileHandler
}
