package handler

import "github.com/gin-gonic/gin"

// Guards are the access checks resource handlers attach to their routes.
type Guards struct {
	// Authenticated admits any caller with a valid token.
	Authenticated gin.HandlerFunc
	// Admin admits administrators only; it runs after Authenticated.
	Admin gin.HandlerFunc
	// Resident admits residents only; it runs after Authenticated.
	Resident gin.HandlerFunc
}

// Protected chains handlers behind Authenticated.
func (g Guards) Protected(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.Authenticated}, handlers...)
}

// AdminOnly chains handlers behind Authenticated and Admin.
func (g Guards) AdminOnly(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.Authenticated, g.Admin}, handlers...)
}

// ResidentOnly chains handlers behind Authenticated and Resident.
func (g Guards) ResidentOnly(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	return append([]gin.HandlerFunc{g.Authenticated, g.Resident}, handlers...)
}
